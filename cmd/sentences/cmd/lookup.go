package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/sentences/internal/clipboard"
	"github.com/f3rmion/sentences/internal/search"
	"github.com/f3rmion/sentences/internal/sentences"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <term>",
	Short: "Print example sentences for a word or phrase",
	Long: `Run a single search and print the examples.

Example:
  sentences lookup 你好
  sentences lookup "good morning" --copy`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().Bool("copy", false, "copy all examples to the clipboard")
}

func runLookup(cmd *cobra.Command, args []string) error {
	copyAll, _ := cmd.Flags().GetBool("copy")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	ctrl := search.NewController(search.NewStore(), client, nil, logger)
	st, ok := ctrl.Run(context.Background(), strings.Join(args, " "))
	if !ok {
		return errors.New("please enter a word or phrase")
	}
	if st.Status == sentences.StatusError {
		return errors.New(st.ErrorMessage)
	}

	printResult(st.Result, cfg.ReferenceLanguage)

	if copyAll {
		exporter := clipboard.NewExporter(clipboard.SystemWriter{Terminal: os.Stderr}, cfg.ReferenceLanguage)
		switch err := exporter.Copy(st.Result); {
		case errors.Is(err, clipboard.ErrNothingToCopy):
		case err != nil:
			logger.Error("copying examples", "error", err)
			return errors.New(clipboard.FailureMessage)
		default:
			fmt.Fprintln(os.Stderr, "Copied!")
		}
	}

	return nil
}

func printResult(r *sentences.Result, referenceLanguage string) {
	fmt.Printf("Examples for %q\n", r.Term)
	if r.DetectedLanguage != "" {
		fmt.Printf("Detected: %s\n", r.DetectedLanguage)
	}
	fmt.Println("Results are generated by AI and may not be accurate.")
	fmt.Println()

	if len(r.Examples) == 0 {
		fmt.Println("No examples returned.")
		return
	}

	showDetails := !sentences.SameLanguage(r.DetectedLanguage, referenceLanguage)
	for i, ex := range r.Examples {
		fmt.Printf("%d. %s\n", i+1, ex.Target)
		if showDetails {
			fmt.Printf("   %s\n", ex.Pronunciation)
			fmt.Printf("   %s\n", ex.English)
		}
		fmt.Println()
	}
}
