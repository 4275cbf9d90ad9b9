package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f3rmion/sentences/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize sentences configuration",
	Long: `Write a default config.yaml to your config directory.

Edit api.base_url and api.key afterwards, or set SENTENCES_API_URL and
SENTENCES_API_KEY in the environment.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := filepath.Join(configDir, config.FileName)

	// Check if config already exists
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.Save(configDir, config.Default()); err != nil {
		return err
	}

	fmt.Printf("Created %s\n\n", path)
	fmt.Println("Next steps:")
	fmt.Println("  1. Set api.base_url and api.key in the config file")
	fmt.Println("  2. Run 'sentences lookup hello' to test a search")
	fmt.Println("  3. Run 'sentences' to launch the interactive UI")

	return nil
}
