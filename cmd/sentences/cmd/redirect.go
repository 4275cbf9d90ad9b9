package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/sentences/internal/location"
	"github.com/f3rmion/sentences/internal/session"
)

var redirectCmd = &cobra.Command{
	Use:   "redirect <link>",
	Short: "Stash a search link for the next start",
	Long: `Store a one-shot redirect to a search link such as "/search?q=hola".

The next interactive start consumes it and opens that search instead of
its own start address. The value is read at most once and expires after
the configured session TTL.`,
	Args: cobra.ExactArgs(1),
	RunE: runRedirect,
}

func init() {
	rootCmd.AddCommand(redirectCmd)
}

func runRedirect(cmd *cobra.Command, args []string) error {
	u, err := location.ParseLink(args[0])
	if err != nil {
		return fmt.Errorf("parsing link: %w", err)
	}
	route, term := location.Resolve(u)
	if route != location.RouteSearch || term == "" {
		return errors.New("link must point to /search with a non-empty q parameter")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sessions, closeSessions, err := openSessions(cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	link := location.SearchURL(term).String()
	if err := sessions.Put(context.Background(), session.RedirectKey, link); err != nil {
		return fmt.Errorf("storing redirect: %w", err)
	}

	fmt.Printf("Stored redirect to %s\n", link)
	return nil
}
