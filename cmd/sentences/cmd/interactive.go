package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/f3rmion/sentences/internal/clipboard"
	"github.com/f3rmion/sentences/internal/location"
	"github.com/f3rmion/sentences/internal/pinyin"
	"github.com/f3rmion/sentences/internal/search"
	"github.com/f3rmion/sentences/internal/tui"
	"github.com/f3rmion/sentences/internal/tui/banner"
	"github.com/f3rmion/sentences/internal/tui/views"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive [link]",
	Aliases: []string{"i", "ui"},
	Short:   "Launch interactive TUI",
	Long: `Launch the interactive terminal UI.

An optional link such as "/search?q=hola" (or a full URL with that path)
opens the search directly. Any other path starts on the home page.

Controls:
  Enter        Search
  Ctrl+Y       Copy all examples
  Alt+←/→      Back / forward
  F1           Help
  Esc          Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	sessions, closeSessions, err := openSessions(cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	start := location.RootURL()
	if len(args) > 0 {
		start, err = location.ParseLink(args[0])
		if err != nil {
			return fmt.Errorf("parsing link: %w", err)
		}
	}

	app := tui.NewApp(views.SearchDeps{
		Store:             search.NewStore(),
		Executor:          client,
		History:           location.NewHistory(start),
		Sessions:          sessions,
		Exporter:          clipboard.NewExporter(clipboard.SystemWriter{Terminal: os.Stdout}, cfg.ReferenceLanguage),
		Banner:            banner.System(),
		Romanizer:         pinyin.NewRomanizer(),
		ReferenceLanguage: cfg.ReferenceLanguage,
		Logger:            logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
