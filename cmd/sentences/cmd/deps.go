package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/f3rmion/sentences/internal/api"
	"github.com/f3rmion/sentences/internal/config"
	"github.com/f3rmion/sentences/internal/logging"
	"github.com/f3rmion/sentences/internal/session"
)

// newLogger builds the process logger. The TUI owns the terminal, so it logs
// to the configured file; every other command logs to stderr.
func newLogger(cfg *config.Config, toFile bool) (*slog.Logger, func(), error) {
	if !toFile {
		return logging.New(cfg.Log, os.Stderr), func() {}, nil
	}
	if cfg.Log.File == "" {
		return logging.Discard(), func() {}, nil
	}

	f, err := logging.OpenFile(config.ResolvePath(getConfigDir(), cfg.Log.File))
	if err != nil {
		return nil, nil, err
	}
	return logging.New(cfg.Log, f), func() { f.Close() }, nil
}

// newClient creates the query executor.
func newClient(cfg *config.Config, logger *slog.Logger) (*api.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return api.NewClient(cfg.API.BaseURL, cfg.API.Key,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)
}

// openSessions opens the one-shot session store.
func openSessions(cfg *config.Config) (session.Store, func(), error) {
	if viper.GetBool("no_session") {
		return session.NewMemoryStore(), func() {}, nil
	}

	path := config.ResolvePath(getConfigDir(), cfg.Session.Path)
	store, err := session.NewSQLiteStore(path, session.WithTTL(cfg.Session.TTL))
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}
