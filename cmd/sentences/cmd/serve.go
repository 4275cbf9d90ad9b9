package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/sentences/internal/pinyin"
	"github.com/f3rmion/sentences/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search pages over HTTP",
	Long: `Start the web front.

Routes:
  /                      home page
  /search?q=<term>       search results
  /api/examples/<term>   JSON proxy to the sentence service
  anything else          redirects to /

The API key stays on the server and is never sent to browsers.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
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

	srv, err := server.New(server.Config{
		Addr:              cfg.Server.Addr,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		ReferenceLanguage: cfg.ReferenceLanguage,
		RequestTimeout:    cfg.API.Timeout + 5*time.Second,
		Romanizer:         pinyin.NewRomanizer(),
	}, client, logger)
	if err != nil {
		return err
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "sentences server starting on %s\n", cfg.Server.Addr)
	return srv.Start()
}
