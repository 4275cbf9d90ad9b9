// Package cmd contains all CLI commands for the sentences tool.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/sentences/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sentences",
	Short: "Example sentences for any word or phrase",
	Long: `sentences shows AI-generated example sentences for a word or phrase in
any language, with pronunciation and an English translation for each.

Each search is addressable as /search?q=<term>: pass such a link to
'sentences interactive' to open it directly, or run 'sentences serve' to
browse the same pages in a web browser.

Running 'sentences' without arguments launches the interactive TUI.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runInteractive,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/sentences)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-session", false, "keep session values in memory instead of the session database")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no_session", rootCmd.PersistentFlags().Lookup("no-session"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		configDir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", configDir)
	}

	// SENTENCES_API_URL -> api.url
	viper.SetEnvPrefix("SENTENCES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadConfig reads config.yaml and applies environment and flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigDir())
	if err != nil {
		return nil, err
	}

	if v := viper.GetString("api.url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := viper.GetString("api.key"); v != "" {
		cfg.API.Key = v
	}
	if v := viper.GetDuration("api.timeout"); v > 0 {
		cfg.API.Timeout = v
	}
	if v := viper.GetString("reference_language"); v != "" {
		cfg.ReferenceLanguage = v
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := viper.GetString("log.level"); v != "" {
		cfg.Log.Level = v
	}
	if v := viper.GetString("log.format"); v != "" {
		cfg.Log.Format = v
	}
	if viper.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}

	return cfg, nil
}
