// Package cmd implements the CLI commands for pulsarr.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jamcalli/pulsarr/internal/config"
	"github.com/jamcalli/pulsarr/internal/observability"
	"github.com/jamcalli/pulsarr/internal/version"
)

// cfgFile holds the config file path from CLI flag.
var cfgFile string

// cfg is the loaded configuration, populated before any subcommand runs.
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "pulsarr",
	Short:   "Content routing engine for watchlist automation",
	Version: version.Short(),
	Long: `pulsarr routes watchlisted movies and shows to the right radarr or
sonarr instance. Routing rules combine condition trees (genre, year,
language, certification, requesting user) with per-rule weights, and
every matching rule produces a decision so one item can land on
multiple instances.`,
	// PersistentPreRunE is set in init() to avoid an initialization cycle
	// (initConfig references rootCmd.PersistentFlags).
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return initConfig()
	}

	// Global flags.
	// These are NOT bound to viper. We check whether they were explicitly
	// set using Changed() and only then override the config/env values.
	// This preserves the priority: CLI flag > env var > config > default.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., ./configs, /etc/pulsarr, $HOME/.pulsarr)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (text, json)")
}

// stringFlagOverride copies a flag value into dst only when the user set
// the flag explicitly, preserving env/config values otherwise.
func stringFlagOverride(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		v, _ := flags.GetString(name)
		*dst = v
	}
}

// intFlagOverride is stringFlagOverride for int flags.
func intFlagOverride(flags *pflag.FlagSet, name string, dst *int) {
	if flags.Changed(name) {
		v, _ := flags.GetInt(name)
		*dst = v
	}
}

// initConfig loads the configuration and wires up logging.
func initConfig() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	// Override with CLI flags only if explicitly set by the user.
	stringFlagOverride(rootCmd.PersistentFlags(), "log-level", &cfg.Logging.Level)
	stringFlagOverride(rootCmd.PersistentFlags(), "log-format", &cfg.Logging.Format)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	// "warning" is accepted as an alias for "warn".
	if cfg.Logging.Level == "warning" {
		cfg.Logging.Level = "warn"
	}

	// The observability logger redacts sensitive fields (API keys) before
	// they reach any log sink.
	logger := observability.NewLogger(cfg.Logging)
	observability.SetDefault(logger)

	return nil
}
