package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"deedles.dev/rill/config"
)

var (
	// Version is set during build.
	Version = "0.1.0-dev"

	configFile string

	rootCmd = &cobra.Command{
		Use:   "rill",
		Short: "rill - tiling Wayland compositor core",
		Long: `rill is the policy core of a tiling Wayland compositor: focus
arbitration, window stacking, surface trees, pointer confinement, and
decoration negotiation. A protocol transport links against it to form a
complete compositor.`,
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to the config file")
	rootCmd.AddCommand(checkCmd)
}

// setupLogging applies the configured level, falling back to the
// LOG_LEVEL environment variable.
func setupLogging(cfg *config.Config) *log.Logger {
	logger := log.New(os.Stderr)

	level := cfg.LogLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	switch strings.ToUpper(level) {
	case "DEBUG":
		logger.SetLevel(log.DebugLevel)
	case "WARN", "WARNING":
		logger.SetLevel(log.WarnLevel)
	case "ERROR":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
