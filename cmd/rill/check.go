package main

import (
	"github.com/spf13/cobra"

	"deedles.dev/rill/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		logger := setupLogging(cfg)
		logger.Info("configuration is valid",
			"attach_mode", cfg.AttachMode,
			"warp_cursor", cfg.WarpCursor,
			"repeat_rate", cfg.Repeat.Rate,
			"repeat_delay", cfg.Repeat.Delay,
			"csd_rules", len(cfg.CSDFilter))
		return nil
	},
}
