package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the configured version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scribe %s (%s)\n", cfg.Version, cfg.Env())
		return nil
	},
}
