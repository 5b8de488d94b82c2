package cmd

import (
	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap/config"
	"freightdesk/internal/errs"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML after file, .env and environment overrides",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cmd.Context(), cfgFile)
		if err != nil {
			return errs.Wrap(err, "load config")
		}
		encoded, err := cfg.TOML()
		if err != nil {
			return errs.Wrap(err, "encode config")
		}
		if _, err := cmd.OutOrStdout().Write(encoded); err != nil {
			return errs.Wrap(err, "write config")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
