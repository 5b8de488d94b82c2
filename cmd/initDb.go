/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/errs"
)

// initDbCmd represents the initDb command
var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize the local session and cache database",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		logging.Info(ctx, "start init-db")

		app := svc.App
		if err := app.InitSchema(ctx); err != nil {
			logging.Error(ctx, "initialize schema failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "initialize schema")
		}
		version, err := app.SchemaVersion(ctx)
		if err != nil {
			return errs.Wrap(err, "read schema version")
		}

		logging.Info(ctx, "init-db finished",
			slog.String("database_dsn", app.Config.Database.DSN),
			slog.String("schema_version", version),
		)
		return printf(cmd, "database schema initialized: %s (version %s)\n", app.Config.Database.DSN, version)
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
