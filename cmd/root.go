/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap/config"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/errs"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "freightdesk",
	Short:        "Freight operations console",
	Long:         "Operator CLI and terminal board for the freight management API: shipments, customs compliance, notifications, reports and billing.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		handler, err := logging.NewHandler(cmd.ErrOrStderr(), logFormat, level)
		if err != nil {
			return err
		}
		ctx := logging.WithLogger(cmd.Context(), slog.New(handler))
		cmd.SetContext(logging.WithAttrs(ctx, slog.String("app", "freightdesk")))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	logger := slog.New(slog.NewTextHandler(rootCmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	ctx = logging.WithLogger(ctx, logger)
	ctx = logging.WithAttrs(ctx, slog.String("app", "freightdesk"))

	rootCmd.SetContext(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text|json")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table|json|yaml")
}
