package cmd

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/errs"
	"freightdesk/internal/usecase/boardconsole"
)

var consoleBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Start the shipment board with detail panel and unread badge",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		status, _ := cmd.Flags().GetString("status")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = svc.App.Config.Polling.Interval
		}
		pageSize, _ := cmd.Flags().GetInt("page-size")
		if pageSize <= 0 {
			pageSize = svc.App.Config.Table.PageSize
		}
		loadLimit, _ := cmd.Flags().GetInt("limit")

		model, err := boardconsole.NewBoardModel(ctx, svc.Shipments, svc.Notifications, boardconsole.BoardOptions{
			Status:          shipment.Status(status),
			RefreshInterval: refreshInterval,
			PageSize:        pageSize,
			LoadLimit:       loadLimit,
		})
		if err != nil {
			return errs.Wrap(err, "create board console")
		}
		defer model.Close()

		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run board console")
		}
		return nil
	}),
}

func init() {
	consoleCmd.AddCommand(consoleBoardCmd)
	consoleBoardCmd.Flags().String("status", "", "Optional status filter, e.g. in_transit")
	consoleBoardCmd.Flags().Duration("refresh-interval", 0, "Auto refresh interval (default: polling.interval)")
	consoleBoardCmd.Flags().Int("page-size", 0, "Rows per page: 5, 10, 25 or 50 (default: table.page_size)")
	consoleBoardCmd.Flags().Int("limit", 200, "Maximum shipments loaded per refresh")
}
