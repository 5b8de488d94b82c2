package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/notification"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
	"freightdesk/internal/usecase/viewstate"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Read, mark and create notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		raw, _ := cmd.Flags().GetString("status")
		status, err := notification.ParseStatusFilter(raw)
		if err != nil {
			return err
		}
		items, err := svc.Notifications.List(cmd.Context(), status)
		if err != nil {
			return err
		}
		return renderNotifications(cmd, items)
	}),
}

var notificationsUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show the unread badge count and the latest unread notifications",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		items, err := svc.Notifications.RefreshUnread(cmd.Context())
		if err != nil {
			return errs.Wrap(err, "refresh unread notifications")
		}
		if isTableOutput() {
			if err := printf(cmd, "%d unread\n", len(items)); err != nil {
				return err
			}
		}
		return renderNotifications(cmd, items)
	}),
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification read",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "notification id")
		if err != nil {
			return err
		}
		if _, err := svc.Notifications.MarkRead(cmd.Context(), id); err != nil {
			return err
		}
		return printf(cmd, "notification %d marked read, %d unread\n", id, svc.Notifications.UnreadCount())
	}),
}

var notificationsMarkUnreadCmd = &cobra.Command{
	Use:   "mark-unread <id>",
	Short: "Mark a notification unread",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "notification id")
		if err != nil {
			return err
		}
		if _, err := svc.Notifications.MarkUnread(cmd.Context(), id); err != nil {
			return err
		}
		return printf(cmd, "notification %d marked unread, %d unread\n", id, svc.Notifications.UnreadCount())
	}),
}

var notificationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "notification id")
		if err != nil {
			return err
		}
		if err := svc.Notifications.Delete(cmd.Context(), id); err != nil {
			return err
		}
		return printf(cmd, "notification %d deleted\n", id)
	}),
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification read",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		if err := svc.Notifications.MarkAllRead(cmd.Context()); err != nil {
			return err
		}
		return printf(cmd, "all notifications marked read\n")
	}),
}

var notificationsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a notification",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		title, _ := cmd.Flags().GetString("title")
		message, _ := cmd.Flags().GetString("message")
		kind, _ := cmd.Flags().GetString("type")
		resourceType, _ := cmd.Flags().GetString("resource-type")

		request := notification.CreateRequest{
			UserID:     optionalID(cmd, "user"),
			Title:      title,
			Message:    message,
			Type:       notification.Type(strings.ToLower(strings.TrimSpace(kind))),
			ResourceID: optionalID(cmd, "resource-id"),
		}
		if trimmed := strings.TrimSpace(resourceType); trimmed != "" {
			request.ResourceType = &trimmed
		}

		created, err := svc.Notifications.Create(cmd.Context(), request)
		if err != nil {
			return err
		}
		return renderNotifications(cmd, []notification.Notification{created})
	}),
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print notification changes until interrupted (other processes are seen live over NATS, otherwise by polling the unread count)",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		changes := make(chan ports.NotificationChange, 16)
		unsubscribe, err := svc.Notifications.Subscribe(func(change ports.NotificationChange) {
			select {
			case changes <- change:
			default:
			}
		})
		if err != nil {
			return errs.Wrap(err, "subscribe to notification changes")
		}
		defer unsubscribe()

		// Without NATS the bus only carries this process's own changes, so
		// the unread count is polled to notice everyone else's.
		var counts chan int
		if svc.App.Config.Notifications.NATSURL == "" {
			interval, _ := cmd.Flags().GetDuration("interval")
			if interval <= 0 {
				interval = svc.App.Config.Polling.Interval
			}
			counts = make(chan int, 1)
			watcher := &unreadWatcher{}
			poller := viewstate.NewPoller(interval, func(pollCtx context.Context) {
				unread, err := svc.Notifications.RefreshUnread(pollCtx)
				if err != nil {
					if pollCtx.Err() == nil {
						logging.Warn(pollCtx, "poll unread notifications failed", slog.Any("err", errs.Loggable(err)))
					}
					return
				}
				if !watcher.changed(len(unread)) {
					return
				}
				select {
				case counts <- len(unread):
				case <-pollCtx.Done():
				}
			})
			logging.Info(ctx, "polling unread notifications", slog.Duration("interval", interval))
			defer poller.Start(ctx)()
		}

		if err := printf(cmd, "watching notification changes, press Ctrl+C to stop\n"); err != nil {
			return err
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case count := <-counts:
				if err := printf(cmd, "%s poll unread=%d\n", time.Now().UTC().Format(time.RFC3339), count); err != nil {
					return err
				}
			case change := <-changes:
				if err := printf(
					cmd,
					"%s %s id=%d unread=%d origin=%s\n",
					change.At.UTC().Format(time.RFC3339),
					change.Reason,
					change.NotificationID,
					change.UnreadCount,
					change.Origin,
				); err != nil {
					return err
				}
			}
		}
	}),
}

// unreadWatcher reports the polled unread count when it differs from the
// last one reported. The first poll always reports.
type unreadWatcher struct {
	last   int
	primed bool
}

func (w *unreadWatcher) changed(count int) bool {
	if w.primed && w.last == count {
		return false
	}
	w.last = count
	w.primed = true
	return true
}

func renderNotifications(cmd *cobra.Command, items []notification.Notification) error {
	return render(cmd, items, func() table {
		out := table{header: []string{"id", "type", "tier", "title", "read", "link", "created"}}
		for _, item := range items {
			out.add(
				itoa(item.ID),
				string(item.Type),
				item.Type.Tier().String(),
				item.Title,
				boolText(item.IsRead),
				item.Link(),
				item.CreatedAt.Display(dateTimeLayout, "-"),
			)
		}
		return out
	})
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(
		notificationsListCmd,
		notificationsUnreadCmd,
		notificationsReadCmd,
		notificationsMarkUnreadCmd,
		notificationsDeleteCmd,
		notificationsReadAllCmd,
		notificationsCreateCmd,
		notificationsWatchCmd,
	)

	notificationsListCmd.Flags().String("status", "all", "Filter: all|unread|read")

	notificationsWatchCmd.Flags().Duration("interval", 0, "Unread poll interval when no NATS URL is set (default: polling.interval)")

	notificationsCreateCmd.Flags().String("title", "", "Title")
	notificationsCreateCmd.Flags().String("message", "", "Message")
	notificationsCreateCmd.Flags().String("type", "info", "Type: alert|warning|error|info|success")
	notificationsCreateCmd.Flags().Int64("user", 0, "Recipient user id (default: current user)")
	notificationsCreateCmd.Flags().String("resource-type", "", "Linked resource type, e.g. shipment")
	notificationsCreateCmd.Flags().Int64("resource-id", 0, "Linked resource id")
}
