package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/errs"
	"freightdesk/internal/usecase/shipments"
	"freightdesk/internal/usecase/viewstate"
)

const dateTimeLayout = "2006-01-02 15:04"

var shipmentsCmd = &cobra.Command{
	Use:     "shipments",
	Aliases: []string{"shipment"},
	Short:   "List, create and move shipments through their lifecycle",
}

var shipmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shipments, newest first",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		ctx := cmd.Context()

		status, _ := cmd.Flags().GetString("status")
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")
		query, _ := cmd.Flags().GetString("query")

		page, err := svc.Shipments.List(ctx, shipment.ListFilter{
			Status: shipment.ParseStatus(status),
			Skip:   skip,
			Limit:  limit,
		})
		if err != nil {
			logging.Error(ctx, "list shipments failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list shipments")
		}

		pageNumber, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		items := viewstate.Filter(page.Items, query, shipmentAccessors()...)
		footer := ""
		if pageSize > 0 {
			view := viewstate.NewTable(pageSize, shipmentAccessors()...)
			view.SetRows(page.Items)
			view.SetQuery(query)
			view.SetPage(pageNumber - 1)
			items = view.Page()
			footer = fmt.Sprintf("page %d/%d, %d matching, %d fetched", view.CurrentPage()+1, view.PageCount(), len(view.Filtered()), view.Total())
		}

		err = render(cmd, shipment.Page{Items: items, Total: page.Total}, func() table {
			return shipmentsTable(items)
		})
		if err != nil || footer == "" || !isTableOutput() {
			return err
		}
		return printf(cmd, "%s\n", footer)
	}),
}

var shipmentsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		found, err := svc.Shipments.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return renderShipment(cmd, found)
	}),
}

var shipmentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a shipment",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		created, err := svc.Shipments.Create(cmd.Context(), draftFromFlags(cmd))
		if err != nil {
			return errs.Wrap(err, "create shipment")
		}
		return renderShipment(cmd, created)
	}),
}

var shipmentsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace the editable fields of a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		updated, err := svc.Shipments.Update(cmd.Context(), id, draftFromFlags(cmd))
		if err != nil {
			return errs.Wrap(err, "update shipment")
		}
		return renderShipment(cmd, updated)
	}),
}

var shipmentsStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Set a shipment's lifecycle status",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		to, _ := cmd.Flags().GetString("to")
		notes, _ := cmd.Flags().GetString("notes")

		updated, err := svc.Shipments.UpdateStatus(cmd.Context(), id, shipment.Status(to), notes)
		if err != nil {
			return errs.Wrap(err, "update shipment status")
		}
		return renderShipment(cmd, updated)
	}),
}

var shipmentsAdvanceCmd = &cobra.Command{
	Use:   "advance <id>",
	Short: "Move a shipment to its next status (pending, in transit, delivered)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")

		updated, err := svc.Shipments.Advance(cmd.Context(), id, notes)
		if err != nil {
			return errs.Wrap(err, "advance shipment")
		}
		return renderShipment(cmd, updated)
	}),
}

var shipmentsCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")

		cancelled, err := svc.Shipments.Cancel(cmd.Context(), id, reason)
		if err != nil {
			return errs.Wrap(err, "cancel shipment")
		}
		return renderShipment(cmd, cancelled)
	}),
}

var shipmentsAssignCmd = &cobra.Command{
	Use:   "assign <id>",
	Short: "Assign a driver and vehicle to a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")

		assigned, err := svc.Shipments.Assign(cmd.Context(), id, shipment.Assignment{
			DriverID:  optionalID(cmd, "driver"),
			VehicleID: optionalID(cmd, "vehicle"),
			Notes:     strings.TrimSpace(notes),
		})
		if err != nil {
			return errs.Wrap(err, "assign shipment")
		}
		return renderShipment(cmd, assigned)
	}),
}

var shipmentsTimelineCmd = &cobra.Command{
	Use:   "timeline <id>",
	Short: "Show the status history of a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		events, err := svc.Shipments.Timeline(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd, events, func() table {
			return timelineTable(events)
		})
	}),
}

var shipmentsInsightsCmd = &cobra.Command{
	Use:   "insights <id>",
	Short: "Show the risk projection for a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		projection, err := svc.Shipments.Insights(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd, projection, func() table {
			out := fields(
				"tier", projection.Tier.String(),
				"level", firstNonBlank(string(projection.Level), "-"),
				"score", projection.ScoreLabel(),
				"headline", projection.Headline,
			)
			for _, recommendation := range projection.Recommendations {
				out.add("recommendation", fmt.Sprintf("[%s] %s", recommendation.Tier, recommendation.Title))
			}
			for _, checkpoint := range projection.Checkpoints {
				out.add("checkpoint", checkpoint)
			}
			return out
		})
	}),
}

var shipmentsDetailCmd = &cobra.Command{
	Use:   "detail <id>",
	Short: "Show a shipment with its timeline, risk and compliance summary",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		detail, err := svc.Shipments.Detail(cmd.Context(), id)
		if err != nil {
			return errs.Wrap(err, "load shipment detail")
		}
		return render(cmd, detail, func() table {
			return detailFields(detail)
		})
	}),
}

var shipmentsRouteCmd = &cobra.Command{
	Use:     "optimize-route",
	Aliases: []string{"route"},
	Short: "Ask the server for an optimized route",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		origin, _ := cmd.Flags().GetString("origin")
		destination, _ := cmd.Flags().GetString("destination")

		plan, err := svc.Shipments.OptimizeRoute(cmd.Context(), origin, destination)
		if err != nil {
			return errs.Wrap(err, "optimize route")
		}
		return render(cmd, plan, func() table {
			out := fields(
				"origin", plan.Origin,
				"destination", plan.Destination,
				"waypoints", strings.Join(plan.Waypoints, " → "),
				"recommendation", firstNonBlank(plan.Recommendation, "-"),
			)
			if plan.DistanceKM != nil {
				out.add("distance_km", fmt.Sprintf("%.1f", *plan.DistanceKM))
			}
			if plan.EstimatedHours != nil {
				out.add("estimated_hours", fmt.Sprintf("%.1f", *plan.EstimatedHours))
			}
			return out
		})
	}),
}

var shipmentsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export shipments to a spreadsheet file",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		ctx := cmd.Context()
		status, _ := cmd.Flags().GetString("status")
		outPath, _ := cmd.Flags().GetString("out")

		export, err := svc.Shipments.Export(ctx, shipment.ParseStatus(status))
		if err != nil {
			return errs.Wrap(err, "export shipments")
		}
		if strings.TrimSpace(outPath) == "" {
			outPath = export.FileName
		}
		if err := os.WriteFile(outPath, export.Data, 0o644); err != nil {
			return errs.Wrapf(err, "write export file %q", outPath)
		}

		logging.Info(ctx, "shipments exported", slog.String("file", outPath), slog.Int("bytes", len(export.Data)))
		return printf(cmd, "exported %d bytes to %s (%s)\n", len(export.Data), outPath, export.MimeType)
	}),
}

var shipmentsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the shipment list and print shipments as they appear or change status",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			interval = svc.App.Config.Polling.Interval
		}
		filter := shipment.ListFilter{Status: shipment.ParseStatus(status), Limit: limit}

		watcher := &shipmentWatcher{seen: map[int64]shipment.Status{}}
		poller := viewstate.NewPoller(interval, func(pollCtx context.Context) {
			page, err := svc.Shipments.List(pollCtx, filter)
			if err != nil {
				if pollCtx.Err() == nil {
					logging.Warn(pollCtx, "poll shipments failed", slog.Any("err", errs.Loggable(err)))
				}
				return
			}
			if err := printWatchedShipments(cmd, watcher.changed(page.Items)); err != nil {
				logging.Warn(pollCtx, "write watch output failed", slog.Any("err", errs.Loggable(err)))
			}
		})

		logging.Info(ctx, "watching shipments", slog.Duration("interval", interval))
		stopPolling := poller.Start(ctx)
		<-ctx.Done()
		stopPolling()
		return nil
	}),
}

func printWatchedShipments(cmd *cobra.Command, items []shipment.Shipment) error {
	for _, item := range items {
		if err := printf(cmd, "%s %s %s %s\n",
			item.RecencyKey().Display(dateTimeLayout, "-"),
			item.ShipmentNumber,
			item.Route(),
			item.Status.Label(),
		); err != nil {
			return err
		}
	}
	return nil
}

// shipmentWatcher remembers the last status printed per shipment.
type shipmentWatcher struct {
	seen map[int64]shipment.Status
}

// changed returns the shipments that are new or whose status moved since the
// previous call, oldest first.
func (w *shipmentWatcher) changed(items []shipment.Shipment) []shipment.Shipment {
	var out []shipment.Shipment
	for index := len(items) - 1; index >= 0; index-- {
		item := items[index]
		if previous, ok := w.seen[item.ID]; ok && previous == item.Status {
			continue
		}
		w.seen[item.ID] = item.Status
		out = append(out, item)
	}
	return out
}

func shipmentsTable(items []shipment.Shipment) table {
	out := table{header: []string{"id", "number", "route", "consignee", "status", "progress", "updated"}}
	for _, item := range items {
		out.add(
			itoa(item.ID),
			item.ShipmentNumber,
			item.Route(),
			item.ConsigneeName,
			item.Status.Label(),
			fmt.Sprintf("%.0f%%", shipment.ProgressPercent(item.Status)),
			item.RecencyKey().Display(dateTimeLayout, "-"),
		)
	}
	return out
}

func shipmentAccessors() []viewstate.Accessor[shipment.Shipment] {
	return []viewstate.Accessor[shipment.Shipment]{
		viewstate.Field(func(s shipment.Shipment) string { return s.ShipmentNumber }),
		viewstate.Field(func(s shipment.Shipment) string { return s.Origin }),
		viewstate.Field(func(s shipment.Shipment) string { return s.Destination }),
		viewstate.Field(func(s shipment.Shipment) string { return s.ConsigneeName }),
		viewstate.Field(func(s shipment.Shipment) string { return s.Status.Label() }),
	}
}

func draftFromFlags(cmd *cobra.Command) shipment.Draft {
	get := func(name string) string {
		value, _ := cmd.Flags().GetString(name)
		return value
	}
	return shipment.Draft{
		Origin:                get("origin"),
		Destination:           get("destination"),
		ShipperName:           get("shipper"),
		ConsigneeName:         get("consignee"),
		ConsigneeEmail:        get("consignee-email"),
		ConsigneePhone:        get("consignee-phone"),
		ContainerNumber:       get("container"),
		CargoDescription:      get("cargo"),
		EstimatedCost:         get("estimated-cost"),
		EstimatedDeliveryDate: get("eta"),
	}
}

func renderShipment(cmd *cobra.Command, item shipment.Shipment) error {
	return render(cmd, item, func() table {
		return shipmentFields(item)
	})
}

func shipmentFields(item shipment.Shipment) table {
	out := fields(
		"id", itoa(item.ID),
		"number", item.ShipmentNumber,
		"route", item.Route(),
		"consignee", item.ConsigneeName,
		"container", orDash(item.ContainerNumber),
		"status", item.Status.Label(),
		"progress", fmt.Sprintf("%.0f%%", shipment.ProgressPercent(item.Status)),
		"location", orDash(item.CurrentLocation),
		"t1_forms", fmt.Sprint(item.T1FormCount),
		"seals", fmt.Sprint(item.SealCount),
	)
	if item.EstimatedCost != nil {
		out.add("estimated_cost", item.EstimatedCost.StringFixed(2))
	}
	if variance, ok := item.CostVariance(); ok {
		out.add("cost_variance", variance.StringFixed(2))
	}
	if item.EstimatedDeliveryDate != nil {
		out.add("eta", item.EstimatedDeliveryDate.Display("2006-01-02", "-"))
	}
	out.add("created", item.CreatedAt.Display(dateTimeLayout, "-"))
	return out
}

func timelineTable(events []shipment.TimelineEvent) table {
	out := table{header: []string{"time", "status", "location", "notes"}}
	for _, event := range events {
		when := "-"
		if event.Timestamp != nil {
			when = event.Timestamp.Display(time.RFC3339, "-")
		}
		out.add(when, event.Status.Label(), orDash(event.Location), orDash(event.Notes))
	}
	return out
}

func detailFields(detail shipments.Detail) table {
	out := shipmentFields(detail.Shipment)
	out.add("tier", detail.Tier.String())
	out.add("risk", fmt.Sprintf("%s (%s)", detail.Risk.Headline, detail.Risk.ScoreLabel()))
	switch {
	case detail.ComplianceErr != nil:
		out.add("compliance", "unavailable")
	case detail.Compliance != nil:
		out.add("compliance", fmt.Sprintf("%d T1 forms, %d seals", detail.Compliance.T1Count(), detail.Compliance.SealCount()))
		if latest := detail.Compliance.LatestT1; latest != nil {
			out.add("latest_t1", fmt.Sprintf("%s %s", latest.FormNumber, latest.Status.Label()))
		}
		if latest := detail.Compliance.LatestSeal; latest != nil {
			out.add("latest_seal", fmt.Sprintf("%s %s", latest.SealNumber, latest.Integrity().Label))
		}
	}
	for _, event := range detail.Timeline {
		when := "-"
		if event.Timestamp != nil {
			when = event.Timestamp.Display(dateTimeLayout, "-")
		}
		out.add("timeline", fmt.Sprintf("%s %s", when, event.Status.Label()))
	}
	return out
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().String("origin", "", "Origin location")
	cmd.Flags().String("destination", "", "Destination location")
	cmd.Flags().String("shipper", "", "Shipper name")
	cmd.Flags().String("consignee", "", "Consignee name")
	cmd.Flags().String("consignee-email", "", "Consignee email")
	cmd.Flags().String("consignee-phone", "", "Consignee phone")
	cmd.Flags().String("container", "", "Container number")
	cmd.Flags().String("cargo", "", "Cargo description")
	cmd.Flags().String("estimated-cost", "", "Estimated cost (decimal)")
	cmd.Flags().String("eta", "", "Estimated delivery date (YYYY-MM-DD)")
}

func init() {
	rootCmd.AddCommand(shipmentsCmd)
	shipmentsCmd.AddCommand(
		shipmentsListCmd,
		shipmentsGetCmd,
		shipmentsCreateCmd,
		shipmentsUpdateCmd,
		shipmentsStatusCmd,
		shipmentsAdvanceCmd,
		shipmentsCancelCmd,
		shipmentsAssignCmd,
		shipmentsTimelineCmd,
		shipmentsInsightsCmd,
		shipmentsDetailCmd,
		shipmentsRouteCmd,
		shipmentsExportCmd,
		shipmentsWatchCmd,
	)

	shipmentsListCmd.Flags().String("status", "", "Filter by status (pending|in_transit|at_customs|awaiting_release|delivered|cancelled)")
	shipmentsListCmd.Flags().Int("skip", 0, "Records to skip")
	shipmentsListCmd.Flags().Int("limit", 50, "Maximum records to fetch")
	shipmentsListCmd.Flags().String("query", "", "Case-insensitive text filter applied to the fetched page")
	shipmentsListCmd.Flags().Int("page", 1, "Page of the filtered rows to show, starting at 1")
	shipmentsListCmd.Flags().Int("page-size", 0, "Rows per page; 0 shows every row")

	shipmentsWatchCmd.Flags().String("status", "", "Only watch shipments with this status")
	shipmentsWatchCmd.Flags().Int("limit", 100, "Maximum records fetched per poll")
	shipmentsWatchCmd.Flags().Duration("interval", 0, "Poll interval (default: polling.interval)")

	addDraftFlags(shipmentsCreateCmd)
	addDraftFlags(shipmentsUpdateCmd)

	shipmentsStatusCmd.Flags().String("to", "", "Target status")
	shipmentsStatusCmd.Flags().String("notes", "", "Notes recorded with the status change")
	_ = shipmentsStatusCmd.MarkFlagRequired("to")

	shipmentsAdvanceCmd.Flags().String("notes", "", "Notes recorded with the status change")
	shipmentsCancelCmd.Flags().String("reason", "", "Cancellation reason")

	shipmentsAssignCmd.Flags().Int64("driver", 0, "Driver user id")
	shipmentsAssignCmd.Flags().Int64("vehicle", 0, "Vehicle id")
	shipmentsAssignCmd.Flags().String("notes", "", "Assignment notes")

	shipmentsRouteCmd.Flags().String("origin", "", "Route origin")
	shipmentsRouteCmd.Flags().String("destination", "", "Route destination")

	shipmentsExportCmd.Flags().String("status", "", "Only export shipments with this status")
	shipmentsExportCmd.Flags().String("out", "", "Output file (default: server-provided file name)")
}
