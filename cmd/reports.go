package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/domain/report"
	"freightdesk/internal/domain/shipment"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Show KPIs, delay trends, alerts and the dashboard",
}

var reportsKPIsCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Show shipment KPIs",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		kpis, err := svc.Reports.KPIs(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, kpis, func() table { return kpiFields(kpis) })
	}),
}

var reportsTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show delay trends over a number of days",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		days, _ := cmd.Flags().GetInt("days")
		trends, err := svc.Reports.DelayTrends(cmd.Context(), days)
		if err != nil {
			return err
		}
		return render(cmd, trends, func() table { return trendsTable(trends) })
	}),
}

var reportsDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show the daily report",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		date, _ := cmd.Flags().GetString("date")
		daily, err := svc.Reports.Daily(cmd.Context(), date)
		if err != nil {
			return err
		}
		return render(cmd, daily, func() table {
			return fields(
				"date", daily.Date,
				"shipments_created", strconv.Itoa(daily.ShipmentsCreated),
				"shipments_delivered", strconv.Itoa(daily.ShipmentsDelivered),
				"shipments_delayed", strconv.Itoa(daily.ShipmentsDelayed),
				"on_time_rate", formatRate(daily.OnTimeRate),
				"summary", daily.Summary,
			)
		})
	}),
}

var reportsAlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show control room alerts",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		alerts, err := svc.Reports.Alerts(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, alerts, func() table { return alertsTable(alerts) })
	}),
}

var reportsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Request a report to be generated",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		reportType, _ := cmd.Flags().GetString("type")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		format, _ := cmd.Flags().GetString("format")

		generated, err := svc.Reports.Generate(cmd.Context(), report.GenerateRequest{
			ReportType: reportType,
			StartDate:  start,
			EndDate:    end,
			Format:     format,
		})
		if err != nil {
			return err
		}
		return render(cmd, generated, func() table {
			return fields(
				"id", itoa(generated.ID),
				"report_type", generated.ReportType,
				"status", generated.Status,
				"file_url", generated.FileURL,
				"created_at", generated.CreatedAt.Display(dateTimeLayout, "-"),
			)
		})
	}),
}

var reportsDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show every dashboard panel at once",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		dashboard, err := svc.Reports.Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		if !isTableOutput() {
			return render(cmd, dashboard, nil)
		}

		sections := []struct {
			title string
			body  table
		}{
			{title: "KPIs", body: kpiFields(dashboard.KPIs)},
			{title: "Status breakdown", body: breakdownTable(dashboard.Breakdown)},
			{title: "Recent shipments", body: recentShipmentsTable(dashboard.RecentShipments)},
			{title: "Recent activity", body: recentShipmentsTable(dashboard.RecentActivity)},
			{title: "Users", body: usersTable(dashboard.Users)},
			{title: "Delay trends", body: trendsTable(dashboard.Trends)},
			{title: "Alerts", body: alertsTable(dashboard.Alerts)},
		}
		for _, section := range sections {
			if err := printf(cmd, "== %s ==\n", section.title); err != nil {
				return err
			}
			if err := writeTable(cmd.OutOrStdout(), section.body); err != nil {
				return err
			}
			if err := printf(cmd, "\n"); err != nil {
				return err
			}
		}
		for _, warning := range dashboard.Warnings {
			if err := printf(cmd, "warning: %s\n", warning); err != nil {
				return err
			}
		}
		return nil
	}),
}

func kpiFields(kpis report.KPIs) table {
	deliveryRate := "-"
	if kpis.DeliveryRate != nil {
		deliveryRate = formatRate(*kpis.DeliveryRate)
	}
	return fields(
		"total_shipments", strconv.Itoa(kpis.TotalShipments),
		"pending", strconv.Itoa(kpis.Pending),
		"in_transit", strconv.Itoa(kpis.InTransit),
		"delivered", strconv.Itoa(kpis.Delivered),
		"delivery_rate", deliveryRate,
		"on_time_rate", formatRate(kpis.OnTimeRate()),
	)
}

func breakdownTable(slices []report.StatusSlice) table {
	out := table{header: []string{"status", "count"}}
	for _, slice := range slices {
		out.add(slice.Name, strconv.Itoa(slice.Value))
	}
	return out
}

func trendsTable(trends report.DelayTrends) table {
	out := table{header: []string{"date", "delayed", "total"}}
	for _, point := range trends.Points {
		out.add(point.Date, strconv.Itoa(point.Delayed), strconv.Itoa(point.Total))
	}
	out.add(
		fmt.Sprintf("%d days", trends.Days),
		strconv.Itoa(trends.TotalDelayed),
		"rate="+formatRate(trends.DelayRate),
	)
	return out
}

func alertsTable(alerts report.Alerts) table {
	out := table{header: []string{"id", "severity", "title", "shipment", "created"}}
	for _, alert := range alerts {
		shipmentID := "-"
		if alert.ShipmentID != nil {
			shipmentID = itoa(*alert.ShipmentID)
		}
		out.add(
			itoa(alert.ID),
			alert.Severity,
			alert.Title,
			shipmentID,
			alert.CreatedAt.Display(dateTimeLayout, "-"),
		)
	}
	return out
}

func recentShipmentsTable(items []shipment.Shipment) table {
	out := table{header: []string{"id", "number", "route", "status", "progress", "updated"}}
	for _, item := range items {
		out.add(
			itoa(item.ID),
			item.ShipmentNumber,
			item.Route(),
			item.Status.Label(),
			fmt.Sprintf("%.0f%%", shipment.ProgressPercent(item.Status)),
			item.RecencyKey().Display(dateTimeLayout, "-"),
		)
	}
	return out
}

func formatRate(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(
		reportsKPIsCmd,
		reportsTrendsCmd,
		reportsDailyCmd,
		reportsAlertsCmd,
		reportsGenerateCmd,
		reportsDashboardCmd,
	)

	reportsTrendsCmd.Flags().Int("days", report.DefaultTrendDays, "Window in days")
	reportsDailyCmd.Flags().String("date", "", "Day as YYYY-MM-DD (default: today on the server)")

	reportsGenerateCmd.Flags().String("type", "", "Report type, e.g. shipments or delays")
	reportsGenerateCmd.Flags().String("start", "", "Start date YYYY-MM-DD")
	reportsGenerateCmd.Flags().String("end", "", "End date YYYY-MM-DD")
	reportsGenerateCmd.Flags().String("format", "", "Output format requested from the server, e.g. pdf")
	_ = reportsGenerateCmd.MarkFlagRequired("type")
}
