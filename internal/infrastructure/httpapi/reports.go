package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"freightdesk/internal/domain/report"
)

func (c *Client) KPIs(ctx context.Context) (report.KPIs, error) {
	return fetch[report.KPIs](ctx, c, get("/api/reports/kpis"))
}

func (c *Client) DelayTrends(ctx context.Context, days int) (report.DelayTrends, error) {
	if days <= 0 {
		days = report.DefaultTrendDays
	}
	return fetch[report.DelayTrends](ctx, c, get("/api/reports/trends/delays").withParam("days", strconv.Itoa(days)))
}

func (c *Client) DailyReport(ctx context.Context, date string) (report.DailyReport, error) {
	r := get("/api/reports/daily")
	if date != "" {
		r = r.withParam("date", date)
	}
	return fetch[report.DailyReport](ctx, c, r)
}

func (c *Client) ControlRoomAlerts(ctx context.Context) (report.Alerts, error) {
	return fetch[report.Alerts](ctx, c, get("/api/reports/control-room/alerts"))
}

func (c *Client) GenerateReport(ctx context.Context, generate report.GenerateRequest) (report.GeneratedReport, error) {
	return fetch[report.GeneratedReport](ctx, c, request{method: http.MethodPost, path: "/api/reports/generate", body: generate})
}
