package reports

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/report"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/domain/user"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
)

const (
	dashboardShipments = 10
	dashboardUsers     = 5
	recentActivity     = 5
	dateLayout         = "2006-01-02"
)

var (
	ErrInvalidDays       = errors.New("days must be positive")
	ErrInvalidDate       = errors.New("date must be formatted as YYYY-MM-DD")
	ErrReportTypeMissing = errors.New("report_type is required")
)

type Service struct {
	reports   ports.ReportGateway
	shipments ports.ShipmentGateway
	users     ports.UserGateway
}

func NewService(reports ports.ReportGateway, shipments ports.ShipmentGateway, users ports.UserGateway) *Service {
	return &Service{reports: reports, shipments: shipments, users: users}
}

func (s *Service) KPIs(ctx context.Context) (report.KPIs, error) {
	kpis, err := s.reports.KPIs(ctx)
	if err != nil {
		return report.KPIs{}, errs.Wrap(err, "load kpis")
	}
	return kpis, nil
}

// DelayTrends uses the 30 day window when days is zero.
func (s *Service) DelayTrends(ctx context.Context, days int) (report.DelayTrends, error) {
	if days == 0 {
		days = report.DefaultTrendDays
	}
	if days < 0 {
		return report.DelayTrends{}, ErrInvalidDays
	}
	trends, err := s.reports.DelayTrends(ctx, days)
	if err != nil {
		return report.DelayTrends{}, errs.Wrapf(err, "load delay trends for %d days", days)
	}
	return trends, nil
}

// Daily loads the report for date, or for the server's current day when date
// is blank.
func (s *Service) Daily(ctx context.Context, date string) (report.DailyReport, error) {
	date = strings.TrimSpace(date)
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return report.DailyReport{}, ErrInvalidDate
		}
	}
	daily, err := s.reports.DailyReport(ctx, date)
	if err != nil {
		return report.DailyReport{}, errs.Wrap(err, "load daily report")
	}
	return daily, nil
}

func (s *Service) Alerts(ctx context.Context) (report.Alerts, error) {
	alerts, err := s.reports.ControlRoomAlerts(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "load control room alerts")
	}
	return alerts, nil
}

func (s *Service) Generate(ctx context.Context, request report.GenerateRequest) (report.GeneratedReport, error) {
	request.ReportType = strings.TrimSpace(request.ReportType)
	if request.ReportType == "" {
		return report.GeneratedReport{}, ErrReportTypeMissing
	}
	for _, date := range []string{request.StartDate, request.EndDate} {
		if date == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, date); err != nil {
			return report.GeneratedReport{}, ErrInvalidDate
		}
	}
	generated, err := s.reports.GenerateReport(ctx, request)
	if err != nil {
		return report.GeneratedReport{}, errs.Wrapf(err, "generate %s report", request.ReportType)
	}
	return generated, nil
}

type Dashboard struct {
	KPIs            report.KPIs          `json:"kpis" yaml:"kpis"`
	OnTimeRate      float64              `json:"on_time_rate" yaml:"on_time_rate"`
	Breakdown       []report.StatusSlice `json:"status_breakdown" yaml:"status_breakdown"`
	RecentShipments []shipment.Shipment  `json:"recent_shipments" yaml:"recent_shipments"`
	RecentActivity  []shipment.Shipment  `json:"recent_activity" yaml:"recent_activity"`
	Users           []user.User          `json:"users" yaml:"users"`
	Trends          report.DelayTrends   `json:"delay_trends" yaml:"delay_trends"`
	Alerts          report.Alerts        `json:"alerts" yaml:"alerts"`
	Warnings        []string             `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Dashboard fetches every panel concurrently. The KPI panel is required; a
// failure in any other panel leaves it empty and adds a warning.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	if ctx == nil {
		return Dashboard{}, errors.New("context is required")
	}
	logCtx := logging.WithComponent(ctx, "usecase.reports")

	var (
		dashboard Dashboard
		mu        sync.Mutex
	)
	degrade := func(panel string, err error) {
		logging.Warn(logCtx, "dashboard panel unavailable", slog.String("panel", panel), slog.Any("err", errs.Loggable(err)))
		mu.Lock()
		dashboard.Warnings = append(dashboard.Warnings, panel+": "+err.Error())
		mu.Unlock()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		kpis, err := s.reports.KPIs(groupCtx)
		if err != nil {
			return errs.Wrap(err, "load kpis")
		}
		dashboard.KPIs = kpis
		return nil
	})
	group.Go(func() error {
		page, err := s.shipments.ListShipments(groupCtx, shipment.ListFilter{Limit: dashboardShipments})
		if err != nil {
			degrade("shipments", err)
			return nil
		}
		items := page.Items
		shipment.SortByRecency(items)
		if len(items) > dashboardShipments {
			items = items[:dashboardShipments]
		}
		dashboard.RecentShipments = items
		return nil
	})
	group.Go(func() error {
		page, err := s.users.ListUsers(groupCtx, user.ListFilter{Limit: dashboardUsers})
		if err != nil {
			degrade("users", err)
			return nil
		}
		items := page.Items
		if len(items) > dashboardUsers {
			items = items[:dashboardUsers]
		}
		dashboard.Users = items
		return nil
	})
	group.Go(func() error {
		trends, err := s.reports.DelayTrends(groupCtx, report.DefaultTrendDays)
		if err != nil {
			degrade("delay_trends", err)
			return nil
		}
		dashboard.Trends = trends
		return nil
	})
	group.Go(func() error {
		alerts, err := s.reports.ControlRoomAlerts(groupCtx)
		if err != nil {
			degrade("alerts", err)
			return nil
		}
		dashboard.Alerts = alerts
		return nil
	})

	if err := group.Wait(); err != nil {
		return Dashboard{}, err
	}

	dashboard.OnTimeRate = dashboard.KPIs.OnTimeRate()
	dashboard.Breakdown = dashboard.KPIs.StatusBreakdown()
	dashboard.RecentActivity = dashboard.RecentShipments
	if len(dashboard.RecentActivity) > recentActivity {
		dashboard.RecentActivity = dashboard.RecentActivity[:recentActivity]
	}
	return dashboard, nil
}
