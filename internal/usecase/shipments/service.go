package shipments

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"freightdesk/internal/bootstrap/logging"
	domaincompliance "freightdesk/internal/domain/compliance"
	"freightdesk/internal/domain/risk"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/domain/tier"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
	"freightdesk/internal/usecase/compliance"
)

var (
	ErrNoNextStatus      = errors.New("shipment has no next status to advance to")
	ErrRouteEndpoints    = errors.New("origin and destination are required")
	ErrInvalidShipmentID = errors.New("shipment id must be positive")

	// ErrShipmentUnavailable marks a detail view whose shipment could not be loaded.
	ErrShipmentUnavailable = errors.New("shipment unavailable")
)

type Service struct {
	gateway    ports.ShipmentGateway
	compliance *compliance.Service
}

func NewService(gateway ports.ShipmentGateway, complianceService *compliance.Service) *Service {
	return &Service{gateway: gateway, compliance: complianceService}
}

// List returns one server page ordered newest first.
func (s *Service) List(ctx context.Context, filter shipment.ListFilter) (shipment.Page, error) {
	if ctx == nil {
		return shipment.Page{}, errors.New("context is required")
	}
	if filter.Status != "" && !filter.Status.Known() {
		return shipment.Page{}, shipment.ErrInvalidStatus
	}

	page, err := s.gateway.ListShipments(ctx, filter)
	if err != nil {
		return shipment.Page{}, errs.Wrap(err, "list shipments")
	}
	shipment.SortByRecency(page.Items)
	return page, nil
}

func (s *Service) Get(ctx context.Context, id int64) (shipment.Shipment, error) {
	if id <= 0 {
		return shipment.Shipment{}, ErrInvalidShipmentID
	}
	found, err := s.gateway.GetShipment(ctx, id)
	if err != nil {
		return shipment.Shipment{}, errs.Wrapf(err, "get shipment %d", id)
	}
	return found, nil
}

func (s *Service) Create(ctx context.Context, draft shipment.Draft) (shipment.Shipment, error) {
	payload, err := draft.Normalize()
	if err != nil {
		return shipment.Shipment{}, err
	}
	created, err := s.gateway.CreateShipment(ctx, payload)
	if err != nil {
		return shipment.Shipment{}, errs.Wrap(err, "create shipment")
	}
	logging.Info(logging.WithComponent(ctx, "usecase.shipments"), "shipment created", slog.Int64("shipment_id", created.ID))
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, draft shipment.Draft) (shipment.Shipment, error) {
	if id <= 0 {
		return shipment.Shipment{}, ErrInvalidShipmentID
	}
	payload, err := draft.Normalize()
	if err != nil {
		return shipment.Shipment{}, err
	}
	updated, err := s.gateway.UpdateShipment(ctx, id, payload)
	if err != nil {
		return shipment.Shipment{}, errs.Wrapf(err, "update shipment %d", id)
	}
	return updated, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status shipment.Status, notes string) (shipment.Shipment, error) {
	if id <= 0 {
		return shipment.Shipment{}, ErrInvalidShipmentID
	}
	status = shipment.ParseStatus(string(status))
	if !status.Known() {
		return shipment.Shipment{}, shipment.ErrInvalidStatus
	}

	updated, err := s.gateway.UpdateShipmentStatus(ctx, id, shipment.StatusUpdate{Status: status, Notes: strings.TrimSpace(notes)})
	if err != nil {
		return shipment.Shipment{}, errs.Wrapf(err, "update shipment %d status to %s", id, status)
	}
	logging.Info(
		logging.WithComponent(ctx, "usecase.shipments"),
		"shipment status updated",
		slog.Int64("shipment_id", id),
		slog.String("status", string(updated.Status)),
	)
	return updated, nil
}

// Advance moves the shipment one step along the manual path
// pending -> in_transit -> delivered.
func (s *Service) Advance(ctx context.Context, id int64, notes string) (shipment.Shipment, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return shipment.Shipment{}, err
	}
	next, ok := shipment.NextStatus(current.Status)
	if !ok {
		return shipment.Shipment{}, fmt.Errorf("%w: shipment %d is %s", ErrNoNextStatus, id, current.Status.Label())
	}
	return s.UpdateStatus(ctx, id, next, notes)
}

func (s *Service) Cancel(ctx context.Context, id int64, reason string) (shipment.Shipment, error) {
	if id <= 0 {
		return shipment.Shipment{}, ErrInvalidShipmentID
	}
	cancelled, err := s.gateway.CancelShipment(ctx, id, strings.TrimSpace(reason))
	if err != nil {
		return shipment.Shipment{}, errs.Wrapf(err, "cancel shipment %d", id)
	}
	return cancelled, nil
}

func (s *Service) Assign(ctx context.Context, id int64, assignment shipment.Assignment) (shipment.Shipment, error) {
	if id <= 0 {
		return shipment.Shipment{}, ErrInvalidShipmentID
	}
	assigned, err := s.gateway.AssignShipment(ctx, id, assignment)
	if err != nil {
		return shipment.Shipment{}, errs.Wrapf(err, "assign shipment %d", id)
	}
	return assigned, nil
}

func (s *Service) Timeline(ctx context.Context, id int64) ([]shipment.TimelineEvent, error) {
	events, err := s.gateway.ShipmentTimeline(ctx, id)
	if err != nil {
		return nil, errs.Wrapf(err, "timeline for shipment %d", id)
	}
	return events, nil
}

// Insights projects the server's risk payload. A missing insight is the
// monitoring projection, not an error.
func (s *Service) Insights(ctx context.Context, id int64) (risk.Projection, error) {
	insight, err := s.gateway.ShipmentInsights(ctx, id)
	if err != nil {
		return risk.Projection{}, errs.Wrapf(err, "insights for shipment %d", id)
	}
	return risk.Project(insight), nil
}

func (s *Service) OptimizeRoute(ctx context.Context, origin string, destination string) (shipment.RoutePlan, error) {
	query := shipment.RouteQuery{Origin: strings.TrimSpace(origin), Destination: strings.TrimSpace(destination)}
	if query.Origin == "" || query.Destination == "" {
		return shipment.RoutePlan{}, ErrRouteEndpoints
	}
	plan, err := s.gateway.OptimizeRoute(ctx, query)
	if err != nil {
		return shipment.RoutePlan{}, errs.Wrap(err, "optimize route")
	}
	return plan, nil
}

type Export struct {
	FileName string
	MimeType string
	Data     []byte
}

func (s *Service) Export(ctx context.Context, status shipment.Status) (Export, error) {
	if status != "" && !status.Known() {
		return Export{}, shipment.ErrInvalidStatus
	}
	file, err := s.gateway.ExportShipments(ctx, status)
	if err != nil {
		return Export{}, errs.Wrap(err, "export shipments")
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(file.Data))
	if err != nil {
		return Export{}, fmt.Errorf("%w: export payload is not base64: %w", ports.ErrMalformedResponse, err)
	}

	name := strings.TrimSpace(file.FileName)
	if name == "" {
		name = "shipments.xlsx"
	}
	mimeType := strings.TrimSpace(file.MimeType)
	if mimeType == "" {
		mimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return Export{FileName: name, MimeType: mimeType, Data: data}, nil
}

// Detail is the focused-shipment view: lifecycle position, timeline, risk
// projection and compliance summary.
type Detail struct {
	Shipment        shipment.Shipment         `json:"shipment" yaml:"shipment"`
	Progress        float64                   `json:"progress_percent" yaml:"progress_percent"`
	Tier            tier.Tier                 `json:"tier" yaml:"tier"`
	Timeline        []shipment.TimelineEvent  `json:"timeline" yaml:"timeline"`
	Risk            risk.Projection           `json:"risk" yaml:"risk"`
	Compliance      *domaincompliance.Summary `json:"compliance,omitempty" yaml:"compliance,omitempty"`
	ComplianceError string                    `json:"compliance_error,omitempty" yaml:"compliance_error,omitempty"`
	ComplianceErr   error                     `json:"-" yaml:"-"`
}

// Detail loads the shipment, timeline, insight and compliance summary
// concurrently. Only a failed shipment fetch fails the whole detail; the
// other parts degrade to an empty timeline, the monitoring projection and a
// recorded compliance error.
func (s *Service) Detail(ctx context.Context, id int64) (Detail, error) {
	if ctx == nil {
		return Detail{}, errors.New("context is required")
	}
	if id <= 0 {
		return Detail{}, ErrInvalidShipmentID
	}

	logCtx := logging.WithAttrs(logging.WithComponent(ctx, "usecase.shipments"), slog.Int64("shipment_id", id))

	var (
		found      shipment.Shipment
		timeline   []shipment.TimelineEvent
		projection = risk.Project(nil)
		summary    *domaincompliance.Summary
		summaryErr error
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		found, err = s.gateway.GetShipment(groupCtx, id)
		if err != nil {
			return fmt.Errorf("%w: shipment %d: %w", ErrShipmentUnavailable, id, err)
		}
		return nil
	})
	group.Go(func() error {
		events, err := s.gateway.ShipmentTimeline(groupCtx, id)
		if err != nil {
			logging.Warn(logCtx, "timeline unavailable", slog.Any("err", errs.Loggable(err)))
			return nil
		}
		timeline = events
		return nil
	})
	group.Go(func() error {
		insight, err := s.gateway.ShipmentInsights(groupCtx, id)
		if err != nil {
			logging.Warn(logCtx, "insight unavailable, showing monitoring state", slog.Any("err", errs.Loggable(err)))
			return nil
		}
		projection = risk.Project(insight)
		return nil
	})
	if s.compliance != nil {
		group.Go(func() error {
			loaded, err := s.compliance.Summary(groupCtx, id)
			if err != nil {
				summaryErr = err
				return nil
			}
			summary = &loaded
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Detail{}, err
	}

	if timeline == nil {
		timeline = []shipment.TimelineEvent{}
	}
	detail := Detail{
		Shipment:   found,
		Progress:   shipment.ProgressPercent(found.Status),
		Tier:       shipment.ColorTier(found.Status),
		Timeline:   timeline,
		Risk:       projection,
		Compliance: summary,
	}
	if summaryErr != nil {
		detail.ComplianceErr = summaryErr
		detail.ComplianceError = summaryErr.Error()
	}
	return detail, nil
}
