package compliance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "freightdesk/internal/domain/compliance"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
)

// ErrSummaryUnavailable wraps any failure to assemble a compliance summary.
// No partial summary accompanies it.
var ErrSummaryUnavailable = errors.New("compliance summary unavailable")

type Service struct {
	gateway ports.ComplianceGateway
}

func NewService(gateway ports.ComplianceGateway) *Service {
	return &Service{gateway: gateway}
}

// Summary fetches the shipment's T1 forms and seals and derives the latest of
// each. Shipment rollup counters are left to the server.
func (s *Service) Summary(ctx context.Context, shipmentID int64) (domain.Summary, error) {
	if ctx == nil {
		return domain.Summary{}, errors.New("context is required")
	}
	if shipmentID <= 0 {
		return domain.Summary{}, fmt.Errorf("%w: %w", ErrSummaryUnavailable, domain.ErrShipmentRequired)
	}

	record, err := s.gateway.ComplianceSummary(ctx, shipmentID)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("%w: shipment %d: %w", ErrSummaryUnavailable, shipmentID, err)
	}
	if record.ShipmentID != 0 && record.ShipmentID != shipmentID {
		return domain.Summary{}, fmt.Errorf(
			"%w: shipment %d: %w: summary belongs to shipment %d",
			ErrSummaryUnavailable, shipmentID, ports.ErrMalformedResponse, record.ShipmentID,
		)
	}

	return domain.BuildSummary(shipmentID, record.T1Forms, record.Seals), nil
}

func (s *Service) GenerateT1(ctx context.Context, request domain.T1Request) (domain.T1Form, error) {
	if err := request.Validate(); err != nil {
		return domain.T1Form{}, err
	}
	form, err := s.gateway.GenerateT1(ctx, request)
	if err != nil {
		return domain.T1Form{}, errs.Wrapf(err, "generate t1 for shipment %d", request.ShipmentID)
	}
	return form, nil
}

func (s *Service) GetT1(ctx context.Context, formID int64) (domain.T1Form, error) {
	form, err := s.gateway.GetT1(ctx, formID)
	if err != nil {
		return domain.T1Form{}, errs.Wrapf(err, "get t1 form %d", formID)
	}
	return form, nil
}

// MarkT1Status requests a transition; the server decides whether it is
// allowed and the returned form is the result.
func (s *Service) MarkT1Status(ctx context.Context, formID int64, status domain.T1Status) (domain.T1Form, error) {
	parsed, err := domain.ParseT1Status(string(status))
	if err != nil {
		return domain.T1Form{}, err
	}
	form, err := s.gateway.MarkT1Status(ctx, formID, parsed)
	if err != nil {
		return domain.T1Form{}, errs.Wrapf(err, "mark t1 form %d %s", formID, parsed)
	}
	return form, nil
}

// MarkLatestT1Status resolves the form named by the shipment's
// latest_t1_form_number and transitions it.
func (s *Service) MarkLatestT1Status(ctx context.Context, target shipment.Shipment, status domain.T1Status) (domain.T1Form, error) {
	if target.LatestT1FormNumber == nil || strings.TrimSpace(*target.LatestT1FormNumber) == "" {
		return domain.T1Form{}, domain.ErrNoLatestT1FormNumber
	}

	summary, err := s.Summary(ctx, target.ID)
	if err != nil {
		return domain.T1Form{}, err
	}
	form, ok := summary.FormByNumber(*target.LatestT1FormNumber)
	if !ok {
		return domain.T1Form{}, fmt.Errorf("%w: %s", domain.ErrLatestT1NotFound, *target.LatestT1FormNumber)
	}
	return s.MarkT1Status(ctx, form.ID, status)
}

func (s *Service) CreateSeal(ctx context.Context, request domain.SealRequest) (domain.Seal, error) {
	if err := request.Validate(); err != nil {
		return domain.Seal{}, err
	}
	request.SealNumber = strings.TrimSpace(request.SealNumber)
	seal, err := s.gateway.CreateSeal(ctx, request)
	if err != nil {
		return domain.Seal{}, errs.Wrapf(err, "create seal for shipment %d", request.ShipmentID)
	}
	return seal, nil
}

func (s *Service) ListSeals(ctx context.Context, shipmentID int64) ([]domain.Seal, error) {
	seals, err := s.gateway.ListSeals(ctx, shipmentID)
	if err != nil {
		return nil, errs.Wrapf(err, "list seals for shipment %d", shipmentID)
	}
	return seals, nil
}

func (s *Service) UploadDocument(ctx context.Context, upload domain.DocumentUpload) (domain.Document, error) {
	if err := upload.Validate(); err != nil {
		return domain.Document{}, err
	}
	document, err := s.gateway.UploadDocument(ctx, upload)
	if err != nil {
		return domain.Document{}, errs.Wrapf(err, "upload document for shipment %d", upload.ShipmentID)
	}
	return document, nil
}

func (s *Service) ListDocuments(ctx context.Context, shipmentID int64) ([]domain.Document, error) {
	documents, err := s.gateway.ListDocuments(ctx, shipmentID)
	if err != nil {
		return nil, errs.Wrapf(err, "list documents for shipment %d", shipmentID)
	}
	return documents, nil
}

func (s *Service) Escalate(ctx context.Context, escalation domain.Escalation) (domain.EscalationRecord, error) {
	normalized, err := escalation.Normalize()
	if err != nil {
		return domain.EscalationRecord{}, err
	}
	record, err := s.gateway.Escalate(ctx, normalized)
	if err != nil {
		return domain.EscalationRecord{}, errs.Wrapf(err, "escalate shipment %d", normalized.ShipmentID)
	}
	return record, nil
}

func (s *Service) GenerateIM4(ctx context.Context, request domain.EntryRequest) (domain.EntryDocument, error) {
	return s.generateEntry(ctx, domain.EntryIM4, request)
}

func (s *Service) GenerateIM7(ctx context.Context, request domain.EntryRequest) (domain.EntryDocument, error) {
	return s.generateEntry(ctx, domain.EntryIM7, request)
}

func (s *Service) generateEntry(ctx context.Context, kind domain.EntryKind, request domain.EntryRequest) (domain.EntryDocument, error) {
	if err := request.Validate(); err != nil {
		return domain.EntryDocument{}, err
	}
	document, err := s.gateway.GenerateEntry(ctx, kind, request)
	if err != nil {
		return domain.EntryDocument{}, errs.Wrapf(err, "generate %s for shipment %d", kind, request.ShipmentID)
	}
	return document, nil
}
