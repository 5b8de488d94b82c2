package compliance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"freightdesk/internal/domain/apitime"
	domain "freightdesk/internal/domain/compliance"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/ports"
)

type fakeGateway struct {
	record      domain.SummaryRecord
	summaryErr  error
	marked      []int64
	markedAs    domain.T1Status
	escalations []domain.Escalation
	entryKinds  []domain.EntryKind
	calls       int
}

func (f *fakeGateway) GenerateT1(_ context.Context, request domain.T1Request) (domain.T1Form, error) {
	f.calls++
	return domain.T1Form{ID: 1, ShipmentID: request.ShipmentID, Status: domain.T1Pending}, nil
}

func (f *fakeGateway) GetT1(_ context.Context, formID int64) (domain.T1Form, error) {
	return domain.T1Form{ID: formID}, nil
}

func (f *fakeGateway) MarkT1Status(_ context.Context, formID int64, status domain.T1Status) (domain.T1Form, error) {
	f.calls++
	f.marked = append(f.marked, formID)
	f.markedAs = status
	return domain.T1Form{ID: formID, Status: status}, nil
}

func (f *fakeGateway) CreateSeal(_ context.Context, request domain.SealRequest) (domain.Seal, error) {
	f.calls++
	return domain.Seal{ID: 5, ShipmentID: request.ShipmentID, SealNumber: request.SealNumber}, nil
}

func (f *fakeGateway) ListSeals(context.Context, int64) ([]domain.Seal, error) {
	return f.record.Seals, nil
}

func (f *fakeGateway) ComplianceSummary(context.Context, int64) (domain.SummaryRecord, error) {
	return f.record, f.summaryErr
}

func (f *fakeGateway) UploadDocument(_ context.Context, upload domain.DocumentUpload) (domain.Document, error) {
	f.calls++
	return domain.Document{ID: 3, ShipmentID: upload.ShipmentID, Title: upload.Title}, nil
}

func (f *fakeGateway) ListDocuments(context.Context, int64) ([]domain.Document, error) {
	return nil, nil
}

func (f *fakeGateway) Escalate(_ context.Context, escalation domain.Escalation) (domain.EscalationRecord, error) {
	f.calls++
	f.escalations = append(f.escalations, escalation)
	return domain.EscalationRecord{ID: 4, Priority: escalation.Priority}, nil
}

func (f *fakeGateway) GenerateEntry(_ context.Context, kind domain.EntryKind, request domain.EntryRequest) (domain.EntryDocument, error) {
	f.calls++
	f.entryKinds = append(f.entryKinds, kind)
	return domain.EntryDocument{ID: 6, ShipmentID: request.ShipmentID}, nil
}

func at(hour int) apitime.Time {
	return apitime.New(time.Date(2026, 2, 1, hour, 0, 0, 0, time.UTC))
}

func TestSummaryPicksLatestRecords(t *testing.T) {
	gateway := &fakeGateway{record: domain.SummaryRecord{
		ShipmentID: 12,
		T1Forms: []domain.T1Form{
			{ID: 2, FormNumber: "T1-B", CreatedAt: at(9)},
			{ID: 3, FormNumber: "T1-C", CreatedAt: at(11)},
			{ID: 1, FormNumber: "T1-A", CreatedAt: at(8)},
		},
		Seals: []domain.Seal{
			{ID: 7, SealNumber: "S-7", CreatedAt: at(10)},
		},
	}}
	service := NewService(gateway)

	summary, err := service.Summary(context.Background(), 12)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.LatestT1 == nil || summary.LatestT1.FormNumber != "T1-C" {
		t.Fatalf("LatestT1 = %+v, want T1-C", summary.LatestT1)
	}
	if summary.LatestSeal == nil || summary.LatestSeal.SealNumber != "S-7" {
		t.Fatalf("LatestSeal = %+v", summary.LatestSeal)
	}
	if summary.T1Count() != 3 || summary.SealCount() != 1 {
		t.Fatalf("counts = %d/%d", summary.T1Count(), summary.SealCount())
	}
}

func TestSummaryFailureIsUnavailable(t *testing.T) {
	testCases := []struct {
		name   string
		record domain.SummaryRecord
		err    error
		id     int64
		cause  error
	}{
		{name: "transport", err: ports.ErrTransport, id: 4, cause: ports.ErrTransport},
		{name: "not found", err: ports.ErrNotFound, id: 4, cause: ports.ErrNotFound},
		{name: "other shipment", record: domain.SummaryRecord{ShipmentID: 99}, id: 4, cause: ports.ErrMalformedResponse},
		{name: "invalid id", id: 0, cause: domain.ErrShipmentRequired},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := NewService(&fakeGateway{record: testCase.record, summaryErr: testCase.err})

			summary, err := service.Summary(context.Background(), testCase.id)
			if !errors.Is(err, ErrSummaryUnavailable) || !errors.Is(err, testCase.cause) {
				t.Fatalf("Summary() error = %v, want ErrSummaryUnavailable wrapping %v", err, testCase.cause)
			}
			if summary.LatestT1 != nil || summary.T1Count() != 0 {
				t.Fatalf("Summary() returned partial data: %+v", summary)
			}
		})
	}
}

func TestMarkLatestT1Status(t *testing.T) {
	number := "T1-B"
	gateway := &fakeGateway{record: domain.SummaryRecord{
		ShipmentID: 12,
		T1Forms: []domain.T1Form{
			{ID: 21, FormNumber: "T1-A", CreatedAt: at(8)},
			{ID: 22, FormNumber: "T1-B", CreatedAt: at(9)},
		},
	}}
	service := NewService(gateway)

	form, err := service.MarkLatestT1Status(context.Background(), shipment.Shipment{ID: 12, LatestT1FormNumber: &number}, "Approved")
	if err != nil {
		t.Fatalf("MarkLatestT1Status() error = %v", err)
	}
	if form.ID != 22 || gateway.markedAs != domain.T1Approved {
		t.Fatalf("marked form %d as %s", form.ID, gateway.markedAs)
	}

	if _, err := service.MarkLatestT1Status(context.Background(), shipment.Shipment{ID: 12}, domain.T1Approved); !errors.Is(err, domain.ErrNoLatestT1FormNumber) {
		t.Fatalf("missing number error = %v", err)
	}

	missing := "T1-Z"
	if _, err := service.MarkLatestT1Status(context.Background(), shipment.Shipment{ID: 12, LatestT1FormNumber: &missing}, domain.T1Approved); !errors.Is(err, domain.ErrLatestT1NotFound) {
		t.Fatalf("unknown number error = %v", err)
	}
}

func TestActionsValidateBeforeCallingGateway(t *testing.T) {
	testCases := []struct {
		name    string
		run     func(*Service) error
		wantErr error
	}{
		{
			name: "seal number",
			run: func(s *Service) error {
				_, err := s.CreateSeal(context.Background(), domain.SealRequest{ShipmentID: 1, SealNumber: "  "})
				return err
			},
			wantErr: domain.ErrSealNumberRequired,
		},
		{
			name: "document file",
			run: func(s *Service) error {
				_, err := s.UploadDocument(context.Background(), domain.DocumentUpload{ShipmentID: 1, DocumentType: "invoice", Title: "x"})
				return err
			},
			wantErr: domain.ErrDocumentFileRequired,
		},
		{
			name: "escalation description",
			run: func(s *Service) error {
				_, err := s.Escalate(context.Background(), domain.Escalation{ShipmentID: 1, IssueType: "delay"})
				return err
			},
			wantErr: domain.ErrDescriptionRequired,
		},
		{
			name: "t1 status",
			run: func(s *Service) error {
				_, err := s.MarkT1Status(context.Background(), 1, "archived")
				return err
			},
			wantErr: domain.ErrInvalidT1Status,
		},
		{
			name: "entry shipment",
			run: func(s *Service) error {
				_, err := s.GenerateIM4(context.Background(), domain.EntryRequest{})
				return err
			},
			wantErr: domain.ErrShipmentRequired,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			gateway := &fakeGateway{}
			err := testCase.run(NewService(gateway))
			if !errors.Is(err, testCase.wantErr) {
				t.Fatalf("error = %v, want %v", err, testCase.wantErr)
			}
			if gateway.calls != 0 {
				t.Fatalf("gateway calls = %d, want 0", gateway.calls)
			}
		})
	}
}

func TestEscalateDefaultsPriorityAndEntriesRouteByKind(t *testing.T) {
	gateway := &fakeGateway{}
	service := NewService(gateway)
	ctx := context.Background()

	record, err := service.Escalate(ctx, domain.Escalation{ShipmentID: 1, IssueType: "seal", Description: "tampered"})
	if err != nil {
		t.Fatalf("Escalate() error = %v", err)
	}
	if record.Priority != domain.PriorityMedium {
		t.Fatalf("Priority = %s, want medium", record.Priority)
	}

	if _, err := service.GenerateIM4(ctx, domain.EntryRequest{ShipmentID: 1}); err != nil {
		t.Fatalf("GenerateIM4() error = %v", err)
	}
	if _, err := service.GenerateIM7(ctx, domain.EntryRequest{ShipmentID: 1}); err != nil {
		t.Fatalf("GenerateIM7() error = %v", err)
	}
	if len(gateway.entryKinds) != 2 || gateway.entryKinds[0] != domain.EntryIM4 || gateway.entryKinds[1] != domain.EntryIM7 {
		t.Fatalf("entry kinds = %v", gateway.entryKinds)
	}

	seal, err := service.CreateSeal(ctx, domain.SealRequest{ShipmentID: 1, SealNumber: " S-9 "})
	if err != nil || !strings.EqualFold(seal.SealNumber, "S-9") {
		t.Fatalf("CreateSeal() = %+v, %v", seal, err)
	}
}
