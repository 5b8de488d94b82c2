package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"freightdesk/internal/domain/billing"
	"freightdesk/internal/domain/inventory"
	"freightdesk/internal/ports"
)

type fakeBilling struct {
	requests  []billing.InvoiceRequest
	breakdown billing.CostBreakdown
	err       error
}

func (f *fakeBilling) GenerateInvoice(_ context.Context, request billing.InvoiceRequest) (billing.Invoice, error) {
	f.requests = append(f.requests, request)
	return billing.Invoice{ID: 1, ShipmentID: request.ShipmentID, Currency: request.Currency}, f.err
}

func (f *fakeBilling) ListInvoices(context.Context, billing.InvoiceFilter) ([]billing.Invoice, error) {
	return nil, f.err
}

func (f *fakeBilling) CalculateCosts(context.Context, int64) (billing.CostBreakdown, error) {
	return f.breakdown, f.err
}

type fakeInventory struct {
	created   []inventory.CreateRequest
	relocated []int64
}

func (f *fakeInventory) ListInventory(context.Context, inventory.ListFilter) ([]inventory.Item, error) {
	return []inventory.Item{{ID: 1}}, nil
}

func (f *fakeInventory) CreateInventoryItem(_ context.Context, request inventory.CreateRequest) (inventory.Item, error) {
	f.created = append(f.created, request)
	return inventory.Item{ID: 2, SKU: request.SKU}, nil
}

func (f *fakeInventory) RelocateInventoryItem(_ context.Context, id int64, locationID int64) (inventory.Item, error) {
	f.relocated = append(f.relocated, locationID)
	return inventory.Item{ID: id, LocationID: &locationID}, nil
}

func TestGenerateInvoiceDefaultsCurrency(t *testing.T) {
	gateway := &fakeBilling{}
	service := NewService(gateway, &fakeInventory{})

	if _, err := service.GenerateInvoice(context.Background(), billing.InvoiceRequest{}); !errors.Is(err, ErrInvalidShipmentID) {
		t.Fatalf("GenerateInvoice() error = %v, want ErrInvalidShipmentID", err)
	}
	invoice, err := service.GenerateInvoice(context.Background(), billing.InvoiceRequest{ShipmentID: 3, Currency: " kes "})
	if err != nil {
		t.Fatalf("GenerateInvoice() error = %v", err)
	}
	if invoice.Currency != "KES" {
		t.Fatalf("currency = %q, want KES", invoice.Currency)
	}
	if _, err := service.GenerateInvoice(context.Background(), billing.InvoiceRequest{ShipmentID: 3}); err != nil {
		t.Fatalf("GenerateInvoice() error = %v", err)
	}
	if gateway.requests[1].Currency != defaultCurrency {
		t.Fatalf("currency = %q, want %q", gateway.requests[1].Currency, defaultCurrency)
	}
}

func TestCalculateCostsWrapsGatewayError(t *testing.T) {
	service := NewService(&fakeBilling{err: ports.ErrNotFound}, &fakeInventory{})

	if _, err := service.CalculateCosts(context.Background(), 5); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("CalculateCosts() error = %v, want ErrNotFound", err)
	}
}

func TestCalculateCostsReturnsBreakdown(t *testing.T) {
	breakdown := billing.CostBreakdown{
		ShipmentID: 5,
		Lines: []billing.CostLine{
			{Name: "freight", Amount: decimal.RequireFromString("120.50")},
			{Name: "customs", Amount: decimal.RequireFromString("30")},
		},
		Total: decimal.RequireFromString("150.50"),
	}
	service := NewService(&fakeBilling{breakdown: breakdown}, &fakeInventory{})

	got, err := service.CalculateCosts(context.Background(), 5)
	if err != nil {
		t.Fatalf("CalculateCosts() error = %v", err)
	}
	if !got.LinesTotal().Equal(got.Total) {
		t.Fatalf("lines total = %s, want %s", got.LinesTotal(), got.Total)
	}
}

func TestCreateInventoryItemValidates(t *testing.T) {
	testCases := []struct {
		name    string
		request inventory.CreateRequest
		wantErr error
	}{
		{name: "missing sku", request: inventory.CreateRequest{Name: "Pallet"}, wantErr: ErrSKURequired},
		{name: "missing name", request: inventory.CreateRequest{SKU: "P-1"}, wantErr: ErrNameRequired},
		{name: "negative quantity", request: inventory.CreateRequest{SKU: "P-1", Name: "Pallet", Quantity: -2}, wantErr: ErrNegativeQuantity},
		{name: "valid", request: inventory.CreateRequest{SKU: " P-1 ", Name: "Pallet", Quantity: 4}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			inventoryGateway := &fakeInventory{}
			service := NewService(&fakeBilling{}, inventoryGateway)
			_, err := service.CreateInventoryItem(context.Background(), testCase.request)
			if !errors.Is(err, testCase.wantErr) {
				t.Fatalf("CreateInventoryItem() error = %v, want %v", err, testCase.wantErr)
			}
			if testCase.wantErr == nil && inventoryGateway.created[0].SKU != "P-1" {
				t.Fatalf("sku = %q, want trimmed", inventoryGateway.created[0].SKU)
			}
		})
	}
}

func TestRelocateValidatesIDs(t *testing.T) {
	inventoryGateway := &fakeInventory{}
	service := NewService(&fakeBilling{}, inventoryGateway)

	if _, err := service.RelocateInventoryItem(context.Background(), 1, 0); !errors.Is(err, ErrInvalidLocationID) {
		t.Fatalf("RelocateInventoryItem() error = %v, want ErrInvalidLocationID", err)
	}
	item, err := service.RelocateInventoryItem(context.Background(), 1, 8)
	if err != nil {
		t.Fatalf("RelocateInventoryItem() error = %v", err)
	}
	if item.LocationID == nil || *item.LocationID != 8 {
		t.Fatalf("location = %v, want 8", item.LocationID)
	}
}
