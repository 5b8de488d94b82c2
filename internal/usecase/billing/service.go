package billing

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/billing"
	"freightdesk/internal/domain/inventory"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
)

const defaultCurrency = "USD"

var (
	ErrInvalidShipmentID = errors.New("shipment id must be positive")
	ErrInvalidItemID     = errors.New("inventory item id must be positive")
	ErrInvalidLocationID = errors.New("location id must be positive")
	ErrSKURequired       = errors.New("sku is required")
	ErrNameRequired      = errors.New("name is required")
	ErrNegativeQuantity  = errors.New("quantity cannot be negative")
)

// Service covers invoicing and the inventory that travels with shipments.
type Service struct {
	billing   ports.BillingGateway
	inventory ports.InventoryGateway
}

func NewService(billingGateway ports.BillingGateway, inventoryGateway ports.InventoryGateway) *Service {
	return &Service{billing: billingGateway, inventory: inventoryGateway}
}

func (s *Service) GenerateInvoice(ctx context.Context, request billing.InvoiceRequest) (billing.Invoice, error) {
	if request.ShipmentID <= 0 {
		return billing.Invoice{}, ErrInvalidShipmentID
	}
	request.Currency = strings.ToUpper(strings.TrimSpace(request.Currency))
	if request.Currency == "" {
		request.Currency = defaultCurrency
	}

	invoice, err := s.billing.GenerateInvoice(ctx, request)
	if err != nil {
		return billing.Invoice{}, errs.Wrapf(err, "generate invoice for shipment %d", request.ShipmentID)
	}
	logging.Info(
		logging.WithComponent(ctx, "usecase.billing"),
		"invoice generated",
		slog.Int64("shipment_id", request.ShipmentID),
		slog.String("invoice_number", invoice.InvoiceNumber),
	)
	return invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	invoices, err := s.billing.ListInvoices(ctx, filter)
	if err != nil {
		return nil, errs.Wrap(err, "list invoices")
	}
	return invoices, nil
}

func (s *Service) CalculateCosts(ctx context.Context, shipmentID int64) (billing.CostBreakdown, error) {
	if shipmentID <= 0 {
		return billing.CostBreakdown{}, ErrInvalidShipmentID
	}
	breakdown, err := s.billing.CalculateCosts(ctx, shipmentID)
	if err != nil {
		return billing.CostBreakdown{}, errs.Wrapf(err, "calculate costs for shipment %d", shipmentID)
	}
	if !breakdown.Total.Equal(breakdown.LinesTotal()) {
		logging.Debug(
			logging.WithComponent(ctx, "usecase.billing"),
			"cost lines differ from total",
			slog.Int64("shipment_id", shipmentID),
			slog.String("total", breakdown.Total.String()),
			slog.String("lines_total", breakdown.LinesTotal().String()),
		)
	}
	return breakdown, nil
}

func (s *Service) ListInventory(ctx context.Context, filter inventory.ListFilter) ([]inventory.Item, error) {
	items, err := s.inventory.ListInventory(ctx, filter)
	if err != nil {
		return nil, errs.Wrap(err, "list inventory")
	}
	return items, nil
}

func (s *Service) CreateInventoryItem(ctx context.Context, request inventory.CreateRequest) (inventory.Item, error) {
	request.SKU = strings.TrimSpace(request.SKU)
	request.Name = strings.TrimSpace(request.Name)
	request.Description = strings.TrimSpace(request.Description)
	switch {
	case request.SKU == "":
		return inventory.Item{}, ErrSKURequired
	case request.Name == "":
		return inventory.Item{}, ErrNameRequired
	case request.Quantity < 0:
		return inventory.Item{}, ErrNegativeQuantity
	}

	item, err := s.inventory.CreateInventoryItem(ctx, request)
	if err != nil {
		return inventory.Item{}, errs.Wrapf(err, "create inventory item %s", request.SKU)
	}
	return item, nil
}

func (s *Service) RelocateInventoryItem(ctx context.Context, id int64, locationID int64) (inventory.Item, error) {
	if id <= 0 {
		return inventory.Item{}, ErrInvalidItemID
	}
	if locationID <= 0 {
		return inventory.Item{}, ErrInvalidLocationID
	}
	item, err := s.inventory.RelocateInventoryItem(ctx, id, locationID)
	if err != nil {
		return inventory.Item{}, errs.Wrapf(err, "relocate inventory item %d", id)
	}
	return item, nil
}
