package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"freightdesk/internal/domain/billing"
	"freightdesk/internal/domain/inventory"
)

func (c *Client) GenerateInvoice(ctx context.Context, invoice billing.InvoiceRequest) (billing.Invoice, error) {
	return fetch[billing.Invoice](ctx, c, request{method: http.MethodPost, path: "/api/billing/invoices/generate", body: invoice})
}

func (c *Client) ListInvoices(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	r, err := get("/api/billing/invoices").withQuery(filter)
	if err != nil {
		return nil, err
	}
	items, _, err := fetchList[billing.Invoice](ctx, c, r)
	return items, err
}

func (c *Client) CalculateCosts(ctx context.Context, shipmentID int64) (billing.CostBreakdown, error) {
	r := request{method: http.MethodPost, path: "/api/billing/costs/calculate"}.
		withParam("shipment_id", strconv.FormatInt(shipmentID, 10))
	return fetch[billing.CostBreakdown](ctx, c, r)
}

func (c *Client) ListInventory(ctx context.Context, filter inventory.ListFilter) ([]inventory.Item, error) {
	r, err := get("/api/inventory").withQuery(filter)
	if err != nil {
		return nil, err
	}
	items, _, err := fetchList[inventory.Item](ctx, c, r)
	return items, err
}

func (c *Client) CreateInventoryItem(ctx context.Context, create inventory.CreateRequest) (inventory.Item, error) {
	return fetch[inventory.Item](ctx, c, request{method: http.MethodPost, path: "/api/inventory", body: create})
}

func (c *Client) RelocateInventoryItem(ctx context.Context, id int64, locationID int64) (inventory.Item, error) {
	r, err := request{method: http.MethodPut, path: idPath("/api/inventory/%d/location", id)}.
		withQuery(inventory.Relocation{LocationID: locationID})
	if err != nil {
		return inventory.Item{}, err
	}
	return fetch[inventory.Item](ctx, c, r)
}
