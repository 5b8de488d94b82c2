package httpapi

import (
	"context"
	"errors"
	"net/http"

	"freightdesk/internal/domain/risk"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/ports"
)

func (c *Client) ListShipments(ctx context.Context, filter shipment.ListFilter) (shipment.Page, error) {
	r, err := get("/api/shipments").withQuery(filter)
	if err != nil {
		return shipment.Page{}, err
	}
	items, total, err := fetchList[shipment.Shipment](ctx, c, r)
	if err != nil {
		return shipment.Page{}, err
	}
	return shipment.Page{Items: items, Total: total}, nil
}

func (c *Client) GetShipment(ctx context.Context, id int64) (shipment.Shipment, error) {
	return fetch[shipment.Shipment](ctx, c, get(idPath("/api/shipments/%d", id)))
}

func (c *Client) CreateShipment(ctx context.Context, payload shipment.Payload) (shipment.Shipment, error) {
	return fetch[shipment.Shipment](ctx, c, request{method: http.MethodPost, path: "/api/shipments", body: payload})
}

func (c *Client) UpdateShipment(ctx context.Context, id int64, payload shipment.Payload) (shipment.Shipment, error) {
	return fetch[shipment.Shipment](ctx, c, request{method: http.MethodPut, path: idPath("/api/shipments/%d", id), body: payload})
}

func (c *Client) UpdateShipmentStatus(ctx context.Context, id int64, update shipment.StatusUpdate) (shipment.Shipment, error) {
	return fetch[shipment.Shipment](ctx, c, request{
		method: http.MethodPatch,
		path:   idPath("/api/shipments/%d/status", id),
		body:   update,
	})
}

func (c *Client) CancelShipment(ctx context.Context, id int64, reason string) (shipment.Shipment, error) {
	r := request{method: http.MethodPost, path: idPath("/api/shipments/%d/cancel", id)}.withParam("reason", reason)
	return fetch[shipment.Shipment](ctx, c, r)
}

func (c *Client) AssignShipment(ctx context.Context, id int64, assignment shipment.Assignment) (shipment.Shipment, error) {
	return fetch[shipment.Shipment](ctx, c, request{
		method: http.MethodPost,
		path:   idPath("/api/shipments/%d/assign", id),
		body:   assignment,
	})
}

func (c *Client) ShipmentTimeline(ctx context.Context, id int64) ([]shipment.TimelineEvent, error) {
	events, _, err := fetchList[shipment.TimelineEvent](ctx, c, get(idPath("/api/shipments/%d/timeline", id)))
	return events, err
}

func (c *Client) ShipmentInsights(ctx context.Context, id int64) (*risk.Insight, error) {
	insight, err := fetch[*risk.Insight](ctx, c, get(idPath("/api/shipments/%d/insights", id)))
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	return insight, err
}

func (c *Client) OptimizeRoute(ctx context.Context, routeQuery shipment.RouteQuery) (shipment.RoutePlan, error) {
	r, err := request{method: http.MethodPost, path: "/api/shipments/optimize-route"}.withQuery(routeQuery)
	if err != nil {
		return shipment.RoutePlan{}, err
	}
	return fetch[shipment.RoutePlan](ctx, c, r)
}

func (c *Client) ExportShipments(ctx context.Context, status shipment.Status) (shipment.ExportFile, error) {
	r := get("/api/shipments/export/excel")
	if status != "" {
		r = r.withParam("status", string(status))
	}
	return fetch[shipment.ExportFile](ctx, c, r)
}
