package inventory

import (
	"freightdesk/internal/domain/apitime"
)

type Item struct {
	ID          int64        `json:"id" yaml:"id"`
	SKU         string       `json:"sku" yaml:"sku"`
	Name        string       `json:"name" yaml:"name"`
	Quantity    int          `json:"quantity" yaml:"quantity"`
	LocationID  *int64       `json:"location_id" yaml:"location_id,omitempty"`
	ShipmentID  *int64       `json:"shipment_id" yaml:"shipment_id,omitempty"`
	Description *string      `json:"description" yaml:"description,omitempty"`
	CreatedAt   apitime.Time `json:"created_at" yaml:"created_at"`
}

type CreateRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	LocationID  *int64 `json:"location_id,omitempty"`
	ShipmentID  *int64 `json:"shipment_id,omitempty"`
	Description string `json:"description,omitempty"`
}

type ListFilter struct {
	LocationID int64 `url:"location_id,omitempty"`
	Skip       int   `url:"skip,omitempty"`
	Limit      int   `url:"limit,omitempty"`
}

type Relocation struct {
	LocationID int64 `url:"location_id"`
}
