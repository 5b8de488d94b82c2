package shipment

import (
	"sort"

	"github.com/shopspring/decimal"

	"freightdesk/internal/domain/apitime"
)

type Shipment struct {
	ID                    int64            `json:"id" yaml:"id"`
	ShipmentNumber        string           `json:"shipment_number" yaml:"shipment_number"`
	Origin                string           `json:"origin" yaml:"origin"`
	Destination           string           `json:"destination" yaml:"destination"`
	ShipperName           *string          `json:"shipper_name" yaml:"shipper_name,omitempty"`
	ConsigneeName         string           `json:"consignee_name" yaml:"consignee_name"`
	ConsigneeEmail        *string          `json:"consignee_email" yaml:"consignee_email,omitempty"`
	ConsigneePhone        *string          `json:"consignee_phone" yaml:"consignee_phone,omitempty"`
	ContainerNumber       *string          `json:"container_number" yaml:"container_number,omitempty"`
	CargoDescription      *string          `json:"cargo_description" yaml:"cargo_description,omitempty"`
	EstimatedCost         *decimal.Decimal `json:"estimated_cost" yaml:"estimated_cost,omitempty"`
	ActualCost            *decimal.Decimal `json:"actual_cost" yaml:"actual_cost,omitempty"`
	EstimatedDeliveryDate *apitime.Time    `json:"estimated_delivery_date" yaml:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate    *apitime.Time    `json:"actual_delivery_date" yaml:"actual_delivery_date,omitempty"`
	Status                Status           `json:"status" yaml:"status"`
	CurrentLocation       *string          `json:"current_location" yaml:"current_location,omitempty"`
	T1FormCount           int              `json:"t1_form_count" yaml:"t1_form_count"`
	SealCount             int              `json:"seal_count" yaml:"seal_count"`
	LatestT1FormNumber    *string          `json:"latest_t1_form_number" yaml:"latest_t1_form_number,omitempty"`
	LatestT1CreatedAt     *apitime.Time    `json:"latest_t1_created_at" yaml:"latest_t1_created_at,omitempty"`
	LatestSealNumber      *string          `json:"latest_seal_number" yaml:"latest_seal_number,omitempty"`
	LatestSealCreatedAt   *apitime.Time    `json:"latest_seal_created_at" yaml:"latest_seal_created_at,omitempty"`
	CreatedAt             apitime.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt             apitime.Time     `json:"updated_at" yaml:"updated_at"`
}

// RecencyKey is updated_at, or created_at when the record was never updated.
func (s Shipment) RecencyKey() apitime.Time {
	if !s.UpdatedAt.IsZero() {
		return s.UpdatedAt
	}
	return s.CreatedAt
}

// CostVariance is actual minus estimated cost when both are known.
func (s Shipment) CostVariance() (decimal.Decimal, bool) {
	if s.EstimatedCost == nil || s.ActualCost == nil {
		return decimal.Zero, false
	}
	return s.ActualCost.Sub(*s.EstimatedCost), true
}

func (s Shipment) Route() string {
	return s.Origin + " → " + s.Destination
}

// SortByRecency orders newest first in place. Equal keys keep input order.
func SortByRecency(items []Shipment) {
	sort.SliceStable(items, func(i int, j int) bool {
		return items[i].RecencyKey().Time.After(items[j].RecencyKey().Time)
	})
}

type StatusUpdate struct {
	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type TimelineEvent struct {
	Status    Status        `json:"status" yaml:"status"`
	Location  *string       `json:"location" yaml:"location,omitempty"`
	Notes     *string       `json:"notes" yaml:"notes,omitempty"`
	Timestamp *apitime.Time `json:"timestamp" yaml:"timestamp,omitempty"`
}

type Assignment struct {
	DriverID  *int64 `json:"driver_id,omitempty"`
	VehicleID *int64 `json:"vehicle_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type RouteQuery struct {
	Origin      string `url:"origin"`
	Destination string `url:"destination"`
}

type RoutePlan struct {
	Origin           string   `json:"origin" yaml:"origin"`
	Destination      string   `json:"destination" yaml:"destination"`
	DistanceKM       *float64 `json:"distance_km" yaml:"distance_km,omitempty"`
	EstimatedHours   *float64 `json:"estimated_hours" yaml:"estimated_hours,omitempty"`
	Waypoints        []string `json:"waypoints" yaml:"waypoints,omitempty"`
	Recommendation   string   `json:"recommendation" yaml:"recommendation,omitempty"`
	AlternativeCount int      `json:"alternative_count" yaml:"alternative_count,omitempty"`
}

// ExportFile is the base64 spreadsheet envelope returned by the export endpoint.
type ExportFile struct {
	Data     string `json:"data"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

type ListFilter struct {
	Status Status `url:"status,omitempty"`
	Skip   int    `url:"skip,omitempty"`
	Limit  int    `url:"limit,omitempty"`
}

type Page struct {
	Items []Shipment `json:"items"`
	Total int        `json:"total"`
}
