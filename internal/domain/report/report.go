package report

import (
	"encoding/json"
	"math"

	"freightdesk/internal/domain/apitime"
)

type KPIs struct {
	TotalShipments int      `json:"total_shipments" yaml:"total_shipments"`
	Pending        int      `json:"pending" yaml:"pending"`
	InTransit      int      `json:"in_transit" yaml:"in_transit"`
	Delivered      int      `json:"delivered" yaml:"delivered"`
	DeliveryRate   *float64 `json:"delivery_rate" yaml:"delivery_rate,omitempty"`
}

// OnTimeRate is delivered over total as a percentage rounded to one decimal.
func (k KPIs) OnTimeRate() float64 {
	if k.TotalShipments <= 0 {
		return 0
	}
	rate := float64(k.Delivered) / float64(k.TotalShipments) * 100
	return math.Round(rate*10) / 10
}

type StatusSlice struct {
	Name  string
	Value int
}

// StatusBreakdown is the pending/in transit/delivered split of the KPIs.
func (k KPIs) StatusBreakdown() []StatusSlice {
	return []StatusSlice{
		{Name: "Pending", Value: k.Pending},
		{Name: "In Transit", Value: k.InTransit},
		{Name: "Delivered", Value: k.Delivered},
	}
}

type DelayPoint struct {
	Date    string `json:"date" yaml:"date"`
	Delayed int    `json:"delayed" yaml:"delayed"`
	Total   int    `json:"total" yaml:"total"`
}

type DelayTrends struct {
	Days         int          `json:"days" yaml:"days"`
	DelayRate    float64      `json:"delay_rate" yaml:"delay_rate"`
	TotalDelayed int          `json:"total_delayed" yaml:"total_delayed"`
	Points       []DelayPoint `json:"trends" yaml:"trends,omitempty"`
}

const DefaultTrendDays = 30

type Alert struct {
	ID         int64        `json:"id" yaml:"id"`
	Severity   string       `json:"severity" yaml:"severity"`
	Title      string       `json:"title" yaml:"title"`
	Message    string       `json:"message" yaml:"message"`
	ShipmentID *int64       `json:"shipment_id" yaml:"shipment_id,omitempty"`
	CreatedAt  apitime.Time `json:"created_at" yaml:"created_at"`
}

// Alerts decodes either a bare array or an {"alerts": [...]} envelope.
type Alerts []Alert

func (a *Alerts) UnmarshalJSON(data []byte) error {
	var list []Alert
	if err := json.Unmarshal(data, &list); err == nil {
		*a = list
		return nil
	}
	var envelope struct {
		Alerts []Alert `json:"alerts"`
		Items  []Alert `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Alerts != nil {
		*a = envelope.Alerts
	} else {
		*a = envelope.Items
	}
	return nil
}

type DailyReport struct {
	Date               string  `json:"date" yaml:"date"`
	ShipmentsCreated   int     `json:"shipments_created" yaml:"shipments_created"`
	ShipmentsDelivered int     `json:"shipments_delivered" yaml:"shipments_delivered"`
	ShipmentsDelayed   int     `json:"shipments_delayed" yaml:"shipments_delayed"`
	OnTimeRate         float64 `json:"on_time_rate" yaml:"on_time_rate"`
	Summary            string  `json:"summary" yaml:"summary,omitempty"`
}

type GenerateRequest struct {
	ReportType string `json:"report_type"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	Format     string `json:"format,omitempty"`
}

type GeneratedReport struct {
	ID         int64        `json:"id" yaml:"id"`
	ReportType string       `json:"report_type" yaml:"report_type"`
	Status     string       `json:"status" yaml:"status"`
	FileURL    string       `json:"file_url" yaml:"file_url,omitempty"`
	CreatedAt  apitime.Time `json:"created_at" yaml:"created_at"`
}
