package shipment

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Draft is the raw operator input for creating or editing a shipment.
type Draft struct {
	Origin                string
	Destination           string
	ShipperName           string
	ConsigneeName         string
	ConsigneeEmail        string
	ConsigneePhone        string
	ContainerNumber       string
	CargoDescription      string
	EstimatedCost         string
	EstimatedDeliveryDate string
}

// Payload is the normalised body sent on create and update.
type Payload struct {
	Origin                string           `json:"origin"`
	Destination           string           `json:"destination"`
	ShipperName           *string          `json:"shipper_name"`
	ConsigneeName         string           `json:"consignee_name"`
	ConsigneeEmail        *string          `json:"consignee_email"`
	ConsigneePhone        *string          `json:"consignee_phone"`
	ContainerNumber       *string          `json:"container_number"`
	CargoDescription      *string          `json:"cargo_description"`
	EstimatedCost         *decimal.Decimal `json:"estimated_cost"`
	EstimatedDeliveryDate *string          `json:"estimated_delivery_date,omitempty"`
}

func (d Draft) Normalize() (Payload, error) {
	payload := Payload{
		Origin:                strings.TrimSpace(d.Origin),
		Destination:           strings.TrimSpace(d.Destination),
		ConsigneeName:         strings.TrimSpace(d.ConsigneeName),
		ShipperName:           optional(d.ShipperName),
		ConsigneeEmail:        optional(d.ConsigneeEmail),
		ConsigneePhone:        optional(d.ConsigneePhone),
		ContainerNumber:       optional(d.ContainerNumber),
		CargoDescription:      optional(d.CargoDescription),
		EstimatedDeliveryDate: optional(d.EstimatedDeliveryDate),
	}

	switch {
	case payload.Origin == "":
		return Payload{}, ErrOriginRequired
	case payload.Destination == "":
		return Payload{}, ErrDestinationRequired
	case payload.ConsigneeName == "":
		return Payload{}, ErrConsigneeNameRequired
	}

	if cost := strings.TrimSpace(d.EstimatedCost); cost != "" {
		parsed, err := decimal.NewFromString(cost)
		if err != nil {
			return Payload{}, ErrInvalidEstimatedCost
		}
		payload.EstimatedCost = &parsed
	}

	return payload, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
