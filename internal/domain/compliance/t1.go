package compliance

import (
	"strings"

	"freightdesk/internal/domain/apitime"
	"freightdesk/internal/domain/tier"
)

type T1Status string

const (
	T1Pending     T1Status = "pending"
	T1Submitted   T1Status = "submitted"
	T1UnderReview T1Status = "under_review"
	T1Approved    T1Status = "approved"
	T1Rejected    T1Status = "rejected"
)

var t1Statuses = map[T1Status]struct{}{
	T1Pending:     {},
	T1Submitted:   {},
	T1UnderReview: {},
	T1Approved:    {},
	T1Rejected:    {},
}

// ParseT1Status accepts the wire token in any case.
func ParseT1Status(raw string) (T1Status, error) {
	status := T1Status(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := t1Statuses[status]; !ok {
		return "", ErrInvalidT1Status
	}
	return status, nil
}

// Band collapses everything short of a decision into pending.
func (s T1Status) Band() tier.Band {
	switch s {
	case T1Approved:
		return tier.Positive
	case T1Rejected:
		return tier.Negative
	default:
		return tier.Pending
	}
}

func (s T1Status) Tier() tier.Tier {
	switch s {
	case T1Approved:
		return tier.Success
	case T1Submitted:
		return tier.Primary
	case T1Rejected:
		return tier.Error
	default:
		return tier.Warning
	}
}

// Label renders the chip text, e.g. "UNDER REVIEW".
func (s T1Status) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

type T1Form struct {
	ID                       int64        `json:"id" yaml:"id"`
	ShipmentID               int64        `json:"shipment_id" yaml:"shipment_id"`
	FormNumber               string       `json:"form_number" yaml:"form_number"`
	TransporterName          string       `json:"transporter_name" yaml:"transporter_name"`
	TransporterTIN           string       `json:"transporter_tin" yaml:"transporter_tin"`
	VehicleRegistration      string       `json:"vehicle_registration" yaml:"vehicle_registration"`
	GoodsDescription         string       `json:"goods_description" yaml:"goods_description"`
	CustomsDeclarationNumber string       `json:"customs_declaration_number" yaml:"customs_declaration_number"`
	Status                   T1Status     `json:"status" yaml:"status"`
	CreatedAt                apitime.Time `json:"created_at" yaml:"created_at"`
}

type T1Request struct {
	ShipmentID               int64  `json:"shipment_id"`
	TransporterName          string `json:"transporter_name"`
	TransporterTIN           string `json:"transporter_tin"`
	VehicleRegistration      string `json:"vehicle_registration"`
	GoodsDescription         string `json:"goods_description"`
	CustomsDeclarationNumber string `json:"customs_declaration_number"`
}

func (r T1Request) Validate() error {
	if r.ShipmentID <= 0 {
		return ErrShipmentRequired
	}
	return nil
}

type T1StatusUpdate struct {
	Status T1Status `json:"status"`
}

// LatestT1 picks the newest form by created_at; equal timestamps go to the
// highest id so the result does not depend on input order.
func LatestT1(forms []T1Form) (T1Form, bool) {
	if len(forms) == 0 {
		return T1Form{}, false
	}
	latest := forms[0]
	for _, form := range forms[1:] {
		if newer(form.CreatedAt, form.ID, latest.CreatedAt, latest.ID) {
			latest = form
		}
	}
	return latest, true
}

func newer(at apitime.Time, id int64, thanAt apitime.Time, thanID int64) bool {
	if at.Time.Equal(thanAt.Time) {
		return id > thanID
	}
	return at.Time.After(thanAt.Time)
}
