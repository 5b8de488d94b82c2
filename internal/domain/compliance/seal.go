package compliance

import (
	"strings"

	"freightdesk/internal/domain/apitime"
	"freightdesk/internal/domain/tier"
)

type Seal struct {
	ID              int64        `json:"id" yaml:"id"`
	ShipmentID      int64        `json:"shipment_id" yaml:"shipment_id"`
	SealNumber      string       `json:"seal_number" yaml:"seal_number"`
	SealType        string       `json:"seal_type" yaml:"seal_type"`
	AppliedLocation *string      `json:"applied_location" yaml:"applied_location,omitempty"`
	IsTampered      bool         `json:"is_tampered" yaml:"is_tampered"`
	CreatedAt       apitime.Time `json:"created_at" yaml:"created_at"`
}

type Integrity struct {
	Label string
	Band  tier.Band
}

func SealIntegrity(isTampered bool) Integrity {
	if isTampered {
		return Integrity{Label: "Tampered", Band: tier.Negative}
	}
	return Integrity{Label: "Intact", Band: tier.Positive}
}

func (s Seal) Integrity() Integrity {
	return SealIntegrity(s.IsTampered)
}

type SealRequest struct {
	ShipmentID      int64  `json:"shipment_id"`
	SealNumber      string `json:"seal_number"`
	SealType        string `json:"seal_type,omitempty"`
	AppliedLocation string `json:"applied_location,omitempty"`
}

func (r SealRequest) Validate() error {
	if r.ShipmentID <= 0 {
		return ErrShipmentRequired
	}
	if strings.TrimSpace(r.SealNumber) == "" {
		return ErrSealNumberRequired
	}
	return nil
}

// LatestSeal applies the same ordering as LatestT1.
func LatestSeal(seals []Seal) (Seal, bool) {
	if len(seals) == 0 {
		return Seal{}, false
	}
	latest := seals[0]
	for _, seal := range seals[1:] {
		if newer(seal.CreatedAt, seal.ID, latest.CreatedAt, latest.ID) {
			latest = seal
		}
	}
	return latest, true
}
