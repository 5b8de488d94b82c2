package compliance

import "strings"

// SummaryRecord is the summary payload as the backend returns it.
type SummaryRecord struct {
	ShipmentID int64    `json:"shipment_id"`
	T1Forms    []T1Form `json:"t1_forms"`
	Seals      []Seal   `json:"seals"`
}

// Summary is the derived compliance view of one shipment. It is recomputed
// from the fetched lists and ignores the shipment's own rollup counters.
type Summary struct {
	ShipmentID int64    `json:"shipment_id" yaml:"shipment_id"`
	T1Forms    []T1Form `json:"t1_forms" yaml:"t1_forms"`
	Seals      []Seal   `json:"seals" yaml:"seals"`
	LatestT1   *T1Form  `json:"latest_t1_form,omitempty" yaml:"latest_t1_form,omitempty"`
	LatestSeal *Seal    `json:"latest_seal,omitempty" yaml:"latest_seal,omitempty"`
}

func BuildSummary(shipmentID int64, forms []T1Form, seals []Seal) Summary {
	summary := Summary{
		ShipmentID: shipmentID,
		T1Forms:    append([]T1Form(nil), forms...),
		Seals:      append([]Seal(nil), seals...),
	}
	if latest, ok := LatestT1(summary.T1Forms); ok {
		summary.LatestT1 = &latest
	}
	if latest, ok := LatestSeal(summary.Seals); ok {
		summary.LatestSeal = &latest
	}
	return summary
}

func (s Summary) T1Count() int {
	return len(s.T1Forms)
}

func (s Summary) SealCount() int {
	return len(s.Seals)
}

func (s Summary) HasComplianceActivity() bool {
	return s.T1Count() > 0 || s.SealCount() > 0
}

func (s Summary) FormByNumber(formNumber string) (T1Form, bool) {
	target := strings.TrimSpace(formNumber)
	if target == "" {
		return T1Form{}, false
	}
	for _, form := range s.T1Forms {
		if form.FormNumber == target {
			return form, true
		}
	}
	return T1Form{}, false
}
