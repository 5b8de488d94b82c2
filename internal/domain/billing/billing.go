package billing

import (
	"github.com/shopspring/decimal"

	"freightdesk/internal/domain/apitime"
)

type Invoice struct {
	ID            int64           `json:"id" yaml:"id"`
	InvoiceNumber string          `json:"invoice_number" yaml:"invoice_number"`
	ShipmentID    int64           `json:"shipment_id" yaml:"shipment_id"`
	Amount        decimal.Decimal `json:"amount" yaml:"amount"`
	Tax           decimal.Decimal `json:"tax" yaml:"tax"`
	Currency      string          `json:"currency" yaml:"currency"`
	Status        string          `json:"status" yaml:"status"`
	DueDate       *apitime.Time   `json:"due_date" yaml:"due_date,omitempty"`
	CreatedAt     apitime.Time    `json:"created_at" yaml:"created_at"`
}

func (i Invoice) Total() decimal.Decimal {
	return i.Amount.Add(i.Tax)
}

type InvoiceRequest struct {
	ShipmentID int64  `json:"shipment_id"`
	Currency   string `json:"currency,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type InvoiceFilter struct {
	Status     string `url:"status,omitempty"`
	ShipmentID int64  `url:"shipment_id,omitempty"`
	Skip       int    `url:"skip,omitempty"`
	Limit      int    `url:"limit,omitempty"`
}

type CostLine struct {
	Name   string          `json:"name" yaml:"name"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

type CostBreakdown struct {
	ShipmentID int64           `json:"shipment_id" yaml:"shipment_id"`
	Lines      []CostLine      `json:"breakdown" yaml:"breakdown"`
	Total      decimal.Decimal `json:"total" yaml:"total"`
	Currency   string          `json:"currency" yaml:"currency"`
}

// LinesTotal sums the breakdown lines; it can differ from Total when the
// backend applies discounts or rounding.
func (c CostBreakdown) LinesTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.Lines {
		sum = sum.Add(line.Amount)
	}
	return sum
}
