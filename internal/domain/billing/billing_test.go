package billing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCostBreakdownDecodesNumbersAndStrings(t *testing.T) {
	raw := `{"shipment_id":9,"breakdown":[{"name":"freight","amount":1200.10},{"name":"customs","amount":"99.90"}],"total":1300,"currency":"USD"}`

	var breakdown CostBreakdown
	if err := json.Unmarshal([]byte(raw), &breakdown); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got := breakdown.LinesTotal(); !got.Equal(decimal.RequireFromString("1300")) {
		t.Fatalf("LinesTotal() = %s, want 1300", got)
	}
	if !breakdown.Total.Equal(breakdown.LinesTotal()) {
		t.Fatalf("Total = %s, LinesTotal = %s", breakdown.Total, breakdown.LinesTotal())
	}
}

func TestInvoiceTotal(t *testing.T) {
	invoice := Invoice{Amount: decimal.RequireFromString("100.00"), Tax: decimal.RequireFromString("16.00")}
	if got := invoice.Total(); !got.Equal(decimal.RequireFromString("116")) {
		t.Fatalf("Total() = %s, want 116", got)
	}
}
