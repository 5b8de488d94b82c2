package notification

import (
	"testing"

	"freightdesk/internal/domain/tier"
)

func TestTypeTier(t *testing.T) {
	testCases := []struct {
		input Type
		want  tier.Tier
	}{
		{input: TypeAlert, want: tier.Error},
		{input: TypeError, want: tier.Error},
		{input: TypeWarning, want: tier.Warning},
		{input: TypeInfo, want: tier.Info},
		{input: TypeSuccess, want: tier.Success},
		{input: Type("digest"), want: tier.Neutral},
	}

	for _, testCase := range testCases {
		if got := testCase.input.Tier(); got != testCase.want {
			t.Fatalf("Type(%q).Tier() = %q, want %q", testCase.input, got, testCase.want)
		}
	}
}

func TestLink(t *testing.T) {
	shipment := "shipment"
	report := "report"
	id := int64(88)

	if got := (Notification{ID: 1, ResourceType: &shipment, ResourceID: &id}).Link(); got != "/shipments/88" {
		t.Fatalf("Link() = %q, want /shipments/88", got)
	}
	if got := (Notification{ID: 2, ResourceType: &report, ResourceID: &id}).Link(); got != "/reports" {
		t.Fatalf("Link() = %q, want /reports", got)
	}
	if got := (Notification{ID: 3, ResourceType: &shipment}).Link(); got != "/notifications#3" {
		t.Fatalf("Link() = %q, want /notifications#3", got)
	}
}

func TestRemoveAndUpsert(t *testing.T) {
	items := []Notification{{ID: 1}, {ID: 2}, {ID: 3}}

	removed := RemoveByID(items, 2)
	if len(removed) != 2 || removed[0].ID != 1 || removed[1].ID != 3 {
		t.Fatalf("RemoveByID() = %+v", removed)
	}
	if len(items) != 3 {
		t.Fatalf("RemoveByID() mutated input")
	}

	upserted := Upsert(removed, Notification{ID: 2, Title: "back"})
	if len(upserted) != 3 || upserted[0].ID != 2 {
		t.Fatalf("Upsert(new) = %+v", upserted)
	}

	replaced := Upsert(upserted, Notification{ID: 3, Title: "renamed"})
	if len(replaced) != 3 || replaced[2].Title != "renamed" || upserted[2].Title != "" {
		t.Fatalf("Upsert(existing) = %+v", replaced)
	}
}

func TestParseStatusFilter(t *testing.T) {
	for input, want := range map[string]StatusFilter{"": FilterAll, "ALL": FilterAll, "unread": FilterUnread, " read ": FilterRead} {
		got, err := ParseStatusFilter(input)
		if err != nil || got != want {
			t.Fatalf("ParseStatusFilter(%q) = %q, %v, want %q", input, got, err, want)
		}
	}
	if _, err := ParseStatusFilter("archived"); err == nil {
		t.Fatalf("ParseStatusFilter(archived) expected error")
	}
}
