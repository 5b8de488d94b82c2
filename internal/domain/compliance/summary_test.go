package compliance

import (
	"errors"
	"testing"
	"time"

	"freightdesk/internal/domain/apitime"
	"freightdesk/internal/domain/tier"
)

func at(hour int) apitime.Time {
	return apitime.New(time.Date(2026, 4, 2, hour, 0, 0, 0, time.UTC))
}

func TestBuildSummaryLatestT1IgnoresInputOrder(t *testing.T) {
	t1 := T1Form{ID: 1, FormNumber: "T1-001", CreatedAt: at(8)}
	t2 := T1Form{ID: 2, FormNumber: "T1-002", CreatedAt: at(10)}
	t3 := T1Form{ID: 3, FormNumber: "T1-003", CreatedAt: at(12)}

	orders := [][]T1Form{
		{t1, t2, t3},
		{t3, t1, t2},
		{t2, t3, t1},
		{t3, t2, t1},
	}

	for _, forms := range orders {
		summary := BuildSummary(42, forms, nil)
		if summary.LatestT1 == nil {
			t.Fatalf("BuildSummary() LatestT1 = nil")
		}
		if !summary.LatestT1.CreatedAt.Time.Equal(t3.CreatedAt.Time) {
			t.Fatalf("LatestT1.CreatedAt = %v, want %v", summary.LatestT1.CreatedAt.Time, t3.CreatedAt.Time)
		}
		if summary.T1Count() != 3 {
			t.Fatalf("T1Count() = %d, want 3", summary.T1Count())
		}
	}
}

func TestLatestTieBreaksOnHighestID(t *testing.T) {
	seals := []Seal{
		{ID: 9, SealNumber: "S-9", CreatedAt: at(7)},
		{ID: 12, SealNumber: "S-12", CreatedAt: at(7)},
		{ID: 4, SealNumber: "S-4", CreatedAt: at(7)},
	}

	latest, ok := LatestSeal(seals)
	if !ok || latest.ID != 12 {
		t.Fatalf("LatestSeal() = %+v, %v, want id 12", latest, ok)
	}

	forms := []T1Form{{ID: 5, CreatedAt: at(3)}, {ID: 2, CreatedAt: at(3)}}
	form, ok := LatestT1(forms)
	if !ok || form.ID != 5 {
		t.Fatalf("LatestT1() = %+v, %v, want id 5", form, ok)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := BuildSummary(7, nil, nil)
	if summary.HasComplianceActivity() {
		t.Fatalf("HasComplianceActivity() = true, want false")
	}
	if summary.LatestT1 != nil || summary.LatestSeal != nil {
		t.Fatalf("latest pointers should be nil for empty summary")
	}

	withSeal := BuildSummary(7, nil, []Seal{{ID: 1, CreatedAt: at(1)}})
	if !withSeal.HasComplianceActivity() {
		t.Fatalf("HasComplianceActivity() = false with one seal")
	}
}

func TestBuildSummaryCopiesInput(t *testing.T) {
	forms := []T1Form{{ID: 1, FormNumber: "T1-001", CreatedAt: at(1)}}
	summary := BuildSummary(1, forms, nil)
	forms[0].FormNumber = "mutated"

	if summary.T1Forms[0].FormNumber != "T1-001" {
		t.Fatalf("summary shares backing array with input")
	}
}

func TestFormByNumber(t *testing.T) {
	summary := BuildSummary(1, []T1Form{
		{ID: 1, FormNumber: "T1-001", Status: T1Pending},
		{ID: 2, FormNumber: "T1-002", Status: T1Submitted},
	}, nil)

	form, ok := summary.FormByNumber(" T1-002 ")
	if !ok || form.ID != 2 {
		t.Fatalf("FormByNumber(T1-002) = %+v, %v", form, ok)
	}
	if _, ok := summary.FormByNumber(""); ok {
		t.Fatalf("FormByNumber(\"\") ok = true, want false")
	}
}

func TestT1StatusBand(t *testing.T) {
	testCases := []struct {
		status T1Status
		band   tier.Band
		tier   tier.Tier
	}{
		{status: T1Approved, band: tier.Positive, tier: tier.Success},
		{status: T1Rejected, band: tier.Negative, tier: tier.Error},
		{status: T1Submitted, band: tier.Pending, tier: tier.Primary},
		{status: T1UnderReview, band: tier.Pending, tier: tier.Warning},
		{status: T1Pending, band: tier.Pending, tier: tier.Warning},
	}

	for _, testCase := range testCases {
		if got := testCase.status.Band(); got != testCase.band {
			t.Fatalf("%s.Band() = %q, want %q", testCase.status, got, testCase.band)
		}
		if got := testCase.status.Tier(); got != testCase.tier {
			t.Fatalf("%s.Tier() = %q, want %q", testCase.status, got, testCase.tier)
		}
	}
	if got := T1UnderReview.Label(); got != "UNDER REVIEW" {
		t.Fatalf("Label() = %q, want UNDER REVIEW", got)
	}
}

func TestSealIntegrity(t *testing.T) {
	testCases := []struct {
		tampered bool
		label    string
		band     tier.Band
	}{
		{tampered: true, label: "Tampered", band: tier.Negative},
		{tampered: false, label: "Intact", band: tier.Positive},
	}

	for _, testCase := range testCases {
		got := SealIntegrity(testCase.tampered)
		if got.Label != testCase.label || got.Band != testCase.band {
			t.Fatalf("SealIntegrity(%v) = %+v, want %s/%s", testCase.tampered, got, testCase.label, testCase.band)
		}
	}
}

func TestParseT1Status(t *testing.T) {
	got, err := ParseT1Status(" Approved ")
	if err != nil || got != T1Approved {
		t.Fatalf("ParseT1Status(Approved) = %q, %v", got, err)
	}
	if _, err := ParseT1Status("archived"); !errors.Is(err, ErrInvalidT1Status) {
		t.Fatalf("ParseT1Status(archived) error = %v, want ErrInvalidT1Status", err)
	}
}
