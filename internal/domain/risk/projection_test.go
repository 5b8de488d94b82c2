package risk

import (
	"testing"

	"freightdesk/internal/domain/tier"
)

func float(value float64) *float64 {
	return &value
}

func TestProjectAbsentInsight(t *testing.T) {
	got := Project(nil)
	if !got.Monitoring || got.Tier != tier.Neutral {
		t.Fatalf("Project(nil) = %+v, want neutral monitoring", got)
	}
	if got.Headline != DefaultHeadline {
		t.Fatalf("Project(nil).Headline = %q", got.Headline)
	}
	if len(got.Factors) != 0 || len(got.Recommendations) != 0 || len(got.Checkpoints) != 0 {
		t.Fatalf("Project(nil) rendered content: %+v", got)
	}
	if got.ScoreLabel() != "-" {
		t.Fatalf("ScoreLabel() = %q, want -", got.ScoreLabel())
	}
}

func TestProjectLevels(t *testing.T) {
	testCases := []struct {
		name    string
		insight *Insight
		want    tier.Tier
	}{
		{name: "high", insight: &Insight{Risk: &Assessment{Level: LevelHigh}}, want: tier.Error},
		{name: "medium", insight: &Insight{Risk: &Assessment{Level: LevelMedium}}, want: tier.Warning},
		{name: "low", insight: &Insight{Risk: &Assessment{Level: LevelLow}}, want: tier.Success},
		{name: "missing level", insight: &Insight{Risk: &Assessment{}}, want: tier.Success},
		{name: "missing risk", insight: &Insight{}, want: tier.Success},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Project(testCase.insight)
			if got.Tier != testCase.want {
				t.Fatalf("Project().Tier = %q, want %q", got.Tier, testCase.want)
			}
			if got.Monitoring {
				t.Fatalf("Project().Monitoring = true for a present payload")
			}
		})
	}
}

func TestProjectHeadlineAndCheckpoints(t *testing.T) {
	insight := &Insight{
		Risk: &Assessment{
			Level:   LevelHigh,
			Score:   float(72.6),
			Factors: []string{"Border congestion at Malaba", "Seal check overdue"},
		},
		Recommendations: []Recommendation{
			{Title: "Reroute via Busia", Priority: PriorityHigh},
			{Title: "Notify consignee", Priority: PriorityLow},
		},
		NextCheckpoints: []string{"Malaba", "Tororo", "Jinja", "Kampala"},
	}

	got := Project(insight)
	if got.Headline != "Border congestion at Malaba" {
		t.Fatalf("Headline = %q", got.Headline)
	}
	if got.ScoreLabel() != "73 / 100" {
		t.Fatalf("ScoreLabel() = %q, want 73 / 100", got.ScoreLabel())
	}
	if len(got.Checkpoints) != MaxCheckpoints || got.Checkpoints[2] != "Jinja" {
		t.Fatalf("Checkpoints = %v", got.Checkpoints)
	}
	if got.Recommendations[0].Tier != tier.Error || got.Recommendations[1].Tier != tier.Neutral {
		t.Fatalf("recommendation tiers = %q, %q", got.Recommendations[0].Tier, got.Recommendations[1].Tier)
	}

	insight.Risk.Factors[0] = "changed"
	if got.Factors[0] != "Border congestion at Malaba" {
		t.Fatalf("projection shares factors with payload")
	}
}
