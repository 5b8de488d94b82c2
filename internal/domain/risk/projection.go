package risk

import (
	"fmt"
	"math"

	"freightdesk/internal/domain/tier"
)

const DefaultHeadline = "System monitoring shipment telemetry in real time."

const MaxCheckpoints = 3

type RecommendationView struct {
	Recommendation
	Tier tier.Tier
}

type Projection struct {
	Tier            tier.Tier
	Monitoring      bool
	Level           Level
	Score           *int
	Headline        string
	Factors         []string
	Recommendations []RecommendationView
	Checkpoints     []string
}

// Project maps an insight payload to its presentation bundle. A nil payload
// means no insight has been computed yet and yields the monitoring state.
func Project(insight *Insight) Projection {
	if insight == nil {
		return Projection{
			Tier:       tier.Neutral,
			Monitoring: true,
			Headline:   DefaultHeadline,
		}
	}

	projection := Projection{
		Tier:     tier.Success,
		Headline: DefaultHeadline,
	}

	if assessment := insight.Risk; assessment != nil {
		projection.Level = assessment.Level
		projection.Tier = LevelTier(assessment.Level)
		if assessment.Score != nil && *assessment.Score != 0 {
			rounded := int(math.Round(*assessment.Score))
			projection.Score = &rounded
		}
		if len(assessment.Factors) > 0 {
			projection.Headline = assessment.Factors[0]
			projection.Factors = append([]string(nil), assessment.Factors...)
		}
	}

	for _, recommendation := range insight.Recommendations {
		projection.Recommendations = append(projection.Recommendations, RecommendationView{
			Recommendation: recommendation,
			Tier:           PriorityTier(recommendation.Priority),
		})
	}

	checkpoints := insight.NextCheckpoints
	if len(checkpoints) > MaxCheckpoints {
		checkpoints = checkpoints[:MaxCheckpoints]
	}
	projection.Checkpoints = append([]string(nil), checkpoints...)

	return projection
}

func LevelTier(level Level) tier.Tier {
	switch level {
	case LevelHigh:
		return tier.Error
	case LevelMedium:
		return tier.Warning
	default:
		return tier.Success
	}
}

func PriorityTier(priority Priority) tier.Tier {
	switch priority {
	case PriorityHigh:
		return tier.Error
	case PriorityMedium:
		return tier.Warning
	default:
		return tier.Neutral
	}
}

func (p Projection) ScoreLabel() string {
	if p.Score == nil {
		return "-"
	}
	return fmt.Sprintf("%d / 100", *p.Score)
}
