package risk

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Assessment struct {
	Level   Level    `json:"level" yaml:"level"`
	Score   *float64 `json:"score" yaml:"score,omitempty"`
	Factors []string `json:"factors" yaml:"factors,omitempty"`
}

type Recommendation struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Priority    Priority `json:"priority" yaml:"priority"`
}

// Insight is the server-computed risk payload for one shipment. The client
// never recomputes the score.
type Insight struct {
	Risk            *Assessment      `json:"risk" yaml:"risk,omitempty"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations,omitempty"`
	NextCheckpoints []string         `json:"next_checkpoints" yaml:"next_checkpoints,omitempty"`
}
