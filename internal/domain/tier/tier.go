// Package tier names the presentation tiers and bands that lifecycle,
// compliance, risk and notification projections map server values into.
package tier

// Tier is a colour-like presentation class.
type Tier string

const (
	Success   Tier = "success"
	Info      Tier = "info"
	Warning   Tier = "warning"
	Error     Tier = "error"
	Secondary Tier = "secondary"
	Primary   Tier = "primary"
	Neutral   Tier = "neutral"
)

// Band is the three-way outcome classification used for compliance records.
type Band string

const (
	Positive Band = "positive"
	Negative Band = "negative"
	Pending  Band = "pending"
)

func (t Tier) String() string { return string(t) }

func (b Band) String() string { return string(b) }
