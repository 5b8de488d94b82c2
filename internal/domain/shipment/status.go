package shipment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"freightdesk/internal/domain/tier"
)

type Status string

const (
	StatusPending         Status = "pending"
	StatusInTransit       Status = "in_transit"
	StatusAtCustoms       Status = "at_customs"
	StatusAwaitingRelease Status = "awaiting_release"
	StatusDelivered       Status = "delivered"
	StatusCancelled       Status = "cancelled"
)

// NotFound is returned by StatusIndex for statuses outside the step sequence.
const NotFound = -1

// UnknownProgressPercent is reported for status tokens this client does not
// recognise, so an advanced-but-unmapped shipment never reads as zero.
const UnknownProgressPercent = 10.0

var steps = []Status{
	StatusPending,
	StatusInTransit,
	StatusAtCustoms,
	StatusAwaitingRelease,
	StatusDelivered,
}

// Steps returns the ordered lifecycle sequence. Cancelled is not a step.
func Steps() []Status {
	out := make([]Status, len(steps))
	copy(out, steps)
	return out
}

func ParseStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

func StatusIndex(status Status) int {
	for index, step := range steps {
		if step == status {
			return index
		}
	}
	return NotFound
}

func ProgressPercent(status Status) float64 {
	index := StatusIndex(status)
	if index == NotFound {
		if status == StatusCancelled {
			return 0
		}
		return UnknownProgressPercent
	}
	return float64(index+1) / float64(len(steps)) * 100
}

// NextStatus drives the single-step advance action. Customs states are left
// to explicit compliance actions and never advanced automatically.
func NextStatus(status Status) (Status, bool) {
	switch status {
	case StatusPending:
		return StatusInTransit, true
	case StatusInTransit:
		return StatusDelivered, true
	default:
		return "", false
	}
}

func ColorTier(status Status) tier.Tier {
	switch status {
	case StatusDelivered:
		return tier.Success
	case StatusInTransit:
		return tier.Info
	case StatusPending:
		return tier.Warning
	case StatusAtCustoms, StatusAwaitingRelease:
		return tier.Secondary
	case StatusCancelled:
		return tier.Error
	default:
		return tier.Neutral
	}
}

// NormalizeLabel turns a snake_case token into a title-cased phrase. Each
// hyphenated part is capitalised on its own, so re-routed reads Re-Routed.
func NormalizeLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Unknown"
	}

	words := strings.Fields(strings.ReplaceAll(trimmed, "_", " "))
	for index, word := range words {
		parts := strings.Split(word, "-")
		for partIndex, part := range parts {
			parts[partIndex] = capitalize(part)
		}
		words[index] = strings.Join(parts, "-")
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if size == 0 || first == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(first)) + word[size:]
}

// Known reports whether the status is a step or cancelled.
func (s Status) Known() bool {
	return s == StatusCancelled || StatusIndex(s) != NotFound
}

// Final reports whether no further transition is expected.
func (s Status) Final() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) Label() string {
	return NormalizeLabel(string(s))
}

func (s Status) String() string { return string(s) }
