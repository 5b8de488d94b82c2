package apitime

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// layouts accepted from the backend. Naive timestamps are read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Time decodes the timestamp shapes the API emits. A JSON null or empty
// string leaves it zero.
type Time struct {
	time.Time
}

func New(t time.Time) Time {
	return Time{Time: t}
}

func Parse(value string) (Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Time{}, nil
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			return Time{Time: parsed.UTC()}, nil
		}
	}
	return Time{}, fmt.Errorf("unsupported timestamp %q", value)
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string, got %s", string(data))
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// MarshalYAML keeps CLI yaml output readable.
func (t Time) MarshalYAML() (any, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC().Format(time.RFC3339), nil
}

// Display formats the time for terminal output, or fallback when zero.
func (t Time) Display(layout string, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.UTC().Format(layout)
}
