package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestWithAttrsOverridesByKey(t *testing.T) {
	ctx := WithAttrs(context.Background(), slog.String("component", "a"), slog.String("command", "x"))
	ctx = WithComponent(ctx, "b")

	attrs := Attrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("len(Attrs()) = %d, want 2", len(attrs))
	}
	if attrs[0].Key != "component" || attrs[0].Value.String() != "b" {
		t.Fatalf("Attrs()[0] = %v, want component=b", attrs[0])
	}
}

func TestJSONHandlerCarriesContextAttrs(t *testing.T) {
	var buffer bytes.Buffer
	handler, err := NewHandler(&buffer, "json", slog.LevelDebug)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	ctx := WithLogger(context.Background(), slog.New(handler))
	ctx = WithComponent(ctx, "usecase.shipments")
	Debug(ctx, "advance shipment", slog.Int64("shipment_id", 7))

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("json.Unmarshal(%q) error = %v", buffer.String(), err)
	}
	if record["component"] != "usecase.shipments" || record["msg"] != "advance shipment" {
		t.Fatalf("record = %v", record)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buffer bytes.Buffer
	handler, err := NewHandler(&buffer, "text", slog.LevelWarn)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	ctx := WithLogger(context.Background(), slog.New(handler))

	Info(ctx, "hidden")
	Warn(ctx, "shown")

	if strings.Contains(buffer.String(), "hidden") || !strings.Contains(buffer.String(), "shown") {
		t.Fatalf("output = %q", buffer.String())
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if level, err := ParseLevel("WARNING"); err != nil || level != slog.LevelWarn {
		t.Fatalf("ParseLevel(WARNING) = %v, %v", level, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("ParseLevel(verbose) expected error")
	}
	if _, err := NewHandler(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
		t.Fatalf("NewHandler(xml) expected error")
	}
}
