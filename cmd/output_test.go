package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"freightdesk/internal/domain/shipment"
)

type renderSample struct {
	ID     int64  `json:"id" yaml:"id"`
	Status string `json:"status" yaml:"status"`
}

func renderWith(t *testing.T, format string) (string, error) {
	t.Helper()

	previous := outputFormat
	outputFormat = format
	t.Cleanup(func() { outputFormat = previous })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	value := renderSample{ID: 7, Status: "in_transit"}
	err := render(cmd, value, func() table {
		return fields("id", itoa(value.ID), "status", value.Status)
	})
	return out.String(), err
}

func TestRenderFormats(t *testing.T) {
	testCases := []struct {
		name   string
		format string
		want   []string
	}{
		{name: "table", format: "table", want: []string{"field", "id", "7", "in_transit"}},
		{name: "default is table", format: "", want: []string{"status", "in_transit"}},
		{name: "json", format: "json", want: []string{`"id": 7`, `"status": "in_transit"`}},
		{name: "yaml", format: "YAML", want: []string{"id: 7", "status: in_transit"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := renderWith(t, testCase.format)
			if err != nil {
				t.Fatalf("render() error = %v", err)
			}
			for _, want := range testCase.want {
				if !strings.Contains(got, want) {
					t.Fatalf("render() output = %q, want substring %q", got, want)
				}
			}
		})
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	if _, err := renderWith(t, "xml"); err == nil {
		t.Fatalf("render() expected error for unknown format")
	}
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "positive", raw: "42", want: 42},
		{name: "trimmed", raw: " 9 ", want: 9},
		{name: "zero", raw: "0", wantErr: true},
		{name: "negative", raw: "-3", wantErr: true},
		{name: "not a number", raw: "SHP-1", wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := parseID(testCase.raw, "shipment id")
			if testCase.wantErr {
				if err == nil {
					t.Fatalf("parseID(%q) expected error", testCase.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseID(%q) error = %v", testCase.raw, err)
			}
			if got != testCase.want {
				t.Fatalf("parseID(%q) = %d, want %d", testCase.raw, got, testCase.want)
			}
		})
	}
}

func TestStringFlagOnlyWhenChanged(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("email", "", "")
	cmd.Flags().String("phone", "", "")
	if err := cmd.Flags().Parse([]string{"--email", ""}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := stringFlag(cmd, "phone"); got != nil {
		t.Fatalf("stringFlag(phone) = %q, want nil", *got)
	}
	got := stringFlag(cmd, "email")
	if got == nil || *got != "" {
		t.Fatalf("stringFlag(email) = %v, want pointer to empty string", got)
	}
}

func TestOptionalIDIgnoresNonPositive(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Int64("user", 0, "")
	cmd.Flags().Int64("resource-id", 0, "")
	if err := cmd.Flags().Parse([]string{"--resource-id", "12"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := optionalID(cmd, "user"); got != nil {
		t.Fatalf("optionalID(user) = %d, want nil", *got)
	}
	if got := optionalID(cmd, "resource-id"); got == nil || *got != 12 {
		t.Fatalf("optionalID(resource-id) = %v, want 12", got)
	}
}

func TestShipmentWatcherReportsNewAndMovedShipments(t *testing.T) {
	watcher := &shipmentWatcher{seen: map[int64]shipment.Status{}}

	first := watcher.changed([]shipment.Shipment{
		{ID: 2, Status: shipment.StatusInTransit},
		{ID: 1, Status: shipment.StatusPending},
	})
	if len(first) != 2 || first[0].ID != 1 || first[1].ID != 2 {
		t.Fatalf("first poll = %+v, want ids [1 2]", first)
	}

	second := watcher.changed([]shipment.Shipment{
		{ID: 2, Status: shipment.StatusDelivered},
		{ID: 1, Status: shipment.StatusPending},
	})
	if len(second) != 1 || second[0].ID != 2 || second[0].Status != shipment.StatusDelivered {
		t.Fatalf("second poll = %+v, want only shipment 2 delivered", second)
	}

	if third := watcher.changed(nil); len(third) != 0 {
		t.Fatalf("empty poll = %+v, want nothing", third)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestPrintWatchedShipmentsReportsWriteFailure(t *testing.T) {
	items := []shipment.Shipment{{ID: 1, ShipmentNumber: "SHP-1", Status: shipment.StatusPending}}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := printWatchedShipments(cmd, items); err != nil {
		t.Fatalf("printWatchedShipments() error = %v", err)
	}
	if !strings.Contains(out.String(), "SHP-1") {
		t.Fatalf("output = %q, want SHP-1", out.String())
	}

	cmd.SetOut(failingWriter{})
	if err := printWatchedShipments(cmd, items); err == nil {
		t.Fatalf("printWatchedShipments() error = nil, want write failure")
	}
}

func TestUnreadWatcherReportsOnlyChanges(t *testing.T) {
	watcher := &unreadWatcher{}

	testCases := []struct {
		count int
		want  bool
	}{
		{count: 0, want: true},
		{count: 0, want: false},
		{count: 2, want: true},
		{count: 2, want: false},
		{count: 1, want: true},
	}

	for index, testCase := range testCases {
		if got := watcher.changed(testCase.count); got != testCase.want {
			t.Fatalf("poll %d changed(%d) = %v, want %v", index, testCase.count, got, testCase.want)
		}
	}
}
