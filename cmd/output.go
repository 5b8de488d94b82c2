package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"freightdesk/internal/errs"
)

var outputFormat string

// table is the tabular rendering of a value for -o table.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// fields renders a single record as field/value pairs.
func fields(pairs ...string) table {
	out := table{header: []string{"field", "value"}}
	for index := 0; index+1 < len(pairs); index += 2 {
		out.add(pairs[index], pairs[index+1])
	}
	return out
}

// render writes value in the selected output format. asTable is only called
// for table output.
func render(cmd *cobra.Command, value any, asTable func() table) error {
	w := cmd.OutOrStdout()
	switch strings.ToLower(strings.TrimSpace(outputFormat)) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(value); err != nil {
			return errs.Wrap(err, "write json output")
		}
		return nil
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return errs.Wrap(err, "write yaml output")
		}
		if err := encoder.Close(); err != nil {
			return errs.Wrap(err, "flush yaml output")
		}
		return nil
	case "", "table":
		return writeTable(w, asTable())
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", outputFormat)
	}
}

func isTableOutput() bool {
	format := strings.ToLower(strings.TrimSpace(outputFormat))
	return format == "" || format == "table"
}

func writeTable(out io.Writer, t table) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if len(t.header) > 0 {
		if _, err := fmt.Fprintln(w, strings.Join(t.header, "\t")); err != nil {
			return errs.Wrap(err, "write table header")
		}
	}
	for _, row := range t.rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return errs.Wrap(err, "write table row")
		}
	}
	if err := w.Flush(); err != nil {
		return errs.Wrap(err, "flush table")
	}
	return nil
}

func printf(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		return errs.Wrap(err, "write output")
	}
	return nil
}

func parseID(raw string, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func optionalID(cmd *cobra.Command, flag string) *int64 {
	value, _ := cmd.Flags().GetInt64(flag)
	if value <= 0 {
		return nil
	}
	return &value
}

func orDash(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "-"
	}
	return *value
}

func itoa(value int64) string {
	return strconv.FormatInt(value, 10)
}
