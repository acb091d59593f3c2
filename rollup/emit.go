package rollup

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inference-sim/rollup/rollup/defs"
)

// Header returns the CSV header: Trace,Exp,<metrics...>,Filter.
func Header(metrics []defs.MetricDef) []string {
	header := make([]string, 0, len(metrics)+3)
	header = append(header, "Trace", "Exp")
	header = append(header, defs.MetricNames(metrics)...)
	return append(header, "Filter")
}

// Fields returns the row's CSV fields; the flag is "1" or "0".
func (r Row) Fields() []string {
	fields := make([]string, 0, len(r.Values)+3)
	fields = append(fields, r.Trace, r.Exp)
	fields = append(fields, r.Values...)
	if r.Passed {
		return append(fields, "1")
	}
	return append(fields, "0")
}

// WriteCSV writes the header and every row in order. Fields are joined with
// bare commas; array values keep their embedded commas unquoted.
func WriteCSV(w io.Writer, metrics []defs.MetricDef, rollups []TraceRollup) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, strings.Join(Header(metrics), ",")); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, tr := range rollups {
		for _, row := range tr.Rows {
			if _, err := fmt.Fprintln(bw, strings.Join(row.Fields(), ",")); err != nil {
				return fmt.Errorf("writing CSV row %s/%s: %w", row.Trace, row.Exp, err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
