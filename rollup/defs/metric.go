package defs

import (
	"fmt"
	"os"
	"strings"

	"github.com/inference-sim/rollup/rollup/summary"
)

// MetricDef names a metric and the statistic used to summarize it.
type MetricDef struct {
	Name string
	Type summary.MetricType
}

// ParseMetricFile reads "name: type" lines. Blank, comment and colon-less
// lines are skipped. Types are not validated here.
func ParseMetricFile(path string) ([]MetricDef, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening metric file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var metrics []MetricDef
	scanner := newLineScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, typ, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		metrics = append(metrics, MetricDef{
			Name: strings.TrimSpace(name),
			Type: summary.MetricType(strings.TrimSpace(typ)),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading metric file %s: %w", path, err)
	}
	return metrics, nil
}

// MetricNames returns the metric names in definition order.
func MetricNames(metrics []MetricDef) []string {
	names := make([]string, len(metrics))
	for i, m := range metrics {
		names[i] = m.Name
	}
	return names
}
