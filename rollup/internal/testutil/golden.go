// Package testutil provides shared test infrastructure for the rollup packages.
// It consolidates fixture writers, golden scenario loading and numeric
// assertion helpers used across rollup/ test packages.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
	return path
}

// GoldenScenario is one directory under testdata/ holding a complete rollup input
// set (traces.tl, exps.exp, metrics.mf, log files) and the expected CSV.
type GoldenScenario struct {
	Dir         string
	TraceFile   string
	ExpFile     string
	MetricFile  string
	ExpectedCSV string
}

// LoadGoldenScenario resolves a scenario relative to this source file:
// rollup/internal/testutil/ → testdata/<name>.
func LoadGoldenScenario(t *testing.T, name string) *GoldenScenario {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	dir := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
	expected, err := os.ReadFile(filepath.Join(dir, "expected.csv"))
	if err != nil {
		t.Fatalf("Failed to read golden CSV for %s: %v", name, err)
	}

	return &GoldenScenario{
		Dir:         dir,
		TraceFile:   filepath.Join(dir, "traces.tl"),
		ExpFile:     filepath.Join(dir, "exps.exp"),
		MetricFile:  filepath.Join(dir, "metrics.mf"),
		ExpectedCSV: string(expected),
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFormattedFloat parses a formatted metric value and compares it to want.
func AssertFormattedFloat(t *testing.T, name string, want float64, got string, relTol float64) {
	t.Helper()
	v, err := strconv.ParseFloat(got, 64)
	if err != nil {
		t.Errorf("%s: %q is not a number: %v", name, got, err)
		return
	}
	AssertFloat64Equal(t, name, want, v, relTol)
}
