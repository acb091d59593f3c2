package rollup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rollup/rollup/defs"
	"github.com/inference-sim/rollup/rollup/logfile"
	"github.com/inference-sim/rollup/rollup/summary"
)

// missingValue is reported for a metric whose log or key was not found.
const missingValue = "0"

// Options controls where and how per-run logs are located.
type Options struct {
	Extension string // log file extension without the dot, e.g. "out" or "stats"
	LogDir    string // directory holding the logs; "" means the working directory
	Workers   int    // concurrent traces; <= 0 uses runtime.NumCPU()
}

// Row is one CSV line: a trace/experiment pair and its metric values.
type Row struct {
	Trace  string
	Exp    string
	Values []string // one per metric, in definition order
	Passed bool     // shared by all rows of the same trace
}

// TraceRollup holds every row for one trace.
type TraceRollup struct {
	Index  int // position in the trace list
	Trace  string
	Rows   []Row
	Passed bool
}

// LogPath returns the log file for a trace/experiment pair.
func LogPath(opts Options, trace, exp string) string {
	return filepath.Join(opts.LogDir, fmt.Sprintf("%s_%s.%s", trace, exp, opts.Extension))
}

// ComputeTraceRollup summarizes every experiment of one trace.
//
// A missing log or metric yields "0" and clears the trace flag. Summarizer
// errors are returned; so is ctx.Err() if the run was cancelled.
func ComputeTraceRollup(ctx context.Context, trace defs.Trace, exps []defs.Experiment, metrics []defs.MetricDef, opts Options) (TraceRollup, error) {
	name := trace.Name()
	names := defs.MetricNames(metrics)
	result := TraceRollup{Trace: name, Rows: make([]Row, 0, len(exps))}
	allPassed := true

	for _, exp := range exps {
		if err := ctx.Err(); err != nil {
			return TraceRollup{}, err
		}

		values, complete, err := experimentValues(LogPath(opts, name, exp.Name), opts.Extension, metrics, names)
		if err != nil {
			return TraceRollup{}, fmt.Errorf("trace %s, exp %s: %w", name, exp.Name, err)
		}
		if !complete {
			allPassed = false
		}
		result.Rows = append(result.Rows, Row{Trace: name, Exp: exp.Name, Values: values})
	}

	// The flag is only known once every experiment has been read.
	result.Passed = allPassed
	for i := range result.Rows {
		result.Rows[i].Passed = allPassed
	}
	return result, nil
}

// experimentValues reads one log and summarizes each metric.
// complete is false if the log or any metric was missing.
func experimentValues(path, ext string, metrics []defs.MetricDef, names []string) ([]string, bool, error) {
	values := make([]string, len(metrics))

	if _, err := os.Stat(path); err != nil {
		if !isMissing(err) {
			return nil, false, fmt.Errorf("checking log file: %w", err)
		}
		logrus.Debugf("log file %s not found; reporting zeros", path)
		for i := range values {
			values[i] = missingValue
		}
		return values, false, nil
	}

	record, err := logfile.ParseLogFile(path, ext, names)
	if err != nil {
		return nil, false, err
	}

	complete := true
	for i, m := range metrics {
		raw, ok := record[m.Name]
		if !ok {
			logrus.Debugf("metric %s missing from %s", m.Name, path)
			values[i] = missingValue
			complete = false
			continue
		}
		v, err := summary.Summarize(m.Type, raw)
		if err != nil {
			return nil, false, fmt.Errorf("metric %s: %w", m.Name, err)
		}
		values[i] = v
	}
	return values, complete, nil
}

// isMissing reports whether a stat error means the log does not exist.
// ENOTDIR covers trace names whose directory part is a regular file.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
