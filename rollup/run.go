package rollup

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rollup/rollup/defs"
	"github.com/inference-sim/rollup/rollup/summary"
)

// DefaultExtension is the log file extension used when none is configured.
const DefaultExtension = "out"

// Config gathers everything a rollup run consumes.
type Config struct {
	TraceFile  string
	ExpFile    string
	MetricFile string
	Options
}

// Definitions holds the parsed definition files.
type Definitions struct {
	Traces      []defs.Trace
	Experiments []defs.Experiment
	Metrics     []defs.MetricDef
}

// LoadDefinitions parses the trace, experiment and metric files.
func LoadDefinitions(cfg Config) (*Definitions, error) {
	traces, err := defs.ParseTraceFile(cfg.TraceFile)
	if err != nil {
		return nil, err
	}
	exps, err := defs.ParseExpFile(cfg.ExpFile)
	if err != nil {
		return nil, err
	}
	metrics, err := defs.ParseMetricFile(cfg.MetricFile)
	if err != nil {
		return nil, err
	}

	for _, m := range metrics {
		if !summary.IsValidMetricType(string(m.Type)) {
			logrus.Warnf("metric %s has unknown type %q; the run aborts if a value for it is found", m.Name, m.Type)
		}
	}
	logrus.Infof("Loaded %d traces, %d experiments, %d metrics", len(traces), len(exps), len(metrics))
	return &Definitions{Traces: traces, Experiments: exps, Metrics: metrics}, nil
}

// Run parses the definitions, computes every trace rollup and writes the CSV
// to w. Nothing is written unless every trace succeeds.
func Run(ctx context.Context, cfg Config, w io.Writer) error {
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}

	d, err := LoadDefinitions(cfg)
	if err != nil {
		return err
	}
	rollups, err := Schedule(ctx, d.Traces, d.Experiments, d.Metrics, cfg.Options)
	if err != nil {
		return fmt.Errorf("computing rollups: %w", err)
	}
	return WriteCSV(w, d.Metrics, rollups)
}
