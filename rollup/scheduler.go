package rollup

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/rollup/rollup/defs"
)

// collector gathers finished rollups from concurrent workers (goroutine-safe).
type collector struct {
	mu      sync.Mutex
	rollups []TraceRollup
}

func (c *collector) add(r TraceRollup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollups = append(c.rollups, r)
}

// sorted returns the rollups in trace-list order.
func (c *collector) sorted() []TraceRollup {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]TraceRollup, len(c.rollups))
	copy(result, c.rollups)
	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result
}

// WorkerCount resolves the pool size: n if positive, otherwise runtime.NumCPU().
func WorkerCount(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Schedule runs ComputeTraceRollup for every trace on a bounded pool and
// returns the results in trace-list order. Completion order is irrelevant:
// each result carries its trace index and the set is sorted after all tasks
// finish. The first error cancels the remaining tasks and is returned.
func Schedule(ctx context.Context, traces []defs.Trace, exps []defs.Experiment, metrics []defs.MetricDef, opts Options) ([]TraceRollup, error) {
	workers := WorkerCount(opts.Workers)
	logrus.Infof("Rolling up %d traces x %d experiments x %d metrics with %d workers",
		len(traces), len(exps), len(metrics), workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var results collector
	for idx, trace := range traces {
		idx, trace := idx, trace
		g.Go(func() error {
			logrus.Debugf("trace %d (%s): start", idx, trace.Name())
			r, err := ComputeTraceRollup(gctx, trace, exps, metrics, opts)
			if err != nil {
				return err
			}
			r.Index = idx
			results.add(r)
			logrus.Debugf("trace %d (%s): done, passed=%v", idx, trace.Name(), r.Passed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results.sorted(), nil
}
