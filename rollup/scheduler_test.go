package rollup

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rollup/rollup/defs"
	"github.com/inference-sim/rollup/rollup/internal/testutil"
	"github.com/inference-sim/rollup/rollup/summary"
)

func TestSchedule_PreservesTraceOrder_AcrossWorkerCounts(t *testing.T) {
	// GIVEN many traces, each with its own log
	dir := t.TempDir()
	var traces []defs.Trace
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("T%02d", i)
		traces = append(traces, defs.Trace{"NAME": name})
		testutil.WriteFile(t, dir, name+"_E1.out", fmt.Sprintf("m1 %d\n", i))
	}
	exps := []defs.Experiment{{Name: "E1"}}
	metrics := []defs.MetricDef{{Name: "m1", Type: summary.Sum}}

	for _, workers := range []int{1, 3, 16, 0, -1} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			// WHEN scheduled with this pool size
			rollups, err := Schedule(context.Background(), traces, exps, metrics, Options{Extension: "out", LogDir: dir, Workers: workers})

			// THEN results come back in trace-list order
			require.NoError(t, err)
			require.Len(t, rollups, len(traces))
			for i, r := range rollups {
				assert.Equal(t, i, r.Index)
				assert.Equal(t, traces[i].Name(), r.Trace)
				assert.Equal(t, []string{fmt.Sprint(i)}, r.Rows[0].Values)
			}
		})
	}
}

func TestSchedule_ErrorInOneTrace_AbortsRun(t *testing.T) {
	// GIVEN one trace whose log holds a malformed sample
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "good_E1.out", "m1 1\n")
	testutil.WriteFile(t, dir, "bad_E1.out", "m1 oops\n")
	traces := []defs.Trace{{"NAME": "good"}, {"NAME": "bad"}, {"NAME": "good"}}

	// WHEN scheduled
	rollups, err := Schedule(context.Background(), traces, []defs.Experiment{{Name: "E1"}},
		[]defs.MetricDef{{Name: "m1", Type: summary.Sum}}, Options{Extension: "out", LogDir: dir, Workers: 2})

	// THEN no partial results are returned
	var pe *summary.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Nil(t, rollups)
}

func TestSchedule_NoTraces(t *testing.T) {
	rollups, err := Schedule(context.Background(), nil, nil, nil, Options{Extension: "out"})

	require.NoError(t, err)
	assert.Empty(t, rollups)
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 4, WorkerCount(4))
	assert.Equal(t, runtime.NumCPU(), WorkerCount(0))
	assert.Equal(t, runtime.NumCPU(), WorkerCount(-2))
}

func TestCollector_SortsByIndex(t *testing.T) {
	var c collector
	c.add(TraceRollup{Index: 2, Trace: "c"})
	c.add(TraceRollup{Index: 0, Trace: "a"})
	c.add(TraceRollup{Index: 1, Trace: "b"})

	got := c.sorted()

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Trace)
	assert.Equal(t, "b", got[1].Trace)
	assert.Equal(t, "c", got[2].Trace)
}
