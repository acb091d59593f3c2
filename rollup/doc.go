// Package rollup aggregates per-run simulation logs into a trace × experiment
// × metric CSV matrix.
//
// # Pipeline
//
// Run parses the three definition files (package defs), then Schedule computes
// one TraceRollup per trace on a bounded worker pool. Each rollup walks the
// experiments in order, reads <trace>_<exp>.<ext> (package logfile) and
// reduces every metric (package summary). WriteCSV emits the rows only after
// every trace has finished, in trace-list order.
//
// # Completeness
//
// A trace passes when every experiment log exists and holds every metric.
// Missing logs or metrics are reported as "0" and clear the trace's Filter
// flag; they never abort the run. Malformed samples and unknown metric types
// do abort it.
package rollup
