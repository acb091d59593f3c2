// Package defs parses the three flat definition files that drive a rollup:
// the trace list, the experiment list and the metric list.
// This package has no dependencies on the rest of rollup beyond metric type names.
package defs

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// maxLineBytes bounds a single definition line.
const maxLineBytes = 16 * 1024 * 1024

// newLineScanner returns a line scanner whose buffer grows up to maxLineBytes.
func newLineScanner(file *os.File) *bufio.Scanner {
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

// NameKey is the trace key whose repetition starts a new trace block.
const NameKey = "NAME"

// Trace is one trace-list block: arbitrary KEY=VALUE metadata including NAME.
type Trace map[string]string

// Name returns the NAME value, or "" if the block did not declare one.
func (t Trace) Name() string {
	return t[NameKey]
}

// traceState tracks whether a block is being accumulated.
type traceState int

const (
	noRecord traceState = iota
	building
)

// traceAccumulator groups KEY=VALUE lines into blocks.
// A NAME key while building flushes the current block; finish flushes the last one.
type traceAccumulator struct {
	state   traceState
	current Trace
	traces  []Trace
}

func (a *traceAccumulator) add(key, value string) {
	if key == NameKey && a.state == building {
		a.traces = append(a.traces, a.current)
		a.state = noRecord
	}
	if a.state == noRecord {
		a.current = make(Trace)
		a.state = building
	}
	a.current[key] = value
}

func (a *traceAccumulator) finish() []Trace {
	if a.state == building {
		a.traces = append(a.traces, a.current)
		a.current = nil
		a.state = noRecord
	}
	return a.traces
}

// ParseTraceFile reads a trace list file.
// Blank lines and lines without '=' are skipped. Keys and values are taken
// verbatim around the first '='.
func ParseTraceFile(path string) ([]Trace, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var acc traceAccumulator
	scanner := newLineScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		acc.add(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace file %s: %w", path, err)
	}
	return acc.finish(), nil
}
