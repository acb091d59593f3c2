// Package logfile extracts key/value metric samples from per-run log files
// written by the simulation harness.
package logfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// StatsExt selects the "key = value" line convention. Every other extension
// uses "key value" lines whose value is a single token.
const StatsExt = "stats"

// maxLineBytes bounds a single log line; array metrics can be long.
const maxLineBytes = 16 * 1024 * 1024

// Record maps metric keys to raw value strings from one log file.
type Record map[string]string

// ParseLogFile reads path and returns its key/value pairs.
//
// When targetKeys is non-empty, reading stops as soon as every target key has
// been seen; later lines cannot change the caller's view of those keys.
func ParseLogFile(path, ext string, targetKeys []string) (Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	parse := parseSpaceLine
	if ext == StatsExt {
		parse = parseStatsLine
	}

	var remaining map[string]struct{}
	if len(targetKeys) > 0 {
		remaining = make(map[string]struct{}, len(targetKeys))
		for _, k := range targetKeys {
			remaining[k] = struct{}{}
		}
	}

	records := make(Record)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		key, value, ok := parse(scanner.Text())
		if !ok {
			continue
		}
		records[key] = value

		if remaining == nil {
			continue
		}
		if _, wanted := remaining[key]; wanted {
			delete(remaining, key)
			if len(remaining) == 0 {
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file %s: %w", path, err)
	}
	return records, nil
}

// parseStatsLine splits "key = value" at the first '='.
func parseStatsLine(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

// parseSpaceLine splits "key value" at the first space. Lines whose value
// holds another space are not simple metrics and are rejected.
func parseSpaceLine(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, " ")
	if !ok || strings.Contains(value, " ") {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
