// Package summary reduces raw comma-separated metric samples to a single value.
// It has no dependencies on the other rollup packages.
package summary

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MetricType names the statistic used to summarize a metric.
type MetricType string

const (
	// Array passes the raw value through unchanged.
	Array MetricType = "array"
	Sum   MetricType = "sum"
	Mean  MetricType = "mean"
	// NZMean is the mean over non-empty samples only.
	NZMean            MetricType = "nzmean"
	Min               MetricType = "min"
	Max               MetricType = "max"
	StandardDeviation MetricType = "standard_deviation"
	Variance          MetricType = "variance"
)

var validMetricTypes = map[MetricType]bool{
	Array:             true,
	Sum:               true,
	Mean:              true,
	NZMean:            true,
	Min:               true,
	Max:               true,
	StandardDeviation: true,
	Variance:          true,
}

// IsValidMetricType returns true if the given string is a recognized metric type.
func IsValidMetricType(t string) bool {
	return validMetricTypes[MetricType(t)]
}

// ErrUnknownMetricType is returned by Summarize for a type outside the known set.
var ErrUnknownMetricType = errors.New("invalid summary type")

// ParseError reports a sample token that is not a floating-point number.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not convert %q to float: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Summarize reduces raw according to t and returns the formatted result.
// Array values are returned verbatim. An empty sample set yields "0".
func Summarize(t MetricType, raw string) (string, error) {
	if t == Array {
		return raw, nil
	}

	data, err := samples(raw, t != NZMean)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "0", nil
	}

	var value float64
	switch t {
	case Sum:
		value = floats.Sum(data)
	case Mean, NZMean:
		value = stat.Mean(data, nil)
	case Min:
		value = floats.Min(data)
	case Max:
		value = floats.Max(data)
	case Variance:
		value = sampleVariance(data)
	case StandardDeviation:
		value = math.Sqrt(sampleVariance(data))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetricType, string(t))
	}
	return FormatNumber(value), nil
}

// samples splits raw on commas. Empty tokens become 0 when emptyAsZero is set
// and are dropped otherwise.
func samples(raw string, emptyAsZero bool) ([]float64, error) {
	var values []float64
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			if emptyAsZero {
				values = append(values, 0.0)
			}
			continue
		}
		// Out-of-range tokens keep the ±Inf that ParseFloat returns.
		v, err := strconv.ParseFloat(token, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &ParseError{Token: token, Err: err}
		}
		values = append(values, v)
	}
	return values, nil
}

// sampleVariance is the unbiased (n-1) variance; zero for fewer than two samples.
func sampleVariance(data []float64) float64 {
	if len(data) <= 1 {
		return 0
	}
	return stat.Variance(data, nil)
}
