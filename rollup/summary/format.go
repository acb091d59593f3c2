package summary

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v for the rollup CSV.
//
// Integral values print as plain integers. Other values use the shortest
// representation that parses back to v: positional notation when the decimal
// exponent is in [-4, 16), scientific notation (1e-05) outside it.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		return "0"
	case v == math.Trunc(v):
		return strconv.FormatFloat(v, 'f', 0, 64)
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
	if err == nil && exp >= -4 && exp < 16 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return sci
}
