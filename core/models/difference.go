package models

import (
	"fmt"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

func validateDifference(method schema.Difference) error {
	if _, ok := schema.ValidDifferences[method]; !ok {
		return fmt.Errorf("%w: difference must be %q or %q, got %q", core.ErrInvalidArgument,
			schema.CentralDifference, schema.ForwardDifference, method)
	}
	return nil
}

// differentiate returns the per-frame change of a series. Central differences follow
// gradient semantics: one-sided at both ends, half the central difference inside.
// Forward differences set the last frame to zero.
func differentiate(series []float64, method schema.Difference) []float64 {
	n := len(series)
	out := make([]float64, n)
	if n < 2 {
		for i, v := range series {
			if core.IsMissing(v) {
				out[i] = core.NaN
			}
		}
		return out
	}
	switch method {
	case schema.ForwardDifference:
		for i := range n - 1 {
			out[i] = series[i+1] - series[i]
		}
	default:
		out[0] = series[1] - series[0]
		out[n-1] = series[n-1] - series[n-2]
		for i := 1; i < n-1; i++ {
			out[i] = (series[i+1] - series[i-1]) / 2
		}
	}
	return out
}

// columns splits a frames x N matrix into N series.
func columns(matrix [][]float64, n int) [][]float64 {
	out := make([][]float64, n)
	for j := range n {
		col := make([]float64, len(matrix))
		for t, row := range matrix {
			col[t] = row[j]
		}
		out[j] = col
	}
	return out
}

// rows joins N series into a frames x N matrix.
func rows(series [][]float64, frames int) [][]float64 {
	out := make([][]float64, frames)
	for t := range frames {
		row := make([]float64, len(series))
		for j, s := range series {
			row[j] = s[t]
		}
		out[t] = row
	}
	return out
}
