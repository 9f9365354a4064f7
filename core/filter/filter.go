// Package filter smooths tracking data. Each column of an XY is filtered independently
// over its runs of consecutive present values, so gaps never bleed into neighbouring
// frames. Runs too short for the filter are either kept as they are or dropped.
package filter

import (
	"github.com/huangsam/touchline/core"
)

// Option configures a low-pass filter call.
type Option func(*config)

type config struct {
	removeShort bool
}

// RemoveShortSequences sets runs too short to filter to missing instead of keeping them raw.
func RemoveShortSequences() Option {
	return func(c *config) {
		c.removeShort = true
	}
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// run is a half-open span of frames where a column has no missing values.
type run struct {
	start, end int
}

func (r run) len() int { return r.end - r.start }

// presentRuns returns the maximal runs of present values in series.
func presentRuns(series []float64) []run {
	var out []run
	start := -1
	for i, v := range series {
		switch {
		case core.IsMissing(v) && start >= 0:
			out = append(out, run{start, i})
			start = -1
		case !core.IsMissing(v) && start < 0:
			start = i
		}
	}
	if start >= 0 {
		out = append(out, run{start, len(series)})
	}
	return out
}

// apply filters every column of xy with smooth, which receives runs longer than minLen.
func apply(xy *core.XY, minLen int, smooth func([]float64) []float64, cfg config) (*core.XY, error) {
	matrix := xy.Raw()
	cols := 2 * xy.N()
	series := make([]float64, len(matrix))
	for j := range cols {
		for t, row := range matrix {
			series[t] = row[j]
		}
		for _, r := range presentRuns(series) {
			if r.len() > minLen {
				copy(series[r.start:r.end], smooth(series[r.start:r.end]))
				continue
			}
			if cfg.removeShort {
				for t := r.start; t < r.end; t++ {
					series[t] = core.NaN
				}
			}
		}
		for t, row := range matrix {
			row[j] = series[t]
		}
	}
	return core.NewXY(matrix, xy.Framerate(), core.WithDirection(xy.Direction()))
}
