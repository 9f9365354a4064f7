package filter

import (
	"fmt"

	"github.com/huangsam/touchline/core"
)

// SavgolLowpass smooths xy with a Savitzky-Golay filter that fits a polynomial of degree
// polyOrder to a sliding window of windowLength frames. The window must be odd and longer
// than polyOrder. The first and last half windows are evaluated on the polynomial fitted
// to the first and last full window. Runs not longer than the window are not filtered.
func SavgolLowpass(xy *core.XY, windowLength, polyOrder int, opts ...Option) (*core.XY, error) {
	if windowLength < 1 || windowLength%2 == 0 {
		return nil, fmt.Errorf("%w: window length must be a positive odd number, got %d", core.ErrInvalidArgument, windowLength)
	}
	if polyOrder < 0 || polyOrder >= windowLength {
		return nil, fmt.Errorf("%w: polynomial order must be in [0, %d), got %d", core.ErrInvalidArgument, windowLength, polyOrder)
	}
	hat, err := savgolProjection(windowLength, polyOrder)
	if err != nil {
		return nil, err
	}
	half := windowLength / 2
	smooth := func(x []float64) []float64 {
		n := len(x)
		out := make([]float64, n)
		for i := range n {
			// row of the projection and the window it applies to
			k, start := half, i-half
			switch {
			case i < half:
				k, start = i, 0
			case i >= n-half:
				k, start = windowLength-(n-i), n-windowLength
			}
			var sum float64
			for m, w := range hat[k] {
				sum += w * x[start+m]
			}
			out[i] = sum
		}
		return out
	}
	return apply(xy, windowLength, smooth, applyOptions(opts))
}

// savgolProjection returns the least-squares projection onto polynomials of degree
// polyOrder sampled at windowLength centered positions. Row k holds the weights that
// estimate the fitted value at position k from the window.
func savgolProjection(windowLength, polyOrder int) ([][]float64, error) {
	half := float64(windowLength / 2)
	terms := polyOrder + 1
	vander := make([][]float64, windowLength)
	for i := range vander {
		vander[i] = make([]float64, terms)
		p, pos := 1.0, float64(i)-half
		for d := range terms {
			vander[i][d] = p
			p *= pos
		}
	}
	// normal equations: (A^T A) C = A^T, so C maps a window to polynomial coefficients
	gram := make([][]float64, terms)
	rhs := make([][]float64, terms)
	for a := range terms {
		gram[a] = make([]float64, terms)
		rhs[a] = make([]float64, windowLength)
		for b := range terms {
			for i := range windowLength {
				gram[a][b] += vander[i][a] * vander[i][b]
			}
		}
		for i := range windowLength {
			rhs[a][i] = vander[i][a]
		}
	}
	coef, err := solve(gram, rhs)
	if err != nil {
		return nil, err
	}
	hat := make([][]float64, windowLength)
	for k := range windowLength {
		hat[k] = make([]float64, windowLength)
		for i := range windowLength {
			for d := range terms {
				hat[k][i] += vander[k][d] * coef[d][i]
			}
		}
	}
	return hat, nil
}
