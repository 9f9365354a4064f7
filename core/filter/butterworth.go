package filter

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/huangsam/touchline/core"
)

// ButterworthLowpass smooths xy with a digital Butterworth low-pass filter of the given
// order and cutoff frequency in Hz, applied forward and backward so the result has no
// phase shift. The cutoff must lie strictly between zero and half the framerate. Runs not
// longer than 3*(order+1) frames are not filtered.
func ButterworthLowpass(xy *core.XY, order int, cutoff float64, opts ...Option) (*core.XY, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: filter order must be at least 1, got %d", core.ErrInvalidArgument, order)
	}
	nyquist := xy.Framerate() / 2
	if !(cutoff > 0 && cutoff < nyquist) {
		return nil, fmt.Errorf("%w: cutoff must be in (0, %g) Hz, got %g", core.ErrInvalidArgument, nyquist, cutoff)
	}
	b, a := butter(order, cutoff/nyquist)
	zi, err := steadyState(b, a)
	if err != nil {
		return nil, err
	}
	pad := 3 * (order + 1)
	smooth := func(x []float64) []float64 {
		return filtfilt(b, a, zi, x, pad)
	}
	return apply(xy, pad, smooth, applyOptions(opts))
}

// butter designs a low-pass filter with normalized cutoff wn in (0, 1), where 1 is the
// Nyquist frequency, and returns numerator and denominator coefficients.
func butter(order int, wn float64) ([]float64, []float64) {
	// pre-warped analog cutoff for a bilinear transform at a sample rate of 2
	const fs2 = 4.0
	warped := fs2 * math.Tan(math.Pi*wn/2)

	poles := make([]complex128, order)
	gain := 1.0
	denom := complex(1, 0)
	for k := range order {
		theta := math.Pi * float64(2*k-order+1) / float64(2*order)
		p := -cmplx.Exp(complex(0, theta)) * complex(warped, 0)
		gain *= warped
		denom *= complex(fs2, 0) - p
		poles[k] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
	}
	gain *= real(1 / denom)

	zeros := make([]complex128, order)
	for k := range zeros {
		zeros[k] = -1
	}
	b := polyFromRoots(zeros)
	for i := range b {
		b[i] *= gain
	}
	return b, polyFromRoots(poles)
}

// polyFromRoots expands prod(x - r) and returns the real parts of its coefficients,
// highest power first.
func polyFromRoots(roots []complex128) []float64 {
	c := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(c)+1)
		for i, v := range c {
			next[i] += v
			next[i+1] -= v * r
		}
		c = next
	}
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = real(v)
	}
	return out
}

// steadyState returns the initial delay state for a unit step input, so a constant signal
// passes through lfilter without a transient.
func steadyState(b, a []float64) ([]float64, error) {
	n := len(a) - 1
	if n == 0 {
		return nil, nil
	}
	// (I - companion(a)^T) zi = b[1:] - a[1:]*b[0]
	m := make([][]float64, n)
	rhs := make([][]float64, n)
	for i := range n {
		m[i] = make([]float64, n)
		m[i][i] = 1
		m[i][0] += a[i+1]
		if i+1 < n {
			m[i][i+1] -= 1
		}
		rhs[i] = []float64{b[i+1] - a[i+1]*b[0]}
	}
	sol, err := solve(m, rhs)
	if err != nil {
		return nil, err
	}
	zi := make([]float64, n)
	for i := range n {
		zi[i] = sol[i][0]
	}
	return zi, nil
}

// lfilter runs a direct form II transposed filter over x starting from state z.
func lfilter(b, a, z, x []float64) []float64 {
	n := len(a) - 1
	state := make([]float64, n)
	copy(state, z)
	out := make([]float64, len(x))
	for t, v := range x {
		y := b[0]*v + state[0]
		for i := range n - 1 {
			state[i] = b[i+1]*v - a[i+1]*y + state[i+1]
		}
		state[n-1] = b[n]*v - a[n]*y
		out[t] = y
	}
	return out
}

// filtfilt filters x forward then backward after padding both ends with pad samples of
// odd extension.
func filtfilt(b, a, zi, x []float64, pad int) []float64 {
	n := len(x)
	ext := make([]float64, 0, n+2*pad)
	for i := pad; i > 0; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := n - 2; i >= n-1-pad; i-- {
		ext = append(ext, 2*x[n-1]-x[i])
	}

	scaled := func(s float64) []float64 {
		out := make([]float64, len(zi))
		for i, v := range zi {
			out[i] = v * s
		}
		return out
	}
	y := lfilter(b, a, scaled(ext[0]), ext)
	slices.Reverse(y)
	y = lfilter(b, a, scaled(y[0]), y)
	slices.Reverse(y)
	return y[pad : pad+n]
}
