package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/schema"
)

var nanTolerant = cmp.Options{cmpopts.EquateNaNs(), cmpopts.EquateApprox(0, 1e-9)}

// rampXY builds frames x (2*n) coordinates where entry (t, c) = t*10 + c.
func rampXY(t *testing.T, frames, n int, framerate float64) *XY {
	t.Helper()
	matrix := make([][]float64, frames)
	for f := range frames {
		row := make([]float64, 2*n)
		for c := range row {
			row[c] = float64(f*10 + c)
		}
		matrix[f] = row
	}
	xy, err := NewXY(matrix, framerate)
	require.NoError(t, err)
	return xy
}

func TestNewXY(t *testing.T) {
	t.Run("valid matrix", func(t *testing.T) {
		xy, err := NewXY([][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}}, 25, WithDirection(schema.LeftToRight))
		require.NoError(t, err)
		assert.Equal(t, 2, xy.Len())
		assert.Equal(t, 2, xy.N())
		assert.Equal(t, 25.0, xy.Framerate())
		assert.Equal(t, schema.LeftToRight, xy.Direction())
	})

	t.Run("odd column count", func(t *testing.T) {
		_, err := NewXY([][]float64{{1, 2, 3, 4, 5}}, 25)
		assert.ErrorIs(t, err, ErrShape)
	})

	t.Run("ragged rows", func(t *testing.T) {
		_, err := NewXY([][]float64{{1, 2}, {1, 2, 3, 4}}, 25)
		assert.ErrorIs(t, err, ErrShape)
	})

	t.Run("non-positive framerate", func(t *testing.T) {
		_, err := NewXY([][]float64{{1, 2}}, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("flat data", func(t *testing.T) {
		xy, err := NewXYFromFlat([]float64{1, 2, 3, 4, 5, 6}, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, 3, xy.Len())
		_, err = NewXYFromFlat([]float64{1, 2, 3}, 2, 10)
		assert.ErrorIs(t, err, ErrShape)
	})

	t.Run("input is copied", func(t *testing.T) {
		matrix := [][]float64{{1, 2}}
		xy, err := NewXY(matrix, 10)
		require.NoError(t, err)
		matrix[0][0] = 99
		x, _, err := xy.Point(0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1.0, x)
	})
}

func TestXYAccessors(t *testing.T) {
	xy := rampXY(t, 3, 2, 5)

	frame, err := xy.Frame(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 12, 13}, frame)

	_, err = xy.Frame(3)
	assert.ErrorIs(t, err, ErrRange)

	x, y, err := xy.Point(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 22.0, x)
	assert.Equal(t, 23.0, y)

	xs, err := xy.Coordinate(schema.AxisX)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 2}, {10, 12}, {20, 22}}, xs)
	assert.Equal(t, [][]float64{{1, 3}, {11, 13}, {21, 23}}, xy.Y())

	_, err = xy.Coordinate(schema.AxisBoth)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	one, err := xy.Select(1)
	require.NoError(t, err)
	assert.Equal(t, 1, one.N())
	assert.Equal(t, [][]float64{{2, 3}, {12, 13}, {22, 23}}, one.Raw())

	_, err = xy.Select(2)
	assert.ErrorIs(t, err, ErrRange)

	track, _, err := xy.EntityTrack(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 20}, track)
}

func TestXYSlice(t *testing.T) {
	xy := rampXY(t, 10, 2, 25)
	raw := xy.Raw()

	tests := []struct {
		name       string
		start, end int
		wantStart  int
		wantEnd    int
		expectErr  bool
	}{
		{name: "inner range", start: 2, end: 5, wantStart: 2, wantEnd: 5},
		{name: "clamped below", start: -4, end: 3, wantStart: 0, wantEnd: 3},
		{name: "clamped above", start: 7, end: 100, wantStart: 7, wantEnd: 10},
		{name: "empty range", start: 5, end: 5, expectErr: true},
		{name: "inverted range", start: 6, end: 2, expectErr: true},
		{name: "fully outside", start: 12, end: 20, expectErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := xy.Slice(tt.start, tt.end)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnd-tt.wantStart, out.Len())
			assert.Equal(t, raw[tt.wantStart:tt.wantEnd], out.Raw())
			assert.Equal(t, 10, xy.Len(), "source must be untouched")
		})
	}

	t.Run("in place", func(t *testing.T) {
		src := rampXY(t, 10, 1, 25)
		out, err := src.Slice(0, 4, InPlace())
		require.NoError(t, err)
		assert.Same(t, src, out)
		assert.Equal(t, 4, src.Len())
	})
}

func TestXYTransforms(t *testing.T) {
	nan := math.NaN()
	base, err := NewXY([][]float64{{1, 2, nan, 4}, {-3, 0.5, 7, nan}}, 10)
	require.NoError(t, err)

	t.Run("translate round trip", func(t *testing.T) {
		out := base.Translate(3.5, -2).Translate(-3.5, 2)
		assert.True(t, cmp.Equal(base.Raw(), out.Raw(), nanTolerant), cmp.Diff(base.Raw(), out.Raw(), nanTolerant))
	})

	t.Run("rotate round trip", func(t *testing.T) {
		clean := rampXY(t, 5, 3, 10)
		for _, theta := range []float64{0, 12.5, 90, 180, 271, -45} {
			out := clean.Rotate(theta).Rotate(-theta)
			assert.True(t, cmp.Equal(clean.Raw(), out.Raw(), nanTolerant), "theta=%v %s", theta,
				cmp.Diff(clean.Raw(), out.Raw(), nanTolerant))
		}
	})

	t.Run("rotate is counterclockwise about origin", func(t *testing.T) {
		xy, err := NewXY([][]float64{{1, 0}}, 1)
		require.NoError(t, err)
		x, y, err := xy.Rotate(90).Point(0, 0)
		require.NoError(t, err)
		assert.InDelta(t, 0, x, 1e-12)
		assert.InDelta(t, 1, y, 1e-12)
	})

	t.Run("missing values propagate", func(t *testing.T) {
		scaled, err := base.Scale(2, schema.AxisBoth)
		require.NoError(t, err)
		for _, out := range []*XY{base.Translate(1, 1), base.Rotate(33), scaled} {
			raw := out.Raw()
			assert.True(t, math.IsNaN(raw[0][2]))
			assert.True(t, math.IsNaN(raw[1][3]))
		}
	})

	t.Run("scale per axis", func(t *testing.T) {
		out, err := base.Scale(2, schema.AxisX)
		require.NoError(t, err)
		x, y, _ := out.Point(0, 0)
		assert.Equal(t, 2.0, x)
		assert.Equal(t, 2.0, y)
		_, err = base.Scale(2, "z")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("reflect", func(t *testing.T) {
		onX, err := base.Reflect(schema.AxisX)
		require.NoError(t, err)
		x, y, _ := onX.Point(0, 0)
		assert.Equal(t, []float64{1, -2}, []float64{x, y})

		onY, err := base.Reflect(schema.AxisY)
		require.NoError(t, err)
		x, y, _ = onY.Point(0, 0)
		assert.Equal(t, []float64{-1, 2}, []float64{x, y})

		_, err = base.Reflect(schema.AxisBoth)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("copy shares no storage", func(t *testing.T) {
		src := rampXY(t, 2, 1, 10)
		out := src.Translate(1, 1)
		x, _, _ := src.Point(0, 0)
		assert.Equal(t, 0.0, x)
		out.Translate(5, 5, InPlace())
		x, _, _ = src.Point(0, 0)
		assert.Equal(t, 0.0, x)
	})

	t.Run("in place returns receiver", func(t *testing.T) {
		src := rampXY(t, 2, 1, 10)
		assert.Same(t, src, src.Translate(1, 0, InPlace()).Rotate(10, InPlace()))
	})
}

func TestXYMasking(t *testing.T) {
	t.Run("code mask selects first half", func(t *testing.T) {
		xy := rampXY(t, 100, 2, 5)
		values := make([]float64, 100)
		for i := range values {
			values[i] = 1
			if i >= 50 {
				values[i] = 2
			}
		}
		code, err := NewCode(values, "possession", 5)
		require.NoError(t, err)

		out, err := xy.FilterCode(code, 1)
		require.NoError(t, err)
		assert.Equal(t, 50, out.Len())
		assert.Equal(t, xy.Raw()[:50], out.Raw())
	})

	t.Run("length mismatch", func(t *testing.T) {
		xy := rampXY(t, 10, 1, 5)
		code, err := NewCode(make([]float64, 9), "short", 5)
		require.NoError(t, err)
		_, err = xy.Filter(code.Equals(0))
		assert.ErrorIs(t, err, ErrLengthMismatch)
		_, err = xy.FilterCode(code, 0)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("framerate mismatch", func(t *testing.T) {
		xy := rampXY(t, 10, 1, 5)
		code, err := NewCode(make([]float64, 10), "other rate", 25)
		require.NoError(t, err)
		_, err = xy.FilterCode(code, 0)
		assert.ErrorIs(t, err, ErrFramerateMismatch)
	})

	t.Run("empty selection", func(t *testing.T) {
		xy := rampXY(t, 4, 1, 5)
		out, err := xy.Filter(make(Mask, 4))
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
	})

	t.Run("mask entities", func(t *testing.T) {
		xy := rampXY(t, 3, 3, 5)
		out, err := xy.MaskEntities([]int{1})
		require.NoError(t, err)
		assert.Equal(t, xy.N(), out.N())
		for f := range out.Len() {
			x, y, _ := out.Point(f, 1)
			assert.True(t, IsMissing(x) && IsMissing(y))
			x0, _, _ := out.Point(f, 0)
			want, _, _ := xy.Point(f, 0)
			assert.Equal(t, want, x0)
		}
		x, _, _ := xy.Point(0, 1)
		assert.False(t, IsMissing(x), "source is untouched")

		_, err = xy.MaskEntities([]int{3})
		assert.ErrorIs(t, err, ErrRange)
	})
}
