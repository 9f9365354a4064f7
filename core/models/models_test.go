package models

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

var approx = cmp.Options{cmpopts.EquateNaNs(), cmpopts.EquateApprox(0, 1e-9)}

func mustXY(t *testing.T, matrix [][]float64, framerate float64) *core.XY {
	t.Helper()
	xy, err := core.NewXY(matrix, framerate)
	require.NoError(t, err)
	return xy
}

func TestNotFitted(t *testing.T) {
	_, err := NewDistanceModel(nil).DistanceCovered()
	assert.ErrorIs(t, err, core.ErrNotFitted)
	_, err = NewDistanceModel(nil).CumulativeDistanceCovered()
	assert.ErrorIs(t, err, core.ErrNotFitted)
	_, err = NewVelocityModel(nil).Velocity()
	assert.ErrorIs(t, err, core.ErrNotFitted)
	_, err = NewAccelerationModel(nil).Acceleration()
	assert.ErrorIs(t, err, core.ErrNotFitted)
	_, err = NewCentroidModel().Centroid()
	assert.ErrorIs(t, err, core.ErrNotFitted)
	_, err = NewConvexHullModel().AreaConvexHull()
	assert.ErrorIs(t, err, core.ErrNotFitted)
}

func TestDifferentiate(t *testing.T) {
	series := []float64{0, 1, 4, 9}
	assert.Equal(t, []float64{1, 2, 4, 5}, differentiate(series, schema.CentralDifference))
	assert.Equal(t, []float64{1, 3, 5, 0}, differentiate(series, schema.ForwardDifference))
	assert.Equal(t, []float64{0}, differentiate([]float64{3}, schema.CentralDifference))
	assert.Empty(t, differentiate(nil, schema.CentralDifference))
}

func TestDistanceModel(t *testing.T) {
	nan := math.NaN()
	// entity 0 runs along x at 3 units per frame; entity 1 follows a 3-4-5 step then drops out
	xy := mustXY(t, [][]float64{
		{0, 0, 0, 0},
		{3, 0, 3, 4},
		{6, 0, nan, nan},
	}, 10)

	t.Run("forward in meters", func(t *testing.T) {
		m := NewDistanceModel(nil)
		require.NoError(t, m.Fit(xy, schema.ForwardDifference, schema.AxisBoth))
		got, err := m.DistanceCovered()
		require.NoError(t, err)
		want := [][]float64{{3, 5}, {3, nan}, {0, 0}}
		assert.True(t, cmp.Equal(want, got.Raw(), approx), cmp.Diff(want, got.Raw(), approx))

		cum, err := m.CumulativeDistanceCovered()
		require.NoError(t, err)
		wantCum := [][]float64{{3, 5}, {6, 5}, {6, 5}}
		assert.True(t, cmp.Equal(wantCum, cum.Raw(), approx), cmp.Diff(wantCum, cum.Raw(), approx))
	})

	t.Run("central on x axis", func(t *testing.T) {
		m := NewDistanceModel(nil)
		require.NoError(t, m.Fit(xy, schema.CentralDifference, schema.AxisX))
		got, err := m.DistanceCovered()
		require.NoError(t, err)
		want := [][]float64{{3, 3}, {3, nan}, {3, nan}}
		assert.True(t, cmp.Equal(want, got.Raw(), approx), cmp.Diff(want, got.Raw(), approx))
	})

	t.Run("standardized pitch is rescaled", func(t *testing.T) {
		pitch, err := core.FromTemplate("opta", core.WithLength(105), core.WithWidth(68))
		require.NoError(t, err)
		m := NewDistanceModel(pitch)
		require.NoError(t, m.Fit(mustXY(t, [][]float64{{0, 0}, {100, 0}}, 1), schema.ForwardDifference, schema.AxisBoth))
		got, err := m.DistanceCovered()
		require.NoError(t, err)
		assert.InDelta(t, 105, got.Raw()[0][0], 1e-9)
		assert.NotEmpty(t, CheckPitch(pitch))
	})

	t.Run("centimeters", func(t *testing.T) {
		pitch, err := core.NewPitch([2]float64{-5250, 5250}, [2]float64{-3400, 3400}, schema.UnitCentimeter, schema.FixedBoundaries)
		require.NoError(t, err)
		m := NewDistanceModel(pitch)
		require.NoError(t, m.Fit(mustXY(t, [][]float64{{0, 0}, {300, 400}}, 1), schema.ForwardDifference, schema.AxisBoth))
		got, err := m.DistanceCovered()
		require.NoError(t, err)
		assert.InDelta(t, 5, got.Raw()[0][0], 1e-9)
		assert.Empty(t, CheckPitch(pitch))
	})

	t.Run("invalid arguments", func(t *testing.T) {
		m := NewDistanceModel(nil)
		assert.ErrorIs(t, m.Fit(xy, "backward", schema.AxisBoth), core.ErrInvalidArgument)
		assert.ErrorIs(t, m.Fit(xy, schema.CentralDifference, "z"), core.ErrInvalidArgument)
		assert.False(t, m.IsFitted())

		flexible, err := core.NewPitch([2]float64{0, 100}, [2]float64{0, 100}, schema.UnitPercent, schema.FlexibleBoundaries)
		require.NoError(t, err)
		assert.ErrorIs(t, NewDistanceModel(flexible).Fit(xy, schema.CentralDifference, schema.AxisBoth), core.ErrInvalidArgument)
	})
}

func TestVelocityAndAcceleration(t *testing.T) {
	// uniform acceleration along x: x = t^2
	xy := mustXY(t, [][]float64{{0, 0}, {1, 0}, {4, 0}, {9, 0}, {16, 0}}, 2)

	v := NewVelocityModel(nil)
	require.NoError(t, v.Fit(xy, schema.ForwardDifference))
	velocity, err := v.Velocity()
	require.NoError(t, err)
	series, err := velocity.Entity(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 6, 10, 14, 0}, series)
	assert.Equal(t, 2.0, velocity.Framerate())

	a := NewAccelerationModel(nil)
	require.NoError(t, a.Fit(xy, schema.CentralDifference))
	acc, err := a.Acceleration()
	require.NoError(t, err)
	series, err = acc.Entity(0)
	require.NoError(t, err)
	// central velocity is 2, 4, 8, 12, 14
	assert.Equal(t, []float64{4, 6, 8, 6, 4}, series)
}

func TestCentroidModel(t *testing.T) {
	nan := math.NaN()
	xy := mustXY(t, [][]float64{{1, 1, 2, -2}, {1.5, nan, nan, 0}}, 1)

	m := NewCentroidModel()
	require.NoError(t, m.Fit(xy, nil))

	centroid, err := m.Centroid()
	require.NoError(t, err)
	want := [][]float64{{1.5, -0.5}, {1.5, 0}}
	assert.True(t, cmp.Equal(want, centroid.Raw(), approx), cmp.Diff(want, centroid.Raw(), approx))

	stretch, err := m.StretchIndex(xy, schema.AxisBoth)
	require.NoError(t, err)
	values := stretch.Values()
	assert.InDelta(t, math.Hypot(0.5, 1.5), values[0], 1e-7)
	assert.True(t, math.IsNaN(values[1]))

	dist, err := m.CentroidDistance(xy, schema.AxisX)
	require.NoError(t, err)
	assert.True(t, cmp.Equal([][]float64{{0.5, 0.5}, {0, nan}}, dist.Raw(), approx))

	_, err = m.CentroidDistance(mustXY(t, [][]float64{{0, 0}}, 1), schema.AxisBoth)
	assert.ErrorIs(t, err, core.ErrLengthMismatch)

	t.Run("exclusions", func(t *testing.T) {
		ex := NewCentroidModel()
		require.NoError(t, ex.Fit(xy, []int{1}))
		c, err := ex.Centroid()
		require.NoError(t, err)
		x, y, err := c.Point(0, 0)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1}, []float64{x, y})

		assert.ErrorIs(t, NewCentroidModel().Fit(xy, []int{5}), core.ErrInvalidArgument)
	})
}

func TestConvexHullModel(t *testing.T) {
	nan := math.NaN()
	xy := mustXY(t, [][]float64{
		{0, 0, 10, 0, 10, 10, 0, 10, 5, 5},
		{0, 0, 4, 0, 0, 3, nan, nan, 1, 1},
		{0, 0, 1, 1, nan, nan, nan, nan, nan, nan},
	}, 5)

	m := NewConvexHullModel()
	require.NoError(t, m.Fit(xy, nil))
	area, err := m.AreaConvexHull()
	require.NoError(t, err)
	values := area.Values()
	assert.InDelta(t, 100, values[0], 1e-9)
	assert.InDelta(t, 6, values[1], 1e-9)
	assert.True(t, math.IsNaN(values[2]))

	excluded := NewConvexHullModel()
	require.NoError(t, excluded.Fit(xy, []int{2}))
	area, err = excluded.AreaConvexHull()
	require.NoError(t, err)
	assert.InDelta(t, 50, area.Values()[0], 1e-9)
}

func TestMetabolicPowerModel(t *testing.T) {
	const framerate = 10.0
	// entity 0 stands still, entity 1 walks at 1 m/s, entity 2 runs at 5 m/s
	matrix := make([][]float64, 5)
	for i := range matrix {
		ts := float64(i) / framerate
		matrix[i] = []float64{0, 0, ts, 0, 5 * ts, 0}
	}
	xy := mustXY(t, matrix, framerate)

	m := NewMetabolicPowerModel(nil)
	_, err := m.MetabolicPower()
	require.ErrorIs(t, err, core.ErrNotFitted)
	require.NoError(t, m.Fit(xy, schema.CentralDifference))

	power, err := m.MetabolicPower()
	require.NoError(t, err)
	assert.Equal(t, "metabolic_power", power.Name())

	esWalk := 0.0037 / 9.80665
	walk := ((0.1-esWalk)*10*(1.25-6.57+13.14-11.15+5.35) + esWalk*10*(0.68-4.17+10.17-10.31+8.66)) *
		math.Sqrt(esWalk*esWalk+1) / framerate
	esRun := 0.0037 * 25 / 9.80665
	run := (39.5*esRun + 3.6*math.Exp(-4*esRun)) * math.Sqrt(esRun*esRun+1) * 5 / framerate

	for frame := range 5 {
		got, err := power.At(frame, 0)
		require.NoError(t, err)
		assert.Zero(t, got)
		got, err = power.At(frame, 1)
		require.NoError(t, err)
		assert.InDelta(t, walk, got, 1e-9)
		got, err = power.At(frame, 2)
		require.NoError(t, err)
		assert.InDelta(t, run, got, 1e-9)
	}

	cumulative, err := m.CumulativeMetabolicPower()
	require.NoError(t, err)
	last, err := cumulative.At(4, 2)
	require.NoError(t, err)
	assert.InDelta(t, 5*run, last, 1e-9)

	distance, err := m.EquivalentDistance(DefaultRunningCost)
	require.NoError(t, err)
	got, err := distance.At(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, run/DefaultRunningCost, got, 1e-9)

	total, err := m.CumulativeEquivalentDistance(DefaultRunningCost)
	require.NoError(t, err)
	got, err = total.At(4, 1)
	require.NoError(t, err)
	assert.InDelta(t, 5*walk/DefaultRunningCost, got, 1e-9)

	_, err = m.EquivalentDistance(0)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestMetabolicPowerMissingFrames(t *testing.T) {
	nan := math.NaN()
	xy := mustXY(t, [][]float64{{0, 0}, {0.1, 0}, {0.2, 0}, {0.3, 0}, {nan, nan}, {0.5, 0}}, 10)
	m := NewMetabolicPowerModel(nil)
	require.NoError(t, m.Fit(xy, schema.ForwardDifference))
	power, err := m.MetabolicPower()
	require.NoError(t, err)
	series, err := power.Entity(0)
	require.NoError(t, err)
	// forward speed is 1, 1, 1, NaN, NaN, 0 and its change is missing from frame 2 to 4
	assert.False(t, math.IsNaN(series[0]))
	assert.False(t, math.IsNaN(series[1]))
	for _, frame := range []int{2, 3, 4} {
		assert.True(t, math.IsNaN(series[frame]), "frame %d", frame)
	}
}

func TestWalkingCostClampsOutsideTable(t *testing.T) {
	assert.InDelta(t, horner(walkingCoeffs[0][:], 1), walkingCost(-0.5, 1), 1e-12)
	assert.InDelta(t, horner(walkingCoeffs[7][:], 1), walkingCost(0.9, 1), 1e-12)
	assert.InDelta(t, horner(walkingCoeffs[3][:], 1), walkingCost(0, 1), 1e-12)
}
