package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/parquet"
	"github.com/huangsam/touchline/schema"
)

func TestComputeProperties(t *testing.T) {
	rows, err := ComputeProperties(runnerXY(t, 10), nil, schema.CentralDifference, nil)
	require.NoError(t, err)
	require.Len(t, rows, 5*5*2+5+5)

	byName := map[string][]parquet.PropertyRow{}
	for _, r := range rows {
		byName[r.Name] = append(byName[r.Name], r)
	}
	assert.Len(t, byName["velocity"], 10)
	assert.Len(t, byName["acceleration"], 10)
	assert.Len(t, byName["cumulative_distance_covered"], 10)
	assert.Len(t, byName["metabolic_power"], 10)
	assert.Len(t, byName["cumulative_equivalent_distance"], 10)
	assert.Len(t, byName["stretch_index"], 5)
	require.Len(t, byName["area_convex_hull"], 5)

	for _, r := range byName["velocity"] {
		require.NotNil(t, r.Value)
		if r.Entity == 0 {
			assert.InDelta(t, 10.0, *r.Value, 1e-9)
		}
	}
	last := byName["cumulative_distance_covered"][8] // frame 4, entity 0
	require.Equal(t, int32(4), last.Frame)
	require.Equal(t, int32(0), last.Entity)
	assert.InDelta(t, 5.0, *last.Value, 1e-9)

	for _, r := range byName["metabolic_power"] {
		require.NotNil(t, r.Value)
		if r.Entity == 1 {
			assert.Zero(t, *r.Value, "a standing entity spends nothing")
		} else {
			assert.Positive(t, *r.Value)
		}
	}
	spent := byName["metabolic_power"][0]
	equivalent := byName["cumulative_equivalent_distance"][8] // frame 4, entity 0
	require.Equal(t, int32(0), equivalent.Entity)
	assert.InDelta(t, 5*(*spent.Value)/3.6, *equivalent.Value, 1e-9)

	for _, r := range byName["area_convex_hull"] {
		assert.Nil(t, r.Value, "two entities span no hull")
	}

	rows, err = ComputeProperties(runnerXY(t, 10), nil, schema.CentralDifference, []int{1})
	require.NoError(t, err)
	for _, r := range rows {
		if r.Name == "stretch_index" {
			require.NotNil(t, r.Value)
			assert.Zero(t, *r.Value, "a lone included entity sits on the centroid")
		}
	}

	_, err = ComputeProperties(runnerXY(t, 10), nil, schema.CentralDifference, []int{7})
	require.Error(t, err)
}

func TestExecuteProperties(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	path := writeFile(t, t.TempDir(), "match.csv", runnerCSV)

	cfg := testConfig(t, schema.ParquetOut)
	require.NoError(t, ExecuteProperties(ctx, cfg, nil, path))
	rows, err := parquet.ReadPropertiesParquet(cfg.OutputFile)
	require.NoError(t, err)
	assert.Len(t, rows, 60)

	cfg.OutputFile = ""
	require.ErrorIs(t, ExecuteProperties(ctx, cfg, nil, path), errNeedsOutputFile)
}

func TestExecuteConvertXY(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	path := writeFile(t, t.TempDir(), "match.csv", runnerCSV)

	cfg := testConfig(t, schema.ParquetOut)
	require.NoError(t, ExecuteConvertXY(ctx, cfg, nil, path))
	xy, err := parquet.ReadXYParquet(cfg.OutputFile, cfg.Framerate)
	require.NoError(t, err)
	assert.Equal(t, 5, xy.Len())
	assert.Equal(t, 2, xy.N())
	x, y, err := xy.Point(3, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 0.0, y)
	assert.False(t, core.IsMissing(x))

	cfg.OutputFile = ""
	require.ErrorIs(t, ExecuteConvertXY(ctx, cfg, nil, path), errNeedsOutputFile)
}

func TestSmoothXY(t *testing.T) {
	xy := runnerXY(t, 10)
	for _, method := range []schema.Smoothing{"", schema.NoSmoothing} {
		got, err := smoothXY(method, xy)
		require.NoError(t, err)
		assert.Same(t, xy, got)
	}

	// five frames are too short for either filter, so values pass through
	for _, method := range []schema.Smoothing{schema.SavgolSmoothing, schema.ButterworthSmoothing} {
		got, err := smoothXY(method, xy)
		require.NoError(t, err)
		assert.NotSame(t, xy, got)
		assert.Equal(t, xy.Raw(), got.Raw())
	}

	// an entity standing at x=10 with tracking jitter of 0.3 m
	jitter := make([][]float64, 100)
	for i := range jitter {
		jitter[i] = []float64{10 + 0.3*float64(1-2*(i%2)), 0}
	}
	noisy, err := core.NewXY(jitter, 25)
	require.NoError(t, err)
	smoothed, err := smoothXY(schema.ButterworthSmoothing, noisy)
	require.NoError(t, err)
	for frame := 40; frame < 60; frame++ {
		x, _, err := smoothed.Point(frame, 0)
		require.NoError(t, err)
		assert.InDelta(t, 10, x, 0.01, "frame %d", frame)
	}

	_, err = smoothXY("median", xy)
	require.Error(t, err)

	// butterworth needs a cutoff below the Nyquist frequency
	slow, err := core.NewXY([][]float64{{0, 0}}, 1)
	require.NoError(t, err)
	_, err = smoothXY(schema.ButterworthSmoothing, slow)
	require.ErrorIs(t, err, core.ErrInvalidArgument)
}
