package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

func TestFinite(t *testing.T) {
	assert.Equal(t, 0.0, finite(math.NaN()))
	assert.Equal(t, 0.0, finite(math.Inf(-1)))
	assert.Equal(t, 2.5, finite(2.5))
}

func TestDescribePitch(t *testing.T) {
	t.Run("metrical template", func(t *testing.T) {
		summary, err := DescribePitch("statsperform", 105, 68)
		require.NoError(t, err)
		assert.Equal(t, "statsperform", summary.Template)
		assert.True(t, summary.Metrical)
		require.NotNil(t, summary.Length)
		assert.Equal(t, 105.0, *summary.Length)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := DescribePitch("nope", 0, 0)
		require.Error(t, err)
	})
}

func TestSummarizeTracking(t *testing.T) {
	nan := math.NaN()
	xy, err := core.NewXY([][]float64{
		{1, 2, nan, 0},
		{3, 4, 5, 6},
		{nan, nan, 7, 8},
		{2, 1, 9, 10},
	}, 25)
	require.NoError(t, err)

	summaries := SummarizeTracking(xy)
	require.Len(t, summaries, 2)

	assert.Equal(t, schema.TrackingSummary{
		Entity: 0, Frames: 4, Missing: 1, Coverage: 0.75, XMin: 1, XMax: 3, YMin: 1, YMax: 4,
	}, summaries[0])
	assert.Equal(t, 1, summaries[1].Missing, "a frame with only y present is missing")
	assert.Equal(t, 5.0, summaries[1].XMin)
	assert.Equal(t, 0.0, summaries[1].YMin)
}

func TestSummarizeEvents(t *testing.T) {
	ev, err := core.FromTable(
		[]string{"eID", "gameclock", "outcome", "qualifier"},
		[][]string{
			{"Pass", "3", "1", "long"},
			{"Shot", "1", "2", ""},
			{"Pass", "7", "0", ""},
		})
	require.NoError(t, err)

	summary := SummarizeEvents(ev)
	assert.Equal(t, 3, summary.Events)
	assert.Equal(t, 1.0, summary.GameclockStart)
	assert.Equal(t, 7.0, summary.GameclockEnd)
	assert.Equal(t, []schema.ValueCount{{Value: "Pass", Count: 2}, {Value: "Shot", Count: 1}}, summary.EventCounts)
	assert.Contains(t, summary.ProtectedMissing, "pID")

	byName := make(map[string]schema.ColumnSummary)
	for _, c := range summary.Columns {
		byName[c.Name] = c
	}
	assert.Equal(t, "essential", byName["eID"].Class)
	assert.Equal(t, "protected", byName["outcome"].Class)
	assert.True(t, byName["outcome"].Invalid, "outcome 2 is outside [0, 1]")
	assert.Equal(t, "custom", byName["qualifier"].Class)
	assert.Equal(t, 1, byName["qualifier"].Present)
}

func TestSummarizeCode(t *testing.T) {
	nan := math.NaN()
	code, err := core.NewCode([]float64{1, 1, 2, nan, 3, 1}, "possession", 25,
		core.WithDefinitions(map[float64]string{1: "home", 2: "away"}))
	require.NoError(t, err)

	summary := SummarizeCode(code)
	assert.Equal(t, "possession", summary.Name)
	assert.Equal(t, 6, summary.Frames)
	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, []schema.ValueCount{
		{Value: "home", Count: 3},
		{Value: "3", Count: 1},
		{Value: "away", Count: 1},
	}, summary.Tokens)
}

func TestCountValues(t *testing.T) {
	assert.Empty(t, countValues(nil))
	assert.Equal(t, []schema.ValueCount{{Value: "b", Count: 2}, {Value: "a", Count: 1}, {Value: "c", Count: 1}},
		countValues([]string{"c", "b", "a", "b"}))
}
