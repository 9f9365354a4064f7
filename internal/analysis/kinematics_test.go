package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

func TestComputeKinematics(t *testing.T) {
	tests := []struct {
		name         string
		difference   schema.Difference
		wantDistance float64
		wantMean     float64
	}{
		{"central", schema.CentralDifference, 5, 10},
		{"forward", schema.ForwardDifference, 4, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := ComputeKinematics(runnerXY(t, 10), nil, tt.difference)
			require.NoError(t, err)
			require.Len(t, results, 2)

			runner := results[0]
			assert.Equal(t, 0, runner.Entity)
			assert.Equal(t, 5, runner.Frames)
			assert.Equal(t, 1.0, runner.Coverage)
			assert.InDelta(t, tt.wantDistance, runner.Distance, 1e-9)
			assert.InDelta(t, 10, runner.TopSpeed, 1e-9)
			assert.InDelta(t, tt.wantMean, runner.MeanSpeed, 1e-9)

			still := results[1]
			assert.Equal(t, 0.0, still.Distance)
			assert.Equal(t, 0.0, still.TopSpeed)
		})
	}

	t.Run("untracked entity stays finite", func(t *testing.T) {
		nan := math.NaN()
		xy, err := core.NewXY([][]float64{{0, 0, nan, nan}, {1, 0, nan, nan}}, 10)
		require.NoError(t, err)
		results, err := ComputeKinematics(xy, nil, schema.CentralDifference)
		require.NoError(t, err)
		assert.Equal(t, 0.0, results[1].Coverage)
		assert.Equal(t, 0.0, results[1].TopSpeed)
		assert.Equal(t, 0.0, results[1].MeanSpeed)
	})

	t.Run("invalid difference", func(t *testing.T) {
		_, err := ComputeKinematics(runnerXY(t, 10), nil, schema.Difference("backward"))
		require.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestRankByDistance(t *testing.T) {
	results := []schema.KinematicsResult{
		{Entity: 0, Distance: 10},
		{Entity: 1, Distance: 30, TopSpeed: 7.5},
		{Entity: 2, Distance: 20},
		{Entity: 3, Distance: 20},
	}

	ranked := rankByDistance(results, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Entity, ranked[1].Entity, ranked[2].Entity})
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, schema.SprintZone, ranked[0].Label)
	assert.Equal(t, 0, results[0].Entity, "input order is preserved")

	assert.Len(t, rankByDistance(results, 0), 4, "zero limit keeps everything")
}

func TestGetKinematicsResults(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	cfg.ResultLimit = 1

	results, ranked, err := GetKinematicsResults(context.Background(), cfg, nil, runnerXY(t, 10), nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	require.Len(t, ranked, 1)
	assert.Equal(t, 0, ranked[0].Entity)
}
