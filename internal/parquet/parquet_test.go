package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/schema"
)

func sampleRuns() []AnalysisRun {
	now := time.Now().UTC()
	start := now.Add(-2 * time.Hour)
	end := now.Add(-90 * time.Minute)
	duration := int32(end.Sub(start).Milliseconds())
	params := `{"framerate":25,"pitch":"opta"}`
	return []AnalysisRun{
		{AnalysisID: 1, StartTime: start, EndTime: &end, RunDurationMs: &duration, TotalEntitiesAnalyzed: 22, ConfigParams: &params},
		{AnalysisID: 2, StartTime: now.Add(-10 * time.Minute)}, // still running
	}
}

func TestAnalysisRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(AnalysisRun))
	require.NotNil(t, s)

	for _, colName := range []string{
		"analysis_id", "start_time", "end_time", "run_duration_ms", "total_entities_analyzed", "config_params",
	} {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col)
	}
}

func TestEntityMetricsStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(EntityMetrics))
	for _, colName := range []string{
		"analysis_id", "observation_id", "segment", "team", "entity", "analysis_time", "frames",
		"coverage", "distance", "top_speed", "mean_speed", "mean_stretch", "speed_zone",
	} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteAnalysisRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "analysis_runs.parquet")
	data := sampleRuns()
	require.NoError(t, WriteAnalysisRunsParquet(data, outputPath))

	readData, err := readRows[AnalysisRun](outputPath)
	require.NoError(t, err)
	require.Len(t, readData, len(data))

	assert.Equal(t, data[0].AnalysisID, readData[0].AnalysisID)
	assert.True(t, data[0].StartTime.Equal(readData[0].StartTime))
	require.NotNil(t, readData[0].ConfigParams)
	assert.Equal(t, *data[0].ConfigParams, *readData[0].ConfigParams)
	assert.Equal(t, *data[0].RunDurationMs, *readData[0].RunDurationMs)

	// Nullable fields survive as nil
	assert.Nil(t, readData[1].EndTime)
	assert.Nil(t, readData[1].RunDurationMs)
	assert.Nil(t, readData[1].ConfigParams)
}

func TestWriteEntityMetricsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "entity_metrics.parquet")
	now := time.Now().UTC()
	data := []EntityMetrics{
		{AnalysisID: 1, ObservationID: "obs", Segment: "HT1", Team: "home", Entity: 3, AnalysisTime: now, Frames: 100, Coverage: 0.98, Distance: 512.4, TopSpeed: 7.8, MeanSpeed: 2.1, MeanStretch: 14.2, SpeedZone: schema.SprintZone},
		{AnalysisID: 1, ObservationID: "obs", Segment: "HT1", Team: "away", Entity: 0, AnalysisTime: now, Frames: 100, Coverage: 1, Distance: 300, TopSpeed: 3.1, MeanSpeed: 1.2, SpeedZone: schema.LowZone},
	}
	require.NoError(t, WriteEntityMetricsParquet(data, outputPath))

	readData, err := readRows[EntityMetrics](outputPath)
	require.NoError(t, err)
	require.Len(t, readData, 2)
	assert.Equal(t, data[0].SpeedZone, readData[0].SpeedZone)
	assert.InDelta(t, data[0].Distance, readData[0].Distance, 1e-9)
	assert.Equal(t, "away", readData[1].Team)
}

func TestWriteParquetEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteAnalysisRunsParquet([]AnalysisRun{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	rows, err := readRows[AnalysisRun](outputPath)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteParquetInvalidPath(t *testing.T) {
	err := WriteEntityMetricsParquet(nil, "/nonexistent/directory/metrics.parquet")
	assert.Error(t, err)

	_, err = ReadXYParquet("/nonexistent/xy.parquet", 25)
	assert.Error(t, err)
}

func TestConvertRecords(t *testing.T) {
	end := time.Now()
	runs := ConvertAnalysisRunRecords([]schema.AnalysisRunRecord{{AnalysisID: 7, EndTime: &end, TotalEntitiesAnalyzed: 3}})
	require.Len(t, runs, 1)
	assert.Equal(t, int64(7), runs[0].AnalysisID)
	assert.Equal(t, int32(3), runs[0].TotalEntitiesAnalyzed)

	metrics := ConvertEntityMetricsRecords([]schema.EntityMetricsRecord{{AnalysisID: 7, Entity: 4, Team: "home", SpeedZone: schema.HighZone}})
	require.Len(t, metrics, 1)
	assert.Equal(t, int32(4), metrics[0].Entity)
	assert.Equal(t, schema.HighZone, metrics[0].SpeedZone)
}
