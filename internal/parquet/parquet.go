// Package parquet provides row types and functions for moving touchline containers and
// analysis data in and out of Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/touchline/schema"
)

// AnalysisRun represents a single analysis run with metadata.
// This struct maps to the touchline_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalEntitiesAnalyzed is the number of tracked entities analyzed in this run
	TotalEntitiesAnalyzed int32 `parquet:"total_entities_analyzed,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// EntityMetrics represents the model outputs for one entity in one segment of an analysis.
// This struct maps to the touchline_entity_metrics database table.
type EntityMetrics struct {
	AnalysisID    int64     `parquet:"analysis_id,snappy"`
	ObservationID string    `parquet:"observation_id,snappy"`
	Segment       string    `parquet:"segment,snappy"`
	Team          string    `parquet:"team,snappy"`
	Entity        int32     `parquet:"entity,snappy"`
	AnalysisTime  time.Time `parquet:"analysis_time,snappy"`
	Frames        int32     `parquet:"frames,snappy"`

	// Coverage is the share of frames with a valid position (0-1)
	Coverage float64 `parquet:"coverage,snappy"`

	// Distance is the total distance covered in meters
	Distance float64 `parquet:"distance,snappy"`

	// TopSpeed and MeanSpeed are in meters per second
	TopSpeed  float64 `parquet:"top_speed,snappy"`
	MeanSpeed float64 `parquet:"mean_speed,snappy"`

	// MeanStretch is the mean distance to the team centroid
	MeanStretch float64 `parquet:"mean_stretch,snappy"`

	SpeedZone string `parquet:"speed_zone,snappy"`
}

// writeRows writes rows to a new Parquet file at outputPath.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// readRows reads every row of the Parquet file at inputPath.
func readRows[T any](inputPath string) ([]T, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	if len(rows) == 0 {
		return rows, nil
	}
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet rows: %w", err)
	}
	return rows[:n], nil
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteEntityMetricsParquet writes a slice of EntityMetrics structs to a Parquet file.
func WriteEntityMetricsParquet(data []EntityMetrics, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:            record.AnalysisID,
			StartTime:             record.StartTime,
			EndTime:               record.EndTime,
			RunDurationMs:         record.RunDurationMs,
			TotalEntitiesAnalyzed: record.TotalEntitiesAnalyzed,
			ConfigParams:          record.ConfigParams,
		}
	}
	return result
}

// ConvertEntityMetricsRecords converts schema.EntityMetricsRecord to EntityMetrics for Parquet export.
func ConvertEntityMetricsRecords(records []schema.EntityMetricsRecord) []EntityMetrics {
	result := make([]EntityMetrics, len(records))
	for i, record := range records {
		result[i] = EntityMetrics{
			AnalysisID:    record.AnalysisID,
			ObservationID: record.ObservationID,
			Segment:       record.Segment,
			Team:          record.Team,
			Entity:        record.Entity,
			AnalysisTime:  record.AnalysisTime,
			Frames:        record.Frames,
			Coverage:      record.Coverage,
			Distance:      record.Distance,
			TopSpeed:      record.TopSpeed,
			MeanSpeed:     record.MeanSpeed,
			MeanStretch:   record.MeanStretch,
			SpeedZone:     record.SpeedZone,
		}
	}
	return result
}
