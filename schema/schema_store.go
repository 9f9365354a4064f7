package schema

import "time"

// EntityMetrics represents model output for a single tracked entity in one segment.
type EntityMetrics struct {
	Segment       string
	Team          TeamKey
	Entity        int
	Frames        int
	Coverage      float64 // share of frames with a valid position (0-1)
	Distance      float64 // total distance covered in meters
	TopSpeed      float64 // maximum speed in m/s
	MeanSpeed     float64 // mean speed in m/s over valid frames
	MeanStretch   float64 // mean distance to the team centroid
	SpeedZone     string  // label derived from TopSpeed
	AnalysisTime  time.Time
	ObservationID string
}

// AnalysisRunRecord represents a row from the touchline_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID            int64
	StartTime             time.Time
	EndTime               *time.Time
	RunDurationMs         *int32
	TotalEntitiesAnalyzed int32
	ConfigParams          *string
}

// EntityMetricsRecord represents a row from the touchline_entity_metrics table.
type EntityMetricsRecord struct {
	AnalysisID    int64
	ObservationID string
	Segment       string
	Team          string
	Entity        int32
	AnalysisTime  time.Time
	Frames        int32
	Coverage      float64
	Distance      float64
	TopSpeed      float64
	MeanSpeed     float64
	MeanStretch   float64
	SpeedZone     string
}
