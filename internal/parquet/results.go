package parquet

import "github.com/huangsam/touchline/schema"

// KinematicsRow is one ranked entity of a kinematics result.
type KinematicsRow struct {
	Segment   string  `parquet:"segment,snappy"`
	Team      string  `parquet:"team,snappy"`
	Rank      int32   `parquet:"rank,snappy"`
	Entity    int32   `parquet:"entity,snappy"`
	Frames    int32   `parquet:"frames,snappy"`
	Coverage  float64 `parquet:"coverage,snappy"`
	Distance  float64 `parquet:"distance,snappy"`
	TopSpeed  float64 `parquet:"top_speed,snappy"`
	MeanSpeed float64 `parquet:"mean_speed,snappy"`
	SpeedZone string  `parquet:"speed_zone,snappy"`
}

// CentroidRow is one window of a team shape summary.
type CentroidRow struct {
	Segment     string  `parquet:"segment,snappy"`
	Team        string  `parquet:"team,snappy"`
	StartFrame  int32   `parquet:"start_frame,snappy"`
	EndFrame    int32   `parquet:"end_frame,snappy"`
	CentroidX   float64 `parquet:"centroid_x,snappy"`
	CentroidY   float64 `parquet:"centroid_y,snappy"`
	MeanStretch float64 `parquet:"mean_stretch,snappy"`
	MaxStretch  float64 `parquet:"max_stretch,snappy"`
}

// TrackingRow is the coverage summary of one tracked entity.
type TrackingRow struct {
	Entity   int32   `parquet:"entity,snappy"`
	Frames   int32   `parquet:"frames,snappy"`
	Missing  int32   `parquet:"missing,snappy"`
	Coverage float64 `parquet:"coverage,snappy"`
	XMin     float64 `parquet:"x_min,snappy"`
	XMax     float64 `parquet:"x_max,snappy"`
	YMin     float64 `parquet:"y_min,snappy"`
	YMax     float64 `parquet:"y_max,snappy"`
}

// ConvertKinematics converts ranked kinematics of one segment and team into rows.
func ConvertKinematics(segment string, team schema.TeamKey, ranked []schema.RankedKinematics) []KinematicsRow {
	rows := make([]KinematicsRow, len(ranked))
	for i, r := range ranked {
		rows[i] = KinematicsRow{
			Segment:   segment,
			Team:      string(team),
			Rank:      int32(r.Rank),
			Entity:    int32(r.Entity),
			Frames:    int32(r.Frames),
			Coverage:  r.Coverage,
			Distance:  r.Distance,
			TopSpeed:  r.TopSpeed,
			MeanSpeed: r.MeanSpeed,
			SpeedZone: r.Label,
		}
	}
	return rows
}

// ConvertCentroidWindows converts the shape windows of one segment and team into rows.
func ConvertCentroidWindows(segment string, team schema.TeamKey, windows []schema.CentroidWindow) []CentroidRow {
	rows := make([]CentroidRow, len(windows))
	for i, w := range windows {
		rows[i] = CentroidRow{
			Segment:     segment,
			Team:        string(team),
			StartFrame:  int32(w.StartFrame),
			EndFrame:    int32(w.EndFrame),
			CentroidX:   w.CentroidX,
			CentroidY:   w.CentroidY,
			MeanStretch: w.MeanStretch,
			MaxStretch:  w.MaxStretch,
		}
	}
	return rows
}

// ConvertTrackingSummaries converts per-entity tracking summaries into rows.
func ConvertTrackingSummaries(summaries []schema.TrackingSummary) []TrackingRow {
	rows := make([]TrackingRow, len(summaries))
	for i, s := range summaries {
		rows[i] = TrackingRow{
			Entity:   int32(s.Entity),
			Frames:   int32(s.Frames),
			Missing:  int32(s.Missing),
			Coverage: s.Coverage,
			XMin:     s.XMin,
			XMax:     s.XMax,
			YMin:     s.YMin,
			YMax:     s.YMax,
		}
	}
	return rows
}

// WriteKinematicsParquet writes kinematics rows to a Parquet file.
func WriteKinematicsParquet(rows []KinematicsRow, outputPath string) error {
	return writeRows(rows, outputPath)
}

// ReadKinematicsParquet reads kinematics rows.
func ReadKinematicsParquet(inputPath string) ([]KinematicsRow, error) {
	return readRows[KinematicsRow](inputPath)
}

// WriteCentroidParquet writes centroid window rows to a Parquet file.
func WriteCentroidParquet(rows []CentroidRow, outputPath string) error {
	return writeRows(rows, outputPath)
}

// ReadCentroidParquet reads centroid window rows.
func ReadCentroidParquet(inputPath string) ([]CentroidRow, error) {
	return readRows[CentroidRow](inputPath)
}

// WriteTrackingParquet writes tracking summary rows to a Parquet file.
func WriteTrackingParquet(rows []TrackingRow, outputPath string) error {
	return writeRows(rows, outputPath)
}
