package schema

// Speed zone labels, ordered from most to least intense.
const (
	SprintZone   = "Sprint"
	HighZone     = "High"
	ModerateZone = "Moderate"
	LowZone      = "Low"
)

// TrackingSummary describes the data quality of one entity in an XY container.
type TrackingSummary struct {
	Entity   int     `json:"entity"`
	Frames   int     `json:"frames"`
	Missing  int     `json:"missing"`
	Coverage float64 `json:"coverage"`
	XMin     float64 `json:"x_min"`
	XMax     float64 `json:"x_max"`
	YMin     float64 `json:"y_min"`
	YMax     float64 `json:"y_max"`
}

// KinematicsResult holds per-entity kinematic aggregates.
type KinematicsResult struct {
	Entity    int     `json:"entity"`
	Frames    int     `json:"frames"`
	Coverage  float64 `json:"coverage"`
	Distance  float64 `json:"distance"`
	TopSpeed  float64 `json:"top_speed"`
	MeanSpeed float64 `json:"mean_speed"`
}

// RankedKinematics adds presentation data to a KinematicsResult.
type RankedKinematics struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	KinematicsResult
}

// CentroidWindow summarizes team shape over a run of frames.
type CentroidWindow struct {
	StartFrame  int     `json:"start_frame"`
	EndFrame    int     `json:"end_frame"`
	CentroidX   float64 `json:"centroid_x"`
	CentroidY   float64 `json:"centroid_y"`
	MeanStretch float64 `json:"mean_stretch"`
	MaxStretch  float64 `json:"max_stretch"`
}

// GetPlainLabel returns the speed zone for a top speed given in meters per second.
func GetPlainLabel(topSpeed float64) string {
	switch {
	case topSpeed >= 7.0:
		return SprintZone
	case topSpeed >= 5.5:
		return HighZone
	case topSpeed >= 4.0:
		return ModerateZone
	default:
		return LowZone
	}
}

// RankKinematics adds rank and label to a list of kinematic results.
func RankKinematics(results []KinematicsResult) []RankedKinematics {
	output := make([]RankedKinematics, len(results))
	for i, r := range results {
		output[i] = RankedKinematics{
			Rank:             i + 1,
			Label:            GetPlainLabel(r.TopSpeed),
			KinematicsResult: r,
		}
	}
	return output
}

// PitchSummary describes a pitch descriptor for display.
type PitchSummary struct {
	Template   string     `json:"template,omitempty"`
	XLim       [2]float64 `json:"xlim"`
	YLim       [2]float64 `json:"ylim"`
	Unit       Unit       `json:"unit"`
	Boundaries Boundaries `json:"boundaries"`
	Length     *float64   `json:"length,omitempty"`
	Width      *float64   `json:"width,omitempty"`
	Sport      string     `json:"sport,omitempty"`
	CenterX    float64    `json:"center_x"`
	CenterY    float64    `json:"center_y"`
	Metrical   bool       `json:"metrical"`
	RescaleX   *float64   `json:"rescale_x,omitempty"`
	RescaleY   *float64   `json:"rescale_y,omitempty"`
}

// ColumnSummary describes one events column.
type ColumnSummary struct {
	Name    string `json:"name"`
	Class   string `json:"class"` // essential, protected or custom
	Present int    `json:"present"`
	Invalid bool   `json:"invalid,omitempty"`
}

// EventsSummary describes the content of an events table.
type EventsSummary struct {
	Events           int             `json:"events"`
	GameclockStart   float64         `json:"gameclock_start"`
	GameclockEnd     float64         `json:"gameclock_end"`
	Columns          []ColumnSummary `json:"columns"`
	ProtectedMissing []string        `json:"protected_missing,omitempty"`
	EventCounts      []ValueCount    `json:"event_counts"`
}

// ValueCount counts the occurrences of one value.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CodeSummary describes a coded-state sequence.
type CodeSummary struct {
	Name      string       `json:"name"`
	Frames    int          `json:"frames"`
	Framerate float64      `json:"framerate"`
	Missing   int          `json:"missing"`
	Tokens    []ValueCount `json:"tokens"`
}

// SegmentTeamReport holds the model outputs for one team within one segment.
type SegmentTeamReport struct {
	Segment    string             `json:"segment"`
	Team       TeamKey            `json:"team"`
	Frames     int                `json:"frames"`
	Kinematics []RankedKinematics `json:"kinematics"`
	Centroid   []CentroidWindow   `json:"centroid,omitempty"`
	Events     int                `json:"events"`
}

// RunReport is the result of analyzing a whole observation.
type RunReport struct {
	ObservationID string              `json:"observation_id"`
	Name          string              `json:"name"`
	AnalysisID    int64               `json:"analysis_id,omitempty"`
	Teams         []SegmentTeamReport `json:"teams"`
}
