// Package schema holds the shared enums and record types used across touchline.
package schema

// Custom string types for type safety.
type (
	// Axis names one of the two pitch axes.
	Axis string

	// Unit is the length unit of a coordinate system.
	Unit string

	// Boundaries describes whether pitch limits are physical or standardized.
	Boundaries string

	// Difference is the numerical differentiation method used by kinematic models.
	Difference string

	// Smoothing is the low-pass filter applied to tracking data before modelling.
	Smoothing string

	// Direction is the playing direction of a team within a segment.
	Direction string

	// TeamKey identifies the side an entity belongs to within an observation.
	TeamKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// Axes supported by spatial transforms. An empty Axis means both.
const (
	AxisBoth Axis = ""
	AxisX    Axis = "x"
	AxisY    Axis = "y"
)

// Units understood by pitch descriptors and kinematic models.
const (
	UnitMeter      Unit = "m"
	UnitCentimeter Unit = "cm"
	UnitPercent    Unit = "percent"
)

// Pitch boundary kinds.
const (
	FixedBoundaries    Boundaries = "fixed"
	FlexibleBoundaries Boundaries = "flexible"
)

// Differentiation methods.
const (
	CentralDifference Difference = "central" // default
	ForwardDifference Difference = "forward"
)

// Low-pass filters.
const (
	NoSmoothing          Smoothing = "none" // default
	SavgolSmoothing      Smoothing = "savgol"
	ButterworthSmoothing Smoothing = "butterworth"
)

// Playing directions.
const (
	LeftToRight Direction = "lr"
	RightToLeft Direction = "rl"
)

// Team keys used by observation manifests.
const (
	HomeTeam TeamKey = "home"
	AwayTeam TeamKey = "away"
	BallTeam TeamKey = "ball"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidDifferences lists all valid differentiation methods.
var ValidDifferences = map[Difference]struct{}{
	CentralDifference: {},
	ForwardDifference: {},
}

// ValidSmoothings lists all valid low-pass filters.
var ValidSmoothings = map[Smoothing]struct{}{
	NoSmoothing:          {},
	SavgolSmoothing:      {},
	ButterworthSmoothing: {},
}

// ValidTeamKeys lists all team keys accepted in manifests.
var ValidTeamKeys = map[TeamKey]struct{}{
	HomeTeam: {},
	AwayTeam: {},
	BallTeam: {},
}

// ParseAxis converts user input into an Axis. The boolean is false for unknown names.
func ParseAxis(s string) (Axis, bool) {
	switch Axis(s) {
	case AxisBoth, AxisX, AxisY:
		return Axis(s), true
	case "plane", "xy":
		return AxisBoth, true
	default:
		return "", false
	}
}
