package contract

import (
	"fmt"
	"math"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

// Default values for configuration.
const (
	DefaultFramerate     = 25.0
	DefaultResultLimit   = 25
	MaxResultLimit       = 1000
	DefaultPrecision     = 2
	MaxPrecision         = 6
	DefaultWindowSeconds = 60.0
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for an analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Framerate     float64
	PitchTemplate string // empty means coordinates are meters
	PitchLength   float64
	PitchWidth    float64
	Difference    schema.Difference
	Smoothing     schema.Smoothing
	Excludes      []int // entity indices left out of team shape models
	WindowSeconds float64
	Workers       int

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	Fade       int
	Conditions []core.Condition
	Frameclock bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	MetricsFile string
	LogLevel    string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Framerate         float64 `mapstructure:"framerate"`
	Pitch             string  `mapstructure:"pitch"`
	PitchLength       float64 `mapstructure:"pitch-length"`
	PitchWidth        float64 `mapstructure:"pitch-width"`
	OutputFile        string  `mapstructure:"output-file"`
	Limit             int     `mapstructure:"limit"`
	Precision         int     `mapstructure:"precision"`
	Output            string  `mapstructure:"output"`
	Width             int     `mapstructure:"width"`
	Color             string  `mapstructure:"color"`
	CacheBackend      string  `mapstructure:"cache-backend"`
	CacheDBConnect    string  `mapstructure:"cache-db-connect"`
	AnalysisBackend   string  `mapstructure:"analysis-backend"`
	AnalysisDBConnect string  `mapstructure:"analysis-db-connect"`
	MetricsFile       string  `mapstructure:"metrics-file"`
	LogLevel          string  `mapstructure:"log-level"`
	Workers           int     `mapstructure:"workers"`

	// --- Fields from kinematicsCmd / centroidCmd / runCmd ---
	Difference string  `mapstructure:"difference"`
	Smooth     string  `mapstructure:"smooth"`
	Exclude    string  `mapstructure:"exclude"`
	Window     float64 `mapstructure:"window"`

	// --- Fields from eventsCmd ---
	Fade       int      `mapstructure:"fade"`
	Where      []string `mapstructure:"where"`
	Frameclock bool     `mapstructure:"frameclock"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Excludes = slices.Clone(c.Excludes)
	clone.Conditions = slices.Clone(c.Conditions)
	return &clone
}

// Pitch builds the configured pitch descriptor, or nil when no template is set.
func (c *Config) Pitch() (*core.Pitch, error) {
	if c.PitchTemplate == "" {
		return nil, nil
	}
	var opts []core.PitchOption
	if c.PitchLength > 0 {
		opts = append(opts, core.WithLength(c.PitchLength))
	}
	if c.PitchWidth > 0 {
		opts = append(opts, core.WithWidth(c.PitchWidth))
	}
	return core.FromTemplate(c.PitchTemplate, opts...)
}

// WindowFrames returns the centroid summary window in frames, at least one.
func (c *Config) WindowFrames() int {
	return max(1, int(math.Round(c.WindowSeconds*c.Framerate)))
}

// ProcessAndValidate validates the raw input and populates the final Config.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processModelInputs(cfg, input); err != nil {
		return err
	}
	if err := processEventInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache backend: %w", err)
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("analysis backend: %w", err)
	}

	// Validate that cache and analysis use different databases
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		// Resolve to actual file paths to catch default path conflicts
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output and runtime fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile
	cfg.LogLevel = strings.ToLower(input.LogLevel)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers < 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}

	// --- 3. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// processModelInputs validates sampling, pitch, and model parameters.
func processModelInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Framerate <= 0 || math.IsInf(input.Framerate, 0) || math.IsNaN(input.Framerate) {
		return fmt.Errorf("framerate must be a positive number (received %g)", input.Framerate)
	}
	cfg.Framerate = input.Framerate

	cfg.PitchTemplate = strings.ToLower(strings.TrimSpace(input.Pitch))
	cfg.PitchLength, cfg.PitchWidth = input.PitchLength, input.PitchWidth
	if cfg.PitchLength < 0 || cfg.PitchWidth < 0 {
		return fmt.Errorf("pitch dimensions cannot be negative (received %g x %g)", cfg.PitchLength, cfg.PitchWidth)
	}
	if _, err := cfg.Pitch(); err != nil {
		return fmt.Errorf("invalid pitch configuration: %w", err)
	}

	cfg.Difference = schema.Difference(strings.ToLower(input.Difference))
	if cfg.Difference == "" {
		cfg.Difference = schema.CentralDifference
	}
	if _, ok := schema.ValidDifferences[cfg.Difference]; !ok {
		return fmt.Errorf("invalid difference '%s'. must be central, forward", input.Difference)
	}

	cfg.Smoothing = schema.Smoothing(strings.ToLower(input.Smooth))
	if cfg.Smoothing == "" {
		cfg.Smoothing = schema.NoSmoothing
	}
	if _, ok := schema.ValidSmoothings[cfg.Smoothing]; !ok {
		return fmt.Errorf("invalid smooth '%s'. must be none, savgol, butterworth", input.Smooth)
	}

	excludes, err := ParseIntList(input.Exclude)
	if err != nil {
		return fmt.Errorf("invalid --exclude value: %w", err)
	}
	if slices.ContainsFunc(excludes, func(i int) bool { return i < 0 }) {
		return fmt.Errorf("excluded entity indices must be non-negative (received %v)", excludes)
	}
	cfg.Excludes = lo.Uniq(excludes)

	cfg.WindowSeconds = input.Window
	if cfg.WindowSeconds == 0 {
		cfg.WindowSeconds = DefaultWindowSeconds
	}
	if cfg.WindowSeconds < 0 {
		return fmt.Errorf("window must be positive (received %g)", input.Window)
	}
	return nil
}

// processEventInputs parses event filter conditions and stream settings.
func processEventInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Fade < core.FadeUntilNext {
		return fmt.Errorf("fade must be -1 (until next event) or non-negative (received %d)", input.Fade)
	}
	cfg.Fade = input.Fade
	cfg.Frameclock = input.Frameclock

	cfg.Conditions = cfg.Conditions[:0]
	for _, expr := range input.Where {
		cond, err := core.ParseCondition(expr)
		if err != nil {
			return fmt.Errorf("invalid --where value: %w", err)
		}
		cfg.Conditions = append(cfg.Conditions, cond)
	}
	return nil
}

// ParseIntList parses a comma-separated list of integers. Blank entries are skipped.
func ParseIntList(s string) ([]int, error) {
	var out []int
	for part := range strings.SplitSeq(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		v, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", trimmed)
		}
		out = append(out, v)
	}
	return out, nil
}
