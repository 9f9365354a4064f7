package contract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/schema"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Framerate: DefaultFramerate,
		Limit:     10,
		Precision: 2,
		Output:    "text",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "limit zero", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit above max", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "negative workers", mutate: func(in *ConfigRawInput) { in.Workers = -1 }, expectError: true},
		{name: "explicit workers", mutate: func(in *ConfigRawInput) { in.Workers = 2 }},
		{name: "precision negative", mutate: func(in *ConfigRawInput) { in.Precision = -1 }, expectError: true},
		{name: "precision above max", mutate: func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 }, expectError: true},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) {
			in.Output = "parquet"
			in.OutputFile = "out.parquet"
		}},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "zero framerate", mutate: func(in *ConfigRawInput) { in.Framerate = 0 }, expectError: true},
		{name: "unknown pitch", mutate: func(in *ConfigRawInput) { in.Pitch = "moon" }, expectError: true},
		{name: "opta needs dimensions", mutate: func(in *ConfigRawInput) { in.Pitch = "opta" }},
		{name: "negative pitch length", mutate: func(in *ConfigRawInput) {
			in.Pitch = "opta"
			in.PitchLength = -1
		}, expectError: true},
		{name: "invalid difference", mutate: func(in *ConfigRawInput) { in.Difference = "backward" }, expectError: true},
		{name: "invalid smooth", mutate: func(in *ConfigRawInput) { in.Smooth = "median" }, expectError: true},
		{name: "savgol smooth", mutate: func(in *ConfigRawInput) { in.Smooth = "SavGol" }},
		{name: "bad exclude list", mutate: func(in *ConfigRawInput) { in.Exclude = "1,two" }, expectError: true},
		{name: "negative exclude", mutate: func(in *ConfigRawInput) { in.Exclude = "-3" }, expectError: true},
		{name: "negative window", mutate: func(in *ConfigRawInput) { in.Window = -5 }, expectError: true},
		{name: "fade below until-next", mutate: func(in *ConfigRawInput) { in.Fade = -2 }, expectError: true},
		{name: "malformed where", mutate: func(in *ConfigRawInput) { in.Where = []string{"no-equals"} }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "mysql without connection", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, expectError: true},
		{name: "invalid analysis backend", mutate: func(in *ConfigRawInput) { in.AnalysisBackend = "mongo" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.Exclude = "3, 1, 3"
	input.Where = []string{"team=1", "gameclock=0:60"}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.CentralDifference, cfg.Difference)
	assert.Equal(t, schema.NoSmoothing, cfg.Smoothing)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, DefaultWindowSeconds, cfg.WindowSeconds)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, []int{3, 1}, cfg.Excludes)
	assert.Len(t, cfg.Conditions, 2)
	assert.Equal(t, int(DefaultWindowSeconds*DefaultFramerate), cfg.WindowFrames())

	pitch, err := cfg.Pitch()
	require.NoError(t, err)
	assert.Nil(t, pitch)
}

func TestProcessAndValidatePitch(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.Pitch = "Opta"
	input.PitchLength = 105
	input.PitchWidth = 68
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "opta", cfg.PitchTemplate)

	pitch, err := cfg.Pitch()
	require.NoError(t, err)
	require.NotNil(t, pitch)
	length, ok := pitch.Length()
	assert.True(t, ok)
	assert.Equal(t, 105.0, length)
}

func TestValidateBackendConfigs(t *testing.T) {
	dir := t.TempDir()

	t.Run("shared sqlite file rejected", func(t *testing.T) {
		path := filepath.Join(dir, "shared.db")
		input := validInput()
		input.CacheBackend = "sqlite"
		input.CacheDBConnect = path
		input.AnalysisBackend = "sqlite"
		input.AnalysisDBConnect = path
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("separate sqlite files", func(t *testing.T) {
		input := validInput()
		input.AnalysisBackend = "SQLite"
		input.AnalysisDBConnect = filepath.Join(dir, "analysis.db")
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.SQLiteBackend, cfg.AnalysisBackend)
	})

	t.Run("analysis disabled when empty", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validInput()))
		assert.Empty(t, cfg.AnalysisBackend)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/touchline", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/touchline", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=touchline", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=touchline", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Excludes: []int{1, 2}}
	clone := cfg.Clone()
	clone.Excludes[0] = 9
	assert.Equal(t, 1, cfg.Excludes[0])
}

func TestParseIntList(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"1", []int{1}, false},
		{" 1, 2 ,,3 ", []int{1, 2, 3}, false},
		{"1,x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIntList(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// FuzzParseIntList checks that parsing never panics and that results round-trip.
func FuzzParseIntList(f *testing.F) {
	for _, seed := range []string{"", "1,2,3", " 4 , ,5", "a,b", "-1", "99999999999999999999"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		values, err := ParseIntList(s)
		if err != nil {
			return
		}
		if len(values) > len(s) {
			t.Fatalf("parsed %d values from %d bytes", len(values), len(s))
		}
	})
}
