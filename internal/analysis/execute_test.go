package analysis

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/iocache"
	"github.com/huangsam/touchline/schema"
)

func readJSON[T any](t *testing.T, path string) T {
	t.Helper()
	var out T
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(content, &out))
	return out
}

func TestExecutePitch(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	cfg.PitchTemplate = "opta"
	require.NoError(t, ExecutePitch(cfg))

	got := readJSON[schema.PitchSummary](t, cfg.OutputFile)
	assert.Equal(t, "opta", got.Template)
	assert.Equal(t, schema.UnitPercent, got.Unit)
	assert.False(t, got.Metrical)

	cfg.PitchTemplate = "unknown"
	require.Error(t, ExecutePitch(cfg))
}

func TestExecuteInspect(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	dir := t.TempDir()

	t.Run("xy", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		require.NoError(t, ExecuteInspectXY(ctx, cfg, nil, writeFile(t, dir, "xy.csv", runnerCSV)))
		got := readJSON[[]schema.TrackingSummary](t, cfg.OutputFile)
		require.Len(t, got, 2)
		assert.Equal(t, 4.0, got[0].XMax)
	})

	t.Run("events", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		require.NoError(t, ExecuteInspectEvents(ctx, cfg, nil, writeFile(t, dir, "events.csv", eventsCSV)))
		got := readJSON[schema.EventsSummary](t, cfg.OutputFile)
		assert.Equal(t, 3, got.Events)
		assert.Equal(t, "Pass", got.EventCounts[0].Value)
	})

	t.Run("code", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		path := writeFile(t, dir, "possession.csv", "possession\nhome\nhome\naway\n")
		require.NoError(t, ExecuteInspectCode(ctx, cfg, nil, path))
		got := readJSON[schema.CodeSummary](t, cfg.OutputFile)
		assert.Equal(t, "possession", got.Name)
		assert.Equal(t, "home", got.Tokens[0].Value)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		require.Error(t, ExecuteInspectXY(ctx, cfg, nil, "/nonexistent/xy.csv"))
	})
}

func TestSelectEvents(t *testing.T) {
	path := writeFile(t, t.TempDir(), "events.csv", eventsCSV)

	t.Run("by event id", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		cond, err := core.ParseCondition("eID=Pass")
		require.NoError(t, err)
		cfg.Conditions = []core.Condition{cond}

		ev, err := SelectEvents(cfg, path)
		require.NoError(t, err)
		assert.Equal(t, 2, ev.Len())
	})

	t.Run("by derived frameclock", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		cfg.Frameclock = true
		cond, err := core.ParseCondition("frameclock=2:4")
		require.NoError(t, err)
		cfg.Conditions = []core.Condition{cond}

		ev, err := SelectEvents(cfg, path)
		require.NoError(t, err)
		require.Equal(t, 2, ev.Len())
		assert.Equal(t, "Shot", ev.Rows()[0].EID.String())
	})

	t.Run("unknown column", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		cond, err := core.ParseCondition("zone=box")
		require.NoError(t, err)
		cfg.Conditions = []core.Condition{cond}
		_, err = SelectEvents(cfg, path)
		require.ErrorIs(t, err, core.ErrKey)
	})
}

func TestExecuteEvents(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	path := writeFile(t, t.TempDir(), "events.csv", eventsCSV)

	t.Run("select", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		require.NoError(t, ExecuteEventsSelect(ctx, cfg, nil, path))
		content, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "eID,gameclock,pID,outcome")
	})

	t.Run("stream", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		cfg.Fade = core.FadeUntilNext
		require.NoError(t, ExecuteEventsStream(ctx, cfg, nil, path))
		got := readJSON[schema.CodeSummary](t, cfg.OutputFile)
		assert.Equal(t, "events", got.Name)
		assert.Equal(t, 4, got.Frames)
		assert.Equal(t, 1, got.Missing)
	})

	t.Run("stream rejects bad fade", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		cfg.Fade = -5
		require.ErrorIs(t, ExecuteEventsStream(ctx, cfg, nil, path), core.ErrInvalidArgument)
	})
}

func TestExecuteKinematics(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	path := writeFile(t, t.TempDir(), "match.csv", runnerCSV)

	t.Run("without stores", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		require.NoError(t, ExecuteKinematics(ctx, cfg, nil, path))
		got := readJSON[[]schema.RankedKinematics](t, cfg.OutputFile)
		require.Len(t, got, 2)
		assert.Equal(t, 0, got[0].Entity)
		assert.Equal(t, schema.SprintZone, got[0].Label)
	})

	t.Run("records into the analysis store", func(t *testing.T) {
		store := &iocache.MockAnalysisStore{}
		store.On("BeginAnalysis", mock.Anything, mock.Anything).Return(int64(4), nil)
		store.On("RecordEntityMetrics", int64(4), mock.MatchedBy(func(m schema.EntityMetrics) bool {
			return m.ObservationID == "match.csv" && m.Segment == fileSegment
		})).Return(nil)
		store.On("EndAnalysis", int64(4), mock.Anything, 2).Return(nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetResultStore").Return(nil)
		mgr.On("GetAnalysisStore").Return(store)

		cfg := testConfig(t, schema.JSONOut)
		require.NoError(t, ExecuteKinematics(ctx, cfg, mgr, path))
		store.AssertNumberOfCalls(t, "RecordEntityMetrics", 2)
		store.AssertExpectations(t)
	})

	t.Run("bad pitch", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		cfg.PitchTemplate = "unknown"
		require.Error(t, ExecuteKinematics(ctx, cfg, nil, path))
	})
}

func TestExecuteCentroid(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	path := writeFile(t, t.TempDir(), "match.csv", runnerCSV)

	cfg := testConfig(t, schema.JSONOut)
	require.NoError(t, ExecuteCentroid(ctx, cfg, nil, path))
	got := readJSON[[]schema.CentroidWindow](t, cfg.OutputFile)
	require.Len(t, got, 3)
	assert.Equal(t, 2.5, got[0].CentroidY)
}

const manifestYAML = `name: derby
framerate: 10
segments:
  - id: "1"
    xy:
      home: home.csv
    events:
      home: events.csv
`

func TestExecuteRun(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	dir := t.TempDir()
	writeFile(t, dir, "home.csv", runnerCSV)
	writeFile(t, dir, "events.csv", eventsCSV)
	manifest := writeFile(t, dir, "match.yaml", manifestYAML)

	cfg := testConfig(t, schema.JSONOut)
	require.NoError(t, ExecuteRun(ctx, cfg, nil, manifest))

	got := readJSON[schema.RunReport](t, cfg.OutputFile)
	assert.Equal(t, "derby", got.Name)
	require.Len(t, got.Teams, 1)
	assert.Equal(t, 3, got.Teams[0].Events)
	assert.NotEmpty(t, got.ObservationID)

	t.Run("missing manifest", func(t *testing.T) {
		require.Error(t, ExecuteRun(ctx, testConfig(t, schema.JSONOut), nil, dir+"/none.yaml"))
	})
}

func TestCodeName(t *testing.T) {
	assert.Equal(t, "possession", codeName("/data/possession.csv"))
	assert.Equal(t, "events", codeName("events"))
}
