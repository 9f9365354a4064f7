package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/parquet"
	"github.com/huangsam/touchline/schema"
)

func testConfig(t *testing.T, mode schema.OutputMode, file string) *contract.Config {
	t.Helper()
	cfg := &contract.Config{
		Output:       mode,
		Precision:    2,
		ResultLimit:  10,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
	if file != "" {
		cfg.OutputFile = filepath.Join(t.TempDir(), file)
	}
	return cfg
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func sampleRanked() []schema.RankedKinematics {
	return schema.RankKinematics([]schema.KinematicsResult{
		{Entity: 4, Frames: 250, Coverage: 1, Distance: 98.5, TopSpeed: 7.1, MeanSpeed: 3.9},
		{Entity: 1, Frames: 250, Coverage: 0.96, Distance: 71.25, TopSpeed: 4.2, MeanSpeed: 2.8},
	})
}

func sampleWindows() []schema.CentroidWindow {
	return []schema.CentroidWindow{
		{StartFrame: 0, EndFrame: 125, CentroidX: 40, CentroidY: 30, MeanStretch: 14.2, MaxStretch: 16},
		{StartFrame: 125, EndFrame: 250, CentroidX: 55, CentroidY: 33, MeanStretch: 12.8, MaxStretch: 15.5},
	}
}

func TestWritePitch(t *testing.T) {
	length, width := 105.0, 68.0
	summary := schema.PitchSummary{
		Template: "chyronhego_international",
		XLim:     [2]float64{-52.5, 52.5},
		YLim:     [2]float64{-34, 34},
		Unit:     schema.UnitMeter,
		Length:   &length,
		Width:    &width,
		Sport:    "football",
		Metrical: true,
	}

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut, "pitch.json")
		require.NoError(t, WritePitch(summary, cfg))
		content, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var got schema.PitchSummary
		require.NoError(t, json.Unmarshal(content, &got))
		assert.Equal(t, summary.XLim, got.XLim)
		assert.Equal(t, 105.0, *got.Length)
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "pitch.csv")
		require.NoError(t, WritePitch(summary, cfg))
		lines := readLines(t, cfg.OutputFile)
		assert.Equal(t, "property,value", lines[0])
		assert.Contains(t, lines, `xlim,"[-52.50, 52.50]"`)
		assert.Contains(t, lines, "rescale_x,-")
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		fmtFloat, _ := createFormatters(1)
		require.NoError(t, writePitchTable(&buf, summary, fmtFloat))
		assert.Contains(t, buf.String(), "chyronhego_international")
		assert.Contains(t, buf.String(), "Metrical")
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "pitch.parquet")
		require.Error(t, WritePitch(summary, cfg))
	})
}

func TestWriteTracking(t *testing.T) {
	summaries := []schema.TrackingSummary{
		{Entity: 0, Frames: 10, Missing: 1, Coverage: 0.9, XMin: 1, XMax: 5, YMin: 2, YMax: 6},
		{Entity: 1, Frames: 10, Coverage: 1, XMin: 0, XMax: 10, YMin: 0, YMax: 8},
	}

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "tracking.csv")
		require.NoError(t, WriteTracking(summaries, cfg, time.Second))
		lines := readLines(t, cfg.OutputFile)
		require.Len(t, lines, 3)
		assert.Equal(t, strings.Join(trackingHeader, ","), lines[0])
		assert.Equal(t, "0,10,1,0.90,1.00,5.00,2.00,6.00", lines[1])
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "tracking.parquet")
		require.NoError(t, WriteTracking(summaries, cfg, time.Second))
		assert.FileExists(t, cfg.OutputFile)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		fmtFloat, intFmt := createFormatters(2)
		require.NoError(t, writeTrackingTable(&buf, summaries, fmtFloat, intFmt, time.Second))
		assert.Contains(t, buf.String(), "Inspected 2 entities over 10 frames")
	})
}

func TestWriteCode(t *testing.T) {
	summary := schema.CodeSummary{
		Name:      "possession",
		Frames:    10,
		Framerate: 25,
		Missing:   2,
		Tokens:    []schema.ValueCount{{Value: "home", Count: 5}, {Value: "away", Count: 3}},
	}

	cfg := testConfig(t, schema.CSVOut, "code.csv")
	require.NoError(t, WriteCode(summary, cfg, time.Second))
	assert.Equal(t, []string{"token,frames,share", "home,5,0.50", "away,3,0.30"}, readLines(t, cfg.OutputFile))

	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)
	require.NoError(t, writeCodeTable(&buf, summary, fmtFloat, intFmt, time.Second))
	assert.Contains(t, buf.String(), `Code "possession": 10 frames at 25 fps, 2 missing`)

	require.Error(t, WriteCode(summary, testConfig(t, schema.ParquetOut, "code.parquet"), time.Second))
}

func sampleEvents(t *testing.T) *core.Events {
	t.Helper()
	ev, err := core.FromTable(
		[]string{"eID", "gameclock", "pID", "qualifier"},
		[][]string{
			{"Pass", "1.5", "7", "long, high"},
			{"Shot", "12", "9", ""},
			{"Pass", "30", "8", ""},
		})
	require.NoError(t, err)
	return ev
}

func TestWriteEvents(t *testing.T) {
	ev := sampleEvents(t)

	t.Run("json omits nulls", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut, "events.json")
		require.NoError(t, WriteEvents(ev, cfg, time.Second))
		content, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(content, &got))
		require.Len(t, got, 3)
		assert.Equal(t, "Pass", got[0]["eID"])
		assert.Equal(t, 1.5, got[0]["gameclock"])
		assert.NotContains(t, got[1], "qualifier")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "events.csv")
		require.NoError(t, WriteEvents(ev, cfg, time.Second))
		lines := readLines(t, cfg.OutputFile)
		require.Len(t, lines, 4)
		assert.Equal(t, "eID,gameclock,pID,qualifier", lines[0])
		assert.Equal(t, `Pass,1.5,7,"long, high"`, lines[1])
		assert.Equal(t, "Shot,12,9,", lines[2])
	})

	t.Run("parquet round trip", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "events.parquet")
		require.NoError(t, WriteEvents(ev, cfg, time.Second))
		back, err := parquet.ReadEventsParquet(cfg.OutputFile)
		require.NoError(t, err)
		assert.Equal(t, ev.Len(), back.Len())
	})

	t.Run("table respects limit", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := testConfig(t, schema.TextOut, "")
		cfg.ResultLimit = 2
		require.NoError(t, writeEventsTable(&buf, ev, cfg, time.Second))
		assert.Contains(t, buf.String(), "Showing 2 of 3 events")
	})
}

func TestWriteEventsSummary(t *testing.T) {
	summary := schema.EventsSummary{
		Events:         3,
		GameclockStart: 1.5,
		GameclockEnd:   30,
		Columns: []schema.ColumnSummary{
			{Name: "eID", Class: "essential", Present: 3},
			{Name: "outcome", Class: "protected", Present: 2, Invalid: true},
		},
		ProtectedMissing: []string{"tID"},
		EventCounts:      []schema.ValueCount{{Value: "Pass", Count: 2}, {Value: "Shot", Count: 1}},
	}

	cfg := testConfig(t, schema.CSVOut, "summary.csv")
	require.NoError(t, WriteEventsSummary(summary, cfg, time.Second))
	assert.Equal(t, []string{"column,class,present,invalid", "eID,essential,3,false", "outcome,protected,2,true"},
		readLines(t, cfg.OutputFile))

	var buf bytes.Buffer
	require.NoError(t, writeEventsSummaryTable(&buf, summary, testConfig(t, schema.TextOut, ""), time.Second))
	out := buf.String()
	assert.Contains(t, out, "Protected columns not present: [tID]")
	assert.Contains(t, out, "3 events from 1.5s to 30s")
}

func TestWriteKinematics(t *testing.T) {
	ranked := sampleRanked()

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "kinematics.csv")
		require.NoError(t, WriteKinematics(ranked, cfg, time.Second))
		lines := readLines(t, cfg.OutputFile)
		require.Len(t, lines, 3)
		assert.Equal(t, "rank,entity,frames,coverage,distance,top_speed,mean_speed,label", lines[0])
		assert.Equal(t, "1,4,250,1.00,98.50,7.10,3.90,Sprint", lines[1])
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut, "kinematics.json")
		require.NoError(t, WriteKinematics(ranked, cfg, time.Second))
		content, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var got []schema.RankedKinematics
		require.NoError(t, json.Unmarshal(content, &got))
		assert.Equal(t, ranked, got)
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "kinematics.parquet")
		require.NoError(t, WriteKinematics(ranked, cfg, time.Second))
		rows, err := parquet.ReadKinematicsParquet(cfg.OutputFile)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, singleSegment, rows[0].Segment)
	})

	t.Run("parquet requires file", func(t *testing.T) {
		require.ErrorIs(t, WriteKinematics(ranked, testConfig(t, schema.ParquetOut, ""), time.Second), errParquetNeedsFile)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		fmtFloat, intFmt := createFormatters(2)
		require.NoError(t, writeKinematicsTable(&buf, ranked, testConfig(t, schema.TextOut, ""), fmtFloat, intFmt))
		assert.Contains(t, buf.String(), "98.50")
		assert.Contains(t, buf.String(), schema.ModerateZone)
	})
}

func TestWriteCentroid(t *testing.T) {
	windows := sampleWindows()

	cfg := testConfig(t, schema.CSVOut, "centroid.csv")
	require.NoError(t, WriteCentroid(windows, cfg, time.Second))
	lines := readLines(t, cfg.OutputFile)
	require.Len(t, lines, 3)
	assert.Equal(t, "125,250,55.00,33.00,12.80,15.50", lines[2])

	cfg = testConfig(t, schema.ParquetOut, "centroid.parquet")
	require.NoError(t, WriteCentroid(windows, cfg, time.Second))
	rows, err := parquet.ReadCentroidParquet(cfg.OutputFile)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func sampleReport() *schema.RunReport {
	return &schema.RunReport{
		ObservationID: "7f0c",
		Name:          "derby",
		AnalysisID:    3,
		Teams: []schema.SegmentTeamReport{
			{Segment: "1", Team: schema.AwayTeam, Frames: 250, Kinematics: sampleRanked(), Centroid: sampleWindows(), Events: 4},
			{Segment: "1", Team: schema.BallTeam, Frames: 250, Kinematics: sampleRanked()[:1]},
		},
	}
}

func TestWriteRun(t *testing.T) {
	report := sampleReport()

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "run.csv")
		require.NoError(t, WriteRun(report, cfg, time.Second))
		lines := readLines(t, cfg.OutputFile)
		require.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "segment,team,rank"))
		assert.True(t, strings.HasPrefix(lines[3], "1,ball,1,4"))
	})

	t.Run("parquet writes both files", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "run.parquet")
		require.NoError(t, WriteRun(report, cfg, time.Second))
		kin, err := parquet.ReadKinematicsParquet(cfg.OutputFile)
		require.NoError(t, err)
		assert.Len(t, kin, 3)
		cen, err := parquet.ReadCentroidParquet(CentroidSiblingPath(cfg.OutputFile))
		require.NoError(t, err)
		assert.Len(t, cen, 2)
		assert.Equal(t, "away", cen[0].Team)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		fmtFloat, intFmt := createFormatters(2)
		cfg := testConfig(t, schema.TextOut, "")
		cfg.AnalysisBackend = schema.SQLiteBackend
		require.NoError(t, writeRunTables(&buf, report, cfg, fmtFloat, intFmt, time.Second))
		out := buf.String()
		assert.Contains(t, out, "Segment 1 / away: 250 frames, 4 events")
		assert.Contains(t, out, "Segment 1 / ball: 250 frames, 0 events")
		assert.Contains(t, out, "Recorded as analysis run 3 (sqlite)")
	})
}

func TestCentroidSiblingPath(t *testing.T) {
	assert.Equal(t, "out/run.centroid.parquet", CentroidSiblingPath("out/run.parquet"))
	assert.Equal(t, "run.centroid.parquet", CentroidSiblingPath("run"))
	assert.Empty(t, CentroidSiblingPath(""))
}

func TestOutWriterDelegates(t *testing.T) {
	ow := NewOutWriter()
	cfg := testConfig(t, schema.JSONOut, "run.json")
	require.NoError(t, ow.WriteRun(sampleReport(), cfg, time.Second))
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var got schema.RunReport
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, "derby", got.Name)
	assert.Len(t, got.Teams, 2)
}
