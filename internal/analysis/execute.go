package analysis

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/dataio"
	"github.com/huangsam/touchline/internal/log"
	"github.com/huangsam/touchline/internal/metrics"
	"github.com/huangsam/touchline/internal/outwriter"
	"github.com/huangsam/touchline/schema"
)

// ExecutorFunc defines the function signature for executing different analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, path string) error

var out = outwriter.NewOutWriter()

// fileSegment labels the single segment of a standalone tracking file.
const fileSegment = "all"

// ExecutePitch describes the configured pitch template and prints it.
func ExecutePitch(cfg *contract.Config) error {
	summary, err := DescribePitch(cfg.PitchTemplate, cfg.PitchLength, cfg.PitchWidth)
	if err != nil {
		return err
	}
	return out.WritePitch(summary, cfg)
}

// ExecuteInspectXY summarizes the tracking file at path.
func ExecuteInspectXY(ctx context.Context, cfg *contract.Config, _ contract.CacheManager, path string) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Tracking")
	}
	xy, err := dataio.ReadXY(path, cfg.Framerate)
	if err != nil {
		return err
	}
	metrics.AddFrames(xy.Len())
	return out.WriteTracking(SummarizeTracking(xy), cfg, time.Since(start))
}

// ExecuteInspectEvents summarizes the events file at path.
func ExecuteInspectEvents(ctx context.Context, cfg *contract.Config, _ contract.CacheManager, path string) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Events")
	}
	ev, err := dataio.ReadEvents(path)
	if err != nil {
		return err
	}
	metrics.AddEvents(ev.Len())
	summary := SummarizeEvents(ev)
	for _, name := range ev.InvalidColumns() {
		log.Warn("column has values outside its defined range", log.String("column", name))
	}
	return out.WriteEventsSummary(summary, cfg, time.Since(start))
}

// ExecuteInspectCode summarizes the code file at path. The code is named after the file.
func ExecuteInspectCode(ctx context.Context, cfg *contract.Config, _ contract.CacheManager, path string) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Code")
	}
	code, err := dataio.ReadCode(path, codeName(path), cfg.Framerate)
	if err != nil {
		return err
	}
	metrics.AddFrames(code.Len())
	return out.WriteCode(SummarizeCode(code), cfg, time.Since(start))
}

// codeName derives a code name from its file name.
func codeName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SelectEvents loads events and applies the configured conditions. The frameclock column
// is derived first when cfg.Frameclock is set.
func SelectEvents(cfg *contract.Config, path string) (*core.Events, error) {
	ev, err := dataio.ReadEvents(path)
	if err != nil {
		return nil, err
	}
	metrics.AddEvents(ev.Len())
	if cfg.Frameclock {
		if err := ev.AddFrameclock(cfg.Framerate); err != nil {
			return nil, err
		}
	}
	return ev.Select(cfg.Conditions...)
}

// ExecuteEventsSelect filters the events file at path and prints the matching events.
func ExecuteEventsSelect(ctx context.Context, cfg *contract.Config, _ contract.CacheManager, path string) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Events")
	}
	selected, err := SelectEvents(cfg, path)
	if err != nil {
		return err
	}
	log.Debug("selected events", log.Int("matches", selected.Len()), log.Int("conditions", len(cfg.Conditions)))
	return out.WriteEvents(selected, cfg, time.Since(start))
}

// ExecuteEventsStream converts the events file at path into a frame-wise event stream and
// prints its token distribution. A missing frameclock is derived from cfg.Framerate.
func ExecuteEventsStream(ctx context.Context, cfg *contract.Config, _ contract.CacheManager, path string) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Events")
	}
	ev, err := dataio.ReadEvents(path)
	if err != nil {
		return err
	}
	metrics.AddEvents(ev.Len())
	if !ev.HasColumn(string(core.ColFrameclock)) {
		if err := ev.AddFrameclock(cfg.Framerate); err != nil {
			return err
		}
	}
	code, err := ev.EventStream(cfg.Fade, core.StreamName(codeName(path)), core.StreamFramerate(cfg.Framerate))
	if err != nil {
		return err
	}
	return out.WriteCode(SummarizeCode(code), cfg, time.Since(start))
}

// ExecuteKinematics ranks the entities of the tracking file at path by distance covered.
// Every entity is recorded into the analysis store when one is configured.
func ExecuteKinematics(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, path string) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Tracking")
	}
	ranked, err := GetKinematicsForFile(ctx, cfg, mgr, path)
	if err != nil {
		return err
	}
	return out.WriteKinematics(ranked, cfg, time.Since(start))
}

// GetKinematicsForFile loads a tracking file and returns its ranked kinematics.
func GetKinematicsForFile(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, path string) ([]schema.RankedKinematics, error) {
	pitch, err := cfg.Pitch()
	if err != nil {
		return nil, err
	}
	xy, err := readXY(cfg, path)
	if err != nil {
		return nil, err
	}
	results, ranked, err := GetKinematicsResults(ctx, cfg, mgr, xy, pitch)
	if err != nil {
		return nil, err
	}
	recordFile(cfg, mgr, path, results)
	return ranked, nil
}

// recordFile stores single-file kinematics as an analysis run of its own.
func recordFile(cfg *contract.Config, mgr contract.CacheManager, path string, results []schema.KinematicsResult) {
	if mgr == nil {
		return
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return
	}
	id, err := store.BeginAnalysis(time.Now(), map[string]any{
		"file":       path,
		"pitch":      cfg.PitchTemplate,
		"difference": string(cfg.Difference),
		"framerate":  cfg.Framerate,
	})
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return
	}
	now := time.Now()
	for _, r := range results {
		err := store.RecordEntityMetrics(id, schema.EntityMetrics{
			Segment:       fileSegment,
			Entity:        r.Entity,
			Frames:        r.Frames,
			Coverage:      r.Coverage,
			Distance:      r.Distance,
			TopSpeed:      r.TopSpeed,
			MeanSpeed:     r.MeanSpeed,
			SpeedZone:     schema.GetPlainLabel(r.TopSpeed),
			AnalysisTime:  now,
			ObservationID: filepath.Base(path),
		})
		if err != nil {
			contract.LogWarn("Analysis tracking failed for RecordEntityMetrics", err)
		}
	}
	if err := store.EndAnalysis(id, time.Now(), len(results)); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}

// ExecuteCentroid summarizes the team shape of the tracking file at path over windows.
func ExecuteCentroid(ctx context.Context, cfg *contract.Config, _ contract.CacheManager, path string) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Tracking")
	}
	xy, err := readXY(cfg, path)
	if err != nil {
		return err
	}
	metrics.AddFrames(xy.Len())
	shape, err := ComputeShape(xy, cfg.Excludes, cfg.WindowFrames())
	if err != nil {
		return err
	}
	return out.WriteCentroid(shape.Windows, cfg, time.Since(start))
}

// ExecuteRun loads the observation manifest at path and analyzes every segment and team.
// The manifest pitch takes precedence over the configured one.
func ExecuteRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, path string) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Observation")
	}
	report, err := RunManifest(ctx, cfg, mgr, path)
	if err != nil {
		return err
	}
	return out.WriteRun(report, cfg, time.Since(start))
}

// RunManifest loads an observation manifest and runs every model on it.
func RunManifest(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, path string) (*schema.RunReport, error) {
	manifest, err := dataio.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	obs, err := manifest.Observation()
	if err != nil {
		return nil, err
	}
	if obs.Pitch == nil {
		if obs.Pitch, err = cfg.Pitch(); err != nil {
			return nil, err
		}
	}
	return RunObservation(ctx, cfg, mgr, obs)
}
