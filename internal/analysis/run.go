package analysis

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/log"
	"github.com/huangsam/touchline/internal/metrics"
	"github.com/huangsam/touchline/schema"
)

// teamJob is one (segment, team) pair of an observation.
type teamJob struct {
	segment *core.Segment
	team    schema.TeamKey
}

// teamOutcome holds the model outputs of one teamJob.
type teamOutcome struct {
	report  schema.SegmentTeamReport
	results []schema.KinematicsResult
	stretch []float64
	err     error
}

// RunObservation runs kinematics and team shape models for every segment and team of an
// observation. Every analyzed entity is recorded into the analysis store when one is configured.
func RunObservation(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, obs *core.Observation) (*schema.RunReport, error) {
	var analysisStore contract.AnalysisStore
	if mgr != nil {
		analysisStore = mgr.GetAnalysisStore()
	}

	var analysisID int64
	if analysisStore != nil {
		configParams := map[string]any{
			"observation":    obs.Name,
			"observation_id": obs.ID.String(),
			"pitch":          cfg.PitchTemplate,
			"difference":     string(cfg.Difference),
			"window_seconds": cfg.WindowSeconds,
			"result_limit":   cfg.ResultLimit,
		}
		id, err := analysisStore.BeginAnalysis(time.Now(), configParams)
		if err != nil {
			contract.LogWarn("Analysis tracking initialization failed", err)
		} else if id > 0 {
			analysisID = id
			ctx = withAnalysisID(ctx, id)
		}
	}

	pitch := obs.Pitch
	logPitchWarnings(pitch)

	var jobs []teamJob
	for _, seg := range obs.Segments() {
		for _, team := range seg.Teams() {
			jobs = append(jobs, teamJob{segment: seg, team: team})
		}
	}

	outcomes := analyzeTeams(cfg, mgr, pitch, jobs)

	report := &schema.RunReport{
		ObservationID: obs.ID.String(),
		Name:          obs.Name,
		AnalysisID:    analysisID,
	}
	totalEntities := 0
	var runErr error
	for i, outcome := range outcomes {
		if outcome.err != nil {
			runErr = fmt.Errorf("segment %q team %q: %w", jobs[i].segment.ID, jobs[i].team, outcome.err)
			break
		}
		report.Teams = append(report.Teams, outcome.report)
		totalEntities += len(outcome.results)
		recordTeam(ctx, analysisStore, obs, jobs[i], outcome)
	}

	// A failed run is still closed, with the entities recorded before the failure.
	if analysisStore != nil && analysisID > 0 {
		if err := analysisStore.EndAnalysis(analysisID, time.Now(), totalEntities); err != nil {
			contract.LogWarn("Failed to finalize analysis tracking", err)
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	return report, nil
}

// analyzeTeams runs analyzeTeam over jobs with a pool of cfg.Workers goroutines. Outcomes
// keep the order of jobs.
func analyzeTeams(cfg *contract.Config, mgr contract.CacheManager, pitch *core.Pitch, jobs []teamJob) []teamOutcome {
	workers := cfg.Workers
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}
	outcomes := make([]teamOutcome, len(jobs))
	jobCh := make(chan int, len(jobs))
	var wg sync.WaitGroup
	for range min(workers, len(jobs)) {
		wg.Go(func() {
			for i := range jobCh {
				outcomes[i] = analyzeTeam(cfg, mgr, pitch, jobs[i])
			}
		})
	}
	for i := range jobs {
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()
	return outcomes
}

// analyzeTeam runs the models for one team of one segment.
func analyzeTeam(cfg *contract.Config, mgr contract.CacheManager, pitch *core.Pitch, job teamJob) teamOutcome {
	xy, err := smoothXY(cfg.Smoothing, job.segment.XY[job.team])
	if err != nil {
		return teamOutcome{err: err}
	}
	key := kinematicsKey(xy, pitch, cfg.Difference)
	results, err := cachedCompute(mgr, key, func() ([]schema.KinematicsResult, error) {
		return ComputeKinematics(xy, pitch, cfg.Difference)
	})
	if err != nil {
		return teamOutcome{err: err}
	}

	report := schema.SegmentTeamReport{
		Segment:    job.segment.ID,
		Team:       job.team,
		Frames:     xy.Len(),
		Kinematics: rankByDistance(results, cfg.ResultLimit),
	}
	if ev, ok := job.segment.Events[job.team]; ok {
		report.Events = ev.Len()
		metrics.AddEvents(ev.Len())
	}

	stretch := make([]float64, xy.N())
	if job.team != schema.BallTeam && xy.N() > 0 {
		shape, err := ComputeShape(xy, cfg.Excludes, windowFrames(cfg.WindowSeconds, xy.Framerate()))
		if err != nil {
			return teamOutcome{err: err}
		}
		report.Centroid = shape.Windows
		stretch = shape.MeanStretch
	}
	log.Debug("analyzed team",
		log.String("segment", job.segment.ID),
		log.String("team", string(job.team)),
		log.Int("entities", xy.N()))
	return teamOutcome{report: report, results: results, stretch: stretch}
}

// windowFrames converts a window length in seconds into at least one frame.
func windowFrames(seconds, framerate float64) int {
	return max(1, int(math.Round(seconds*framerate)))
}

// recordTeam stores one row per entity of a team outcome.
func recordTeam(ctx context.Context, store contract.AnalysisStore, obs *core.Observation, job teamJob, outcome teamOutcome) {
	analysisID := analysisIDFrom(ctx)
	if store == nil || analysisID == 0 {
		return
	}
	now := time.Now()
	for _, r := range outcome.results {
		rec := schema.EntityMetrics{
			Segment:       job.segment.ID,
			Team:          job.team,
			Entity:        r.Entity,
			Frames:        r.Frames,
			Coverage:      r.Coverage,
			Distance:      r.Distance,
			TopSpeed:      r.TopSpeed,
			MeanSpeed:     r.MeanSpeed,
			SpeedZone:     schema.GetPlainLabel(r.TopSpeed),
			AnalysisTime:  now,
			ObservationID: obs.ID.String(),
		}
		if r.Entity < len(outcome.stretch) {
			rec.MeanStretch = outcome.stretch[r.Entity]
		}
		if err := store.RecordEntityMetrics(analysisID, rec); err != nil {
			logTrackingError("RecordEntityMetrics", job, r.Entity, err)
		}
	}
}

// logTrackingError logs store failures without disrupting the analysis.
func logTrackingError(operation string, job teamJob, entity int, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s on %s/%s/%d",
		operation, job.segment.ID, job.team, entity), err)
}

