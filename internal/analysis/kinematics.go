package analysis

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/core/models"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/log"
	"github.com/huangsam/touchline/internal/metrics"
	"github.com/huangsam/touchline/schema"
)

// fitTimed runs a model fit and records its duration.
func fitTimed(name string, fit func() error) error {
	start := time.Now()
	if err := fit(); err != nil {
		return err
	}
	metrics.ObserveFit(name, time.Since(start))
	return nil
}

// logPitchWarnings logs pitch warnings once per model run.
func logPitchWarnings(pitch *core.Pitch) {
	for _, warning := range models.CheckPitch(pitch) {
		log.Warn(warning)
	}
}

// ComputeKinematics fits distance and velocity models on xy and aggregates them per entity.
// Results are in entity order.
func ComputeKinematics(xy *core.XY, pitch *core.Pitch, difference schema.Difference) ([]schema.KinematicsResult, error) {
	distanceModel := models.NewDistanceModel(pitch)
	if err := fitTimed(distanceModel.Name(), func() error {
		return distanceModel.Fit(xy, difference, schema.AxisBoth)
	}); err != nil {
		return nil, err
	}
	velocityModel := models.NewVelocityModel(pitch)
	if err := fitTimed(velocityModel.Name(), func() error {
		return velocityModel.Fit(xy, difference)
	}); err != nil {
		return nil, err
	}
	metrics.AddFrames(xy.Len())

	distance, err := distanceModel.DistanceCovered()
	if err != nil {
		return nil, err
	}
	velocity, err := velocityModel.Velocity()
	if err != nil {
		return nil, err
	}

	totals := distance.NanSum()
	tops := velocity.NanMax()
	means := velocity.NanMean()
	coverage := SummarizeTracking(xy)

	results := make([]schema.KinematicsResult, xy.N())
	for e := range xy.N() {
		results[e] = schema.KinematicsResult{
			Entity:    e,
			Frames:    xy.Len(),
			Coverage:  coverage[e].Coverage,
			Distance:  finite(totals[e]),
			TopSpeed:  finite(tops[e]),
			MeanSpeed: finite(means[e]),
		}
	}
	return results, nil
}

// rankByDistance orders results by distance covered, longest first, and truncates to limit.
func rankByDistance(results []schema.KinematicsResult, limit int) []schema.RankedKinematics {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b schema.KinematicsResult) int {
		return cmp.Compare(b.Distance, a.Distance)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return schema.RankKinematics(sorted)
}

// GetKinematicsResults computes per-entity kinematics, reusing cached results when available.
// The returned results are ranked by distance covered and limited to cfg.ResultLimit.
func GetKinematicsResults(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, xy *core.XY, pitch *core.Pitch) ([]schema.KinematicsResult, []schema.RankedKinematics, error) {
	logPitchWarnings(pitch)
	key := kinematicsKey(xy, pitch, cfg.Difference)
	results, err := cachedCompute(mgr, key, func() ([]schema.KinematicsResult, error) {
		return ComputeKinematics(xy, pitch, cfg.Difference)
	})
	if err != nil {
		return nil, nil, err
	}
	return results, rankByDistance(results, cfg.ResultLimit), nil
}
