package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/core/models"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/metrics"
	"github.com/huangsam/touchline/internal/parquet"
	"github.com/huangsam/touchline/schema"
)

var errNeedsOutputFile = errors.New("--output-file is required to write Parquet rows")

// ComputeProperties fits the frame-wise models on xy and flattens their outputs into long
// rows: velocity, acceleration, cumulative distance, metabolic power and cumulative
// equivalent distance per entity, then stretch index and convex hull area over the
// included entities.
func ComputeProperties(xy *core.XY, pitch *core.Pitch, difference schema.Difference, exclude []int) ([]parquet.PropertyRow, error) {
	logPitchWarnings(pitch)

	distanceModel := models.NewDistanceModel(pitch)
	velocityModel := models.NewVelocityModel(pitch)
	accelerationModel := models.NewAccelerationModel(pitch)
	metabolicModel := models.NewMetabolicPowerModel(pitch)
	centroidModel := models.NewCentroidModel()
	hullModel := models.NewConvexHullModel()
	fits := []struct {
		name string
		fit  func() error
	}{
		{distanceModel.Name(), func() error { return distanceModel.Fit(xy, difference, schema.AxisBoth) }},
		{velocityModel.Name(), func() error { return velocityModel.Fit(xy, difference) }},
		{accelerationModel.Name(), func() error { return accelerationModel.Fit(xy, difference) }},
		{metabolicModel.Name(), func() error { return metabolicModel.Fit(xy, difference) }},
		{centroidModel.Name(), func() error { return centroidModel.Fit(xy, exclude) }},
		{hullModel.Name(), func() error { return hullModel.Fit(xy, exclude) }},
	}
	for _, f := range fits {
		if err := fitTimed(f.name, f.fit); err != nil {
			return nil, err
		}
	}
	metrics.AddFrames(xy.Len())

	var rows []parquet.PropertyRow
	for _, query := range []func() (*core.PlayerProperty, error){
		velocityModel.Velocity,
		accelerationModel.Acceleration,
		distanceModel.CumulativeDistanceCovered,
		metabolicModel.MetabolicPower,
		func() (*core.PlayerProperty, error) {
			return metabolicModel.CumulativeEquivalentDistance(models.DefaultRunningCost)
		},
	} {
		p, err := query()
		if err != nil {
			return nil, err
		}
		rows = append(rows, parquet.PlayerPropertyRows(p)...)
	}

	team, err := xy.MaskEntities(exclude)
	if err != nil {
		return nil, err
	}
	stretch, err := centroidModel.StretchIndex(team, schema.AxisBoth)
	if err != nil {
		return nil, err
	}
	area, err := hullModel.AreaConvexHull()
	if err != nil {
		return nil, err
	}
	rows = append(rows, parquet.TeamPropertyRows(stretch)...)
	return append(rows, parquet.TeamPropertyRows(area)...), nil
}

// ExecuteProperties writes the frame-wise model outputs of the tracking file at path to
// cfg.OutputFile as long Parquet rows.
func ExecuteProperties(ctx context.Context, cfg *contract.Config, _ contract.CacheManager, path string) error {
	if cfg.OutputFile == "" {
		return errNeedsOutputFile
	}
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Tracking")
	}
	pitch, err := cfg.Pitch()
	if err != nil {
		return err
	}
	xy, err := readXY(cfg, path)
	if err != nil {
		return err
	}
	rows, err := ComputeProperties(xy, pitch, cfg.Difference, cfg.Excludes)
	if err != nil {
		return err
	}
	if err := parquet.WritePropertiesParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d property rows to %s\n", len(rows), cfg.OutputFile)
	return nil
}

// ExecuteConvertXY rewrites the tracking file at path as long Parquet rows in cfg.OutputFile.
func ExecuteConvertXY(ctx context.Context, cfg *contract.Config, _ contract.CacheManager, path string) error {
	if cfg.OutputFile == "" {
		return errNeedsOutputFile
	}
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, path, "Tracking")
	}
	xy, err := readXY(cfg, path)
	if err != nil {
		return err
	}
	metrics.AddFrames(xy.Len())
	if err := parquet.WriteXYParquet(xy, cfg.OutputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d frames of %d entities to %s\n", xy.Len(), xy.N(), cfg.OutputFile)
	return nil
}
