package models

import (
	"fmt"
	"math"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

// DistanceModel computes the distance each entity covers between consecutive frames.
type DistanceModel struct {
	BaseModel
	distance  [][]float64 // frames x N, meters
	framerate float64
}

// NewDistanceModel creates a distance model. The pitch decides the conversion to meters;
// nil means coordinates are already meters.
func NewDistanceModel(pitch *core.Pitch) *DistanceModel {
	return &DistanceModel{BaseModel: newBaseModel("distance", pitch)}
}

// Fit computes per-frame distances. Axis AxisBoth measures in the plane; AxisX and AxisY
// measure the absolute displacement along one axis.
func (m *DistanceModel) Fit(xy *core.XY, difference schema.Difference, axis schema.Axis) error {
	distance, err := frameDistances(xy, m.pitch, difference, axis)
	if err != nil {
		return err
	}
	m.distance, m.framerate, m.fitted = distance, xy.Framerate(), true
	return nil
}

// DistanceCovered returns the distance covered per frame and entity.
func (m *DistanceModel) DistanceCovered() (*core.PlayerProperty, error) {
	if err := m.requireFitted("distance covered"); err != nil {
		return nil, err
	}
	return core.NewPlayerProperty(m.distance, "distance_covered", m.framerate)
}

// CumulativeDistanceCovered returns the running total of distance per entity, skipping
// missing frames.
func (m *DistanceModel) CumulativeDistanceCovered() (*core.PlayerProperty, error) {
	if err := m.requireFitted("cumulative distance covered"); err != nil {
		return nil, err
	}
	n := 0
	if len(m.distance) > 0 {
		n = len(m.distance[0])
	}
	series := columns(m.distance, n)
	for j := range series {
		series[j] = core.NanCumSum(series[j])
	}
	return core.NewPlayerProperty(rows(series, len(m.distance)), "cumulative_distance_covered", m.framerate)
}

func frameDistances(xy *core.XY, pitch *core.Pitch, difference schema.Difference, axis schema.Axis) ([][]float64, error) {
	if err := validateDifference(difference); err != nil {
		return nil, err
	}
	if axis != schema.AxisBoth && axis != schema.AxisX && axis != schema.AxisY {
		return nil, fmt.Errorf("%w: expected axis to be one of (x, y, both), got %q", core.ErrInvalidArgument, axis)
	}
	fx, fy, err := meterFactors(pitch)
	if err != nil {
		return nil, err
	}
	n := xy.N()
	dx := columns(xy.X(), n)
	dy := columns(xy.Y(), n)
	for j := range n {
		dx[j] = differentiate(dx[j], difference)
		dy[j] = differentiate(dy[j], difference)
		for t := range dx[j] {
			ax, ay := dx[j][t]*fx, dy[j][t]*fy
			switch axis {
			case schema.AxisX:
				dx[j][t] = math.Abs(ax)
			case schema.AxisY:
				dx[j][t] = math.Abs(ay)
			default:
				dx[j][t] = math.Hypot(ax, ay)
			}
		}
	}
	return rows(dx, xy.Len()), nil
}

// VelocityModel computes entity speed in meters per second.
type VelocityModel struct {
	BaseModel
	velocity  [][]float64
	framerate float64
}

// NewVelocityModel creates a velocity model.
func NewVelocityModel(pitch *core.Pitch) *VelocityModel {
	return &VelocityModel{BaseModel: newBaseModel("velocity", pitch)}
}

// Fit computes planar speed as distance per frame times framerate.
func (m *VelocityModel) Fit(xy *core.XY, difference schema.Difference) error {
	velocity, err := velocities(xy, m.pitch, difference)
	if err != nil {
		return err
	}
	m.velocity, m.framerate, m.fitted = velocity, xy.Framerate(), true
	return nil
}

// Velocity returns speed per frame and entity.
func (m *VelocityModel) Velocity() (*core.PlayerProperty, error) {
	if err := m.requireFitted("velocity"); err != nil {
		return nil, err
	}
	return core.NewPlayerProperty(m.velocity, "velocity", m.framerate)
}

func velocities(xy *core.XY, pitch *core.Pitch, difference schema.Difference) ([][]float64, error) {
	distance, err := frameDistances(xy, pitch, difference, schema.AxisBoth)
	if err != nil {
		return nil, err
	}
	for _, row := range distance {
		for j := range row {
			row[j] *= xy.Framerate()
		}
	}
	return distance, nil
}

// AccelerationModel computes the rate of change of entity speed in meters per second squared.
type AccelerationModel struct {
	BaseModel
	acceleration [][]float64
	framerate    float64
}

// NewAccelerationModel creates an acceleration model.
func NewAccelerationModel(pitch *core.Pitch) *AccelerationModel {
	return &AccelerationModel{BaseModel: newBaseModel("acceleration", pitch)}
}

// Fit differentiates velocity over time with the same difference method.
func (m *AccelerationModel) Fit(xy *core.XY, difference schema.Difference) error {
	velocity, err := velocities(xy, m.pitch, difference)
	if err != nil {
		return err
	}
	series := columns(velocity, xy.N())
	for j := range series {
		series[j] = differentiate(series[j], difference)
		for t := range series[j] {
			series[j][t] *= xy.Framerate()
		}
	}
	m.acceleration, m.framerate, m.fitted = rows(series, xy.Len()), xy.Framerate(), true
	return nil
}

// Acceleration returns acceleration per frame and entity.
func (m *AccelerationModel) Acceleration() (*core.PlayerProperty, error) {
	if err := m.requireFitted("acceleration"); err != nil {
		return nil, err
	}
	return core.NewPlayerProperty(m.acceleration, "acceleration", m.framerate)
}
