package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

const (
	// gravity is standard acceleration due to gravity in m/s^2.
	gravity = 9.80665

	// airResistance is the terrain and air resistance constant of the equivalent slope.
	airResistance = 0.0037

	// DefaultRunningCost is the energy cost of constant-speed running on flat ground in J/(kg*m).
	DefaultRunningCost = 3.6
)

// walkingEdges are the equivalent slopes at which walkingCoeffs are tabulated.
var walkingEdges = []float64{-0.3, -0.2, -0.1, 0, 0.1, 0.2, 0.3, 0.4}

// walkingCoeffs holds, per slope edge, the coefficients of a quartic in speed for the
// energy cost of walking, highest power first.
var walkingCoeffs = [][5]float64{
	{0.28, -1.66, 3.81, -3.96, 4.01},
	{0.03, -0.15, 0.98, -2.25, 3.14},
	{0.69, -3.21, 5.94, -5.07, 2.79},
	{1.25, -6.57, 13.14, -11.15, 5.35},
	{0.68, -4.17, 10.17, -10.31, 8.66},
	{3.80, -14.91, 22.94, -14.53, 11.24},
	{44.95, -122.88, 126.94, -57.46, 21.39},
	{94.62, -213.94, 184.43, -68.49, 25.04},
}

// transitionCoeffs is the quintic in equivalent slope giving the walk to run transition speed.
var transitionCoeffs = [6]float64{-107.05, 113.13, -1.13, -15.84, -1.7, 2.27}

// MetabolicPowerModel estimates the energy each entity spends per frame from its speed
// and acceleration, using the equivalent slope approach of di Prampero and Osgnach (2018)
// with the running cost of Minetti and Parvei (2018).
type MetabolicPowerModel struct {
	BaseModel
	power     [][]float64 // frames x N, J/kg per frame
	framerate float64
}

// NewMetabolicPowerModel creates a metabolic power model.
func NewMetabolicPowerModel(pitch *core.Pitch) *MetabolicPowerModel {
	return &MetabolicPowerModel{BaseModel: newBaseModel("metabolic_power", pitch)}
}

// Fit derives speed and acceleration with the given difference method and converts them
// to energy expenditure. Frames with missing speed or acceleration stay missing.
func (m *MetabolicPowerModel) Fit(xy *core.XY, difference schema.Difference) error {
	velocity, err := velocities(xy, m.pitch, difference)
	if err != nil {
		return err
	}
	framerate := xy.Framerate()
	speed := columns(velocity, xy.N())
	power := make([][]float64, len(speed))
	for j, series := range speed {
		acc := differentiate(series, difference)
		out := make([]float64, len(series))
		for t, v := range series {
			a := acc[t] * framerate
			if core.IsMissing(v) || core.IsMissing(a) {
				out[t] = core.NaN
				continue
			}
			out[t] = locomotionCost(v, a) * v / framerate
		}
		power[j] = out
	}
	m.power, m.framerate, m.fitted = rows(power, xy.Len()), framerate, true
	return nil
}

// MetabolicPower returns the energy spent per frame and entity in J/kg.
func (m *MetabolicPowerModel) MetabolicPower() (*core.PlayerProperty, error) {
	if err := m.requireFitted("metabolic power"); err != nil {
		return nil, err
	}
	return core.NewPlayerProperty(m.power, "metabolic_power", m.framerate)
}

// CumulativeMetabolicPower returns the running total of energy spent, skipping missing frames.
func (m *MetabolicPowerModel) CumulativeMetabolicPower() (*core.PlayerProperty, error) {
	if err := m.requireFitted("cumulative metabolic power"); err != nil {
		return nil, err
	}
	return core.NewPlayerProperty(m.cumulative(1), "cumulative_metabolic_power", m.framerate)
}

// EquivalentDistance returns the distance that would cost the same energy at constant
// running speed on flat ground. runningCost is in J/(kg*m); see DefaultRunningCost.
func (m *MetabolicPowerModel) EquivalentDistance(runningCost float64) (*core.PlayerProperty, error) {
	if err := m.requireFitted("equivalent distance"); err != nil {
		return nil, err
	}
	if runningCost <= 0 {
		return nil, fmt.Errorf("%w: running cost must be positive, got %v", core.ErrInvalidArgument, runningCost)
	}
	out := make([][]float64, len(m.power))
	for t, row := range m.power {
		out[t] = make([]float64, len(row))
		for j, v := range row {
			out[t][j] = v / runningCost
		}
	}
	return core.NewPlayerProperty(out, "equivalent_distance", m.framerate)
}

// CumulativeEquivalentDistance returns the running total of equivalent distance.
func (m *MetabolicPowerModel) CumulativeEquivalentDistance(runningCost float64) (*core.PlayerProperty, error) {
	if err := m.requireFitted("cumulative equivalent distance"); err != nil {
		return nil, err
	}
	if runningCost <= 0 {
		return nil, fmt.Errorf("%w: running cost must be positive, got %v", core.ErrInvalidArgument, runningCost)
	}
	return core.NewPlayerProperty(m.cumulative(runningCost), "cumulative_equivalent_distance", m.framerate)
}

func (m *MetabolicPowerModel) cumulative(divisor float64) [][]float64 {
	n := 0
	if len(m.power) > 0 {
		n = len(m.power[0])
	}
	series := columns(m.power, n)
	for j := range series {
		series[j] = core.NanCumSum(series[j])
		for t := range series[j] {
			series[j][t] /= divisor
		}
	}
	return rows(series, len(m.power))
}

// locomotionCost is the energy cost of moving at speed v with acceleration a in J/(kg*m).
func locomotionCost(v, a float64) float64 {
	es := a/gravity + airResistance*v*v/gravity
	em := math.Sqrt(es*es + 1)
	if v > 2.5 || v >= horner(transitionCoeffs[:], es) {
		return runningCost(es) * em
	}
	return walkingCost(es, v) * em
}

func runningCost(es float64) float64 {
	if es < 0 {
		return -8.34*es + 3.6*math.Exp(13*es)
	}
	return 39.5*es + 3.6*math.Exp(-4*es)
}

// walkingCost interpolates linearly between the two tabulated slopes around es and clamps
// outside the table.
func walkingCost(es, v float64) float64 {
	i := sort.SearchFloat64s(walkingEdges, es)
	switch {
	case i == 0:
		return horner(walkingCoeffs[0][:], v)
	case i == len(walkingEdges):
		return horner(walkingCoeffs[len(walkingCoeffs)-1][:], v)
	}
	lo, hi := walkingEdges[i-1], walkingEdges[i]
	w := (es - lo) / (hi - lo)
	return (1-w)*horner(walkingCoeffs[i-1][:], v) + w*horner(walkingCoeffs[i][:], v)
}

// horner evaluates a polynomial with coefficients ordered from the highest power.
func horner(coeffs []float64, x float64) float64 {
	var out float64
	for _, c := range coeffs {
		out = out*x + c
	}
	return out
}
