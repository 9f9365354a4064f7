package core

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/huangsam/touchline/schema"
)

// Pitch describes how a rectangular playing surface is embedded in a Cartesian coordinate
// system. It is immutable once built and is never required by container operations.
type Pitch struct {
	xlim, ylim [2]float64
	unit       schema.Unit
	boundaries schema.Boundaries
	length     *float64
	width      *float64
	sport      string
}

// PitchOption sets an optional Pitch attribute.
type PitchOption func(*Pitch)

// WithLength sets the true pitch length. Fixed pitches measure it in their unit, flexible
// pitches in meters.
func WithLength(length float64) PitchOption {
	return func(p *Pitch) { p.length = &length }
}

// WithWidth sets the true pitch width, measured like WithLength.
func WithWidth(width float64) PitchOption {
	return func(p *Pitch) { p.width = &width }
}

// WithSport tags the pitch with a sport name.
func WithSport(sport string) PitchOption {
	return func(p *Pitch) { p.sport = sport }
}

// NewPitch builds a pitch descriptor. Limits must be finite and increasing, boundaries must be
// fixed or flexible, and optional dimensions must be positive.
func NewPitch(xlim, ylim [2]float64, unit schema.Unit, boundaries schema.Boundaries, opts ...PitchOption) (*Pitch, error) {
	for name, lim := range map[string][2]float64{"xlim": xlim, "ylim": ylim} {
		if !isFinite(lim[0]) || !isFinite(lim[1]) || lim[0] >= lim[1] {
			return nil, fmt.Errorf("%w: %s must be a finite increasing pair, got %v", ErrInvalidArgument, name, lim)
		}
	}
	if boundaries != schema.FixedBoundaries && boundaries != schema.FlexibleBoundaries {
		return nil, fmt.Errorf("%w: boundaries must be %q or %q, got %q", ErrInvalidArgument,
			schema.FixedBoundaries, schema.FlexibleBoundaries, boundaries)
	}
	if unit == "" {
		return nil, fmt.Errorf("%w: pitch unit is required", ErrInvalidArgument)
	}
	p := &Pitch{xlim: xlim, ylim: ylim, unit: unit, boundaries: boundaries}
	for _, opt := range opts {
		opt(p)
	}
	for name, dim := range map[string]*float64{"length": p.length, "width": p.width} {
		if dim != nil && (!isFinite(*dim) || *dim <= 0) {
			return nil, fmt.Errorf("%w: pitch %s must be positive, got %g", ErrInvalidArgument, name, *dim)
		}
	}
	return p, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// XLim returns the longitudinal limits.
func (p *Pitch) XLim() [2]float64 { return p.xlim }

// YLim returns the lateral limits.
func (p *Pitch) YLim() [2]float64 { return p.ylim }

// Unit returns the coordinate unit.
func (p *Pitch) Unit() schema.Unit { return p.unit }

// Boundaries returns whether the limits are physical or standardized.
func (p *Pitch) Boundaries() schema.Boundaries { return p.boundaries }

// Length returns the true pitch length if known.
func (p *Pitch) Length() (float64, bool) {
	if p.length == nil {
		return 0, false
	}
	return *p.length, true
}

// Width returns the true pitch width if known.
func (p *Pitch) Width() (float64, bool) {
	if p.width == nil {
		return 0, false
	}
	return *p.width, true
}

// Sport returns the sport tag, possibly empty.
func (p *Pitch) Sport() string { return p.sport }

// Center returns the midpoint of the limits, rounded to three decimals.
func (p *Pitch) Center() (float64, float64) {
	return round3((p.xlim[0] + p.xlim[1]) / 2), round3((p.ylim[0] + p.ylim[1]) / 2)
}

// IsMetrical reports whether coordinates are physical distances in a metric unit.
func (p *Pitch) IsMetrical() bool {
	return p.boundaries == schema.FixedBoundaries && (p.unit == schema.UnitMeter || p.unit == schema.UnitCentimeter)
}

// RescaleFactors returns the per-axis factors converting coordinates to true dimensions:
// true dimension / limit span. Fixed pitches are already true to scale and return (1, 1).
// Flexible pitches need both length and width, otherwise ErrInvalidArgument.
func (p *Pitch) RescaleFactors() (float64, float64, error) {
	if p.boundaries == schema.FixedBoundaries {
		return 1, 1, nil
	}
	if p.length == nil || p.width == nil {
		return 0, 0, fmt.Errorf("%w: flexible pitch needs length and width to rescale", ErrInvalidArgument)
	}
	return *p.length / (p.xlim[1] - p.xlim[0]), *p.width / (p.ylim[1] - p.ylim[0]), nil
}

// MeterFactors returns the per-axis factors converting coordinates to meters.
func (p *Pitch) MeterFactors() (float64, float64, error) {
	if p.boundaries == schema.FlexibleBoundaries {
		return p.RescaleFactors()
	}
	switch p.unit {
	case schema.UnitMeter:
		return 1, 1, nil
	case schema.UnitCentimeter:
		return 0.01, 0.01, nil
	default:
		return 0, 0, fmt.Errorf("%w: cannot convert fixed pitch unit %q to meters", ErrInvalidArgument, p.unit)
	}
}

// String implements fmt.Stringer.
func (p *Pitch) String() string {
	return fmt.Sprintf("Pitch of size x = (%g, %g) / y = (%g, %g) (%s) in [%s]",
		p.xlim[0], p.xlim[1], p.ylim[0], p.ylim[1], p.boundaries, p.unit)
}

type pitchTemplate struct {
	unit       schema.Unit
	boundaries schema.Boundaries
	// standard limits; nil when limits are centered on the caller's dimensions
	xlim, ylim *[2]float64
}

var pitchTemplates = map[string]pitchTemplate{
	"opta": {
		unit: schema.UnitPercent, boundaries: schema.FlexibleBoundaries,
		xlim: &[2]float64{0, 100}, ylim: &[2]float64{0, 100},
	},
	"chyronhego_international": {unit: schema.UnitMeter, boundaries: schema.FixedBoundaries},
	"statsperform":             {unit: schema.UnitMeter, boundaries: schema.FixedBoundaries},
}

// PitchTemplates lists the names accepted by FromTemplate.
func PitchTemplates() []string {
	return slices.Sorted(maps.Keys(pitchTemplates))
}

// FromTemplate builds a pitch from a named provider preset. Centered metric templates need
// WithLength and WithWidth and fail with ErrInvalidArgument without them; unknown names fail
// with ErrKey.
func FromTemplate(name string, opts ...PitchOption) (*Pitch, error) {
	tpl, ok := pitchTemplates[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported pitch template %q (supported: %s)", ErrKey, name,
			strings.Join(PitchTemplates(), ", "))
	}
	if tpl.xlim != nil {
		return NewPitch(*tpl.xlim, *tpl.ylim, tpl.unit, tpl.boundaries, opts...)
	}
	var dims Pitch
	for _, opt := range opts {
		opt(&dims)
	}
	if dims.length == nil || dims.width == nil {
		return nil, fmt.Errorf("%w: pitch template %q requires length and width", ErrInvalidArgument, name)
	}
	xHalf, yHalf := round3(*dims.length/2), round3(*dims.width/2)
	return NewPitch([2]float64{-xHalf, xHalf}, [2]float64{-yHalf, yHalf}, tpl.unit, tpl.boundaries, opts...)
}

func round3(v float64) float64 {
	if !isFinite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(3).InexactFloat64()
}
