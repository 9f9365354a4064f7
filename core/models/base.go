// Package models computes derived properties from tracking data. Every model follows a
// two-phase contract: Fit performs the computation once, then query methods return
// Property containers. Queries before Fit fail with core.ErrNotFitted.
package models

import (
	"fmt"

	"github.com/huangsam/touchline/core"
)

// BaseModel holds the state shared by all models.
type BaseModel struct {
	name   string
	pitch  *core.Pitch
	fitted bool
}

func newBaseModel(name string, pitch *core.Pitch) BaseModel {
	return BaseModel{name: name, pitch: pitch}
}

// Name returns the model name, used as a metrics label and cache key component.
func (b *BaseModel) Name() string { return b.name }

// Pitch returns the pitch the model interprets coordinates with, possibly nil.
func (b *BaseModel) Pitch() *core.Pitch { return b.pitch }

// IsFitted reports whether Fit completed successfully.
func (b *BaseModel) IsFitted() bool { return b.fitted }

// String implements fmt.Stringer.
func (b *BaseModel) String() string {
	return fmt.Sprintf("%s (fitted: %t)", b.name, b.fitted)
}

func (b *BaseModel) requireFitted(query string) error {
	if !b.fitted {
		return fmt.Errorf("%w: call Fit on %s before querying %s", core.ErrNotFitted, b.name, query)
	}
	return nil
}

// CheckPitch returns warnings about pitch configurations that may distort results. An
// empty result means the pitch is fine.
func CheckPitch(pitch *core.Pitch) []string {
	if pitch == nil {
		return []string{"model initialized without pitch, coordinates are assumed to be in meters"}
	}
	if !pitch.IsMetrical() {
		return []string{fmt.Sprintf("model initialized with non-metrical pitch (%s), results may be distorted", pitch)}
	}
	return nil
}

// meterFactors returns the factors converting coordinates to meters for an optional pitch.
func meterFactors(pitch *core.Pitch) (float64, float64, error) {
	if pitch == nil {
		return 1, 1, nil
	}
	return pitch.MeterFactors()
}
