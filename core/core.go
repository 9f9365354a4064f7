// Package core has the normalized, provider-independent containers for sports tracking
// and event data: positions (XY), coded states (Code), discrete events (Events), pitch
// descriptors (Pitch), derived per-entity properties, identifier linkage, and the
// segment/observation composition that ties them together.
//
// Missing samples are always the NaN sentinel and propagate through every transform.
// Frame-based containers that describe the same team and segment must share their
// row count and framerate to be jointly indexed.
package core

import (
	"fmt"
	"math"
)

// Framed is implemented by every frame-based container.
type Framed interface {
	Len() int
	Framerate() float64
}

// CheckAligned verifies that two frame-based containers can be jointly indexed.
func CheckAligned(a, b Framed) error {
	if a.Len() != b.Len() {
		return fmt.Errorf("%w: %d frames vs %d frames", ErrLengthMismatch, a.Len(), b.Len())
	}
	if !sameFramerate(a.Framerate(), b.Framerate()) {
		return fmt.Errorf("%w: %g fps vs %g fps", ErrFramerateMismatch, a.Framerate(), b.Framerate())
	}
	return nil
}

// sameFramerate treats two unset (zero) framerates as equal.
func sameFramerate(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func validateFramerate(framerate float64) error {
	if math.IsNaN(framerate) || math.IsInf(framerate, 0) || framerate <= 0 {
		return fmt.Errorf("%w: framerate must be a positive number, got %g", ErrInvalidArgument, framerate)
	}
	return nil
}
