package core

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// Code is a frame-aligned sequence of coded game states (possession, ball status, ...)
// with a legend mapping raw code values to human-readable meanings.
type Code struct {
	values      []float64
	name        string
	definitions map[float64]string
	framerate   float64
}

// CodeOption configures optional Code attributes at construction.
type CodeOption func(*Code)

// WithDefinitions attaches a legend from code value to meaning.
func WithDefinitions(defs map[float64]string) CodeOption {
	return func(c *Code) {
		c.definitions = maps.Clone(defs)
	}
}

// NewCode builds a Code container. Values are copied; NaN marks frames without a state.
func NewCode(values []float64, name string, framerate float64, opts ...CodeOption) (*Code, error) {
	if err := validateFramerate(framerate); err != nil {
		return nil, err
	}
	c := &Code{values: slices.Clone(values), name: name, framerate: framerate}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// String implements fmt.Stringer.
func (c *Code) String() string {
	return fmt.Sprintf("Code object %q of length %d at %g fps", c.name, len(c.values), c.framerate)
}

// Len returns the number of frames.
func (c *Code) Len() int { return len(c.values) }

// Name returns the name of the encoded state.
func (c *Code) Name() string { return c.name }

// Framerate returns the sampling frequency in frames per second.
func (c *Code) Framerate() float64 { return c.framerate }

// Definitions returns a copy of the legend.
func (c *Code) Definitions() map[float64]string { return maps.Clone(c.definitions) }

// Values returns a copy of the code sequence.
func (c *Code) Values() []float64 { return slices.Clone(c.values) }

// At returns the code at frame i.
func (c *Code) At(i int) (float64, error) {
	if i < 0 || i >= len(c.values) {
		return 0, fmt.Errorf("%w: frame %d outside [0, %d)", ErrRange, i, len(c.values))
	}
	return c.values[i], nil
}

// Label resolves the code at frame i through the legend.
func (c *Code) Label(i int) (string, error) {
	v, err := c.At(i)
	if err != nil {
		return "", err
	}
	return c.LabelOf(v)
}

// LabelOf resolves a code value through the legend. Values outside the legend are
// permitted in the sequence but have no label.
func (c *Code) LabelOf(v float64) (string, error) {
	label, ok := c.definitions[v]
	if !ok || math.IsNaN(v) {
		return "", fmt.Errorf("%w: code %g has no definition in %q", ErrKey, v, c.name)
	}
	return label, nil
}

// Token returns the sorted distinct non-missing code values.
func (c *Code) Token() []float64 {
	seen := make(map[float64]struct{})
	for _, v := range c.values {
		if !math.IsNaN(v) {
			seen[v] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

func (c *Code) compare(pred func(float64) bool) Mask {
	out := make(Mask, len(c.values))
	for i, v := range c.values {
		out[i] = pred(v)
	}
	return out
}

// Equals marks frames whose code equals v.
func (c *Code) Equals(v float64) Mask {
	return c.compare(func(x float64) bool { return x == v })
}

// NotEquals marks frames whose code differs from v. Missing frames differ from everything.
func (c *Code) NotEquals(v float64) Mask {
	return c.compare(func(x float64) bool { return x != v })
}

// Greater marks frames whose code is greater than v.
func (c *Code) Greater(v float64) Mask {
	return c.compare(func(x float64) bool { return x > v })
}

// GreaterEqual marks frames whose code is at least v.
func (c *Code) GreaterEqual(v float64) Mask {
	return c.compare(func(x float64) bool { return x >= v })
}

// Less marks frames whose code is less than v.
func (c *Code) Less(v float64) Mask {
	return c.compare(func(x float64) bool { return x < v })
}

// LessEqual marks frames whose code is at most v.
func (c *Code) LessEqual(v float64) Mask {
	return c.compare(func(x float64) bool { return x <= v })
}

// EqualsCode compares two codes frame by frame.
func (c *Code) EqualsCode(other *Code) (Mask, error) {
	if len(c.values) != len(other.values) {
		return nil, fmt.Errorf("%w: code %q has %d frames, code %q has %d", ErrLengthMismatch,
			c.name, len(c.values), other.name, len(other.values))
	}
	out := make(Mask, len(c.values))
	for i := range c.values {
		out[i] = c.values[i] == other.values[i]
	}
	return out, nil
}

// Slice restricts the code to the half-open frame range [start, end), clamped to the
// available frames. An empty resulting range fails with ErrRange.
func (c *Code) Slice(start, end int, opts ...TransformOption) (*Code, error) {
	s, e, ok := clampSpan(start, end, len(c.values))
	if !ok {
		return nil, fmt.Errorf("%w: slice [%d, %d) is empty for %d frames", ErrRange, start, end, len(c.values))
	}
	values := slices.Clone(c.values[s:e])
	if applyTransformOptions(opts).inPlace {
		c.values = values
		return c, nil
	}
	return &Code{values: values, name: c.name, definitions: maps.Clone(c.definitions), framerate: c.framerate}, nil
}
