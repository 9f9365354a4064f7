package core

import "fmt"

// Mask is a frame-aligned boolean selector produced by comparisons on coded containers.
type Mask []bool

// Count returns the number of selected frames.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Not returns the complement of the mask.
func (m Mask) Not() Mask {
	out := make(Mask, len(m))
	for i, v := range m {
		out[i] = !v
	}
	return out
}

// And combines two masks frame by frame.
func (m Mask) And(other Mask) (Mask, error) {
	if len(m) != len(other) {
		return nil, fmt.Errorf("%w: cannot combine masks of length %d and %d", ErrLengthMismatch, len(m), len(other))
	}
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && other[i]
	}
	return out, nil
}

// Or combines two masks frame by frame.
func (m Mask) Or(other Mask) (Mask, error) {
	if len(m) != len(other) {
		return nil, fmt.Errorf("%w: cannot combine masks of length %d and %d", ErrLengthMismatch, len(m), len(other))
	}
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] || other[i]
	}
	return out, nil
}
