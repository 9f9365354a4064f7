package core

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/touchline/schema"
)

// XY is a frame-indexed matrix of interleaved (x, y) coordinates, one pair of columns per
// tracked entity, for one team and one segment.
type XY struct {
	data      []float64 // row-major: frames x cols
	frames    int
	cols      int
	framerate float64
	direction schema.Direction
}

// XYOption configures optional XY attributes at construction.
type XYOption func(*XY)

// WithDirection sets the playing direction of the tracked team.
func WithDirection(d schema.Direction) XYOption {
	return func(xy *XY) {
		xy.direction = d
	}
}

// NewXY builds an XY container from a frames x columns matrix. The matrix is copied.
// It fails with ErrShape for ragged rows or an odd column count.
func NewXY(matrix [][]float64, framerate float64, opts ...XYOption) (*XY, error) {
	cols := 0
	if len(matrix) > 0 {
		cols = len(matrix[0])
	}
	data := make([]float64, 0, len(matrix)*cols)
	for i, row := range matrix {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrShape, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return newXY(data, len(matrix), cols, framerate, opts)
}

// NewXYFromFlat builds an XY container from row-major data with the given column count.
// The data is copied.
func NewXYFromFlat(data []float64, cols int, framerate float64, opts ...XYOption) (*XY, error) {
	if cols <= 0 {
		if len(data) > 0 {
			return nil, fmt.Errorf("%w: %d values cannot be laid out in %d columns", ErrShape, len(data), cols)
		}
		return newXY(nil, 0, 0, framerate, opts)
	}
	if len(data)%cols != 0 {
		return nil, fmt.Errorf("%w: %d values are not a multiple of %d columns", ErrShape, len(data), cols)
	}
	return newXY(slices.Clone(data), len(data)/cols, cols, framerate, opts)
}

func newXY(data []float64, frames, cols int, framerate float64, opts []XYOption) (*XY, error) {
	if cols%2 != 0 {
		return nil, fmt.Errorf("%w: XY has an odd number of columns (%d)", ErrShape, cols)
	}
	if err := validateFramerate(framerate); err != nil {
		return nil, err
	}
	xy := &XY{data: data, frames: frames, cols: cols, framerate: framerate}
	for _, opt := range opts {
		opt(xy)
	}
	return xy, nil
}

// String implements fmt.Stringer.
func (xy *XY) String() string {
	return fmt.Sprintf("XY object of shape (%d, %d) at %g fps", xy.frames, xy.cols, xy.framerate)
}

// Len returns the number of frames.
func (xy *XY) Len() int { return xy.frames }

// N returns the number of tracked entities.
func (xy *XY) N() int { return xy.cols / 2 }

// Framerate returns the sampling frequency in frames per second.
func (xy *XY) Framerate() float64 { return xy.framerate }

// Direction returns the playing direction, if known.
func (xy *XY) Direction() schema.Direction { return xy.direction }

// Clone returns a deep copy.
func (xy *XY) Clone() *XY {
	out := *xy
	out.data = slices.Clone(xy.data)
	return &out
}

// Raw returns a copy of the backing matrix.
func (xy *XY) Raw() [][]float64 {
	out := make([][]float64, xy.frames)
	for t := range xy.frames {
		out[t] = slices.Clone(xy.row(t))
	}
	return out
}

func (xy *XY) row(t int) []float64 {
	return xy.data[t*xy.cols : (t+1)*xy.cols]
}

// Frame returns a copy of all coordinates at frame t.
func (xy *XY) Frame(t int) ([]float64, error) {
	if t < 0 || t >= xy.frames {
		return nil, fmt.Errorf("%w: frame %d outside [0, %d)", ErrRange, t, xy.frames)
	}
	return slices.Clone(xy.row(t)), nil
}

// Point returns the position of one entity at frame t.
func (xy *XY) Point(t, entity int) (float64, float64, error) {
	if t < 0 || t >= xy.frames {
		return 0, 0, fmt.Errorf("%w: frame %d outside [0, %d)", ErrRange, t, xy.frames)
	}
	if entity < 0 || entity >= xy.N() {
		return 0, 0, fmt.Errorf("%w: entity %d outside [0, %d)", ErrRange, entity, xy.N())
	}
	r := xy.row(t)
	return r[2*entity], r[2*entity+1], nil
}

// Select returns a container restricted to one entity's (x, y) columns.
func (xy *XY) Select(entity int) (*XY, error) {
	if entity < 0 || entity >= xy.N() {
		return nil, fmt.Errorf("%w: entity %d outside [0, %d)", ErrRange, entity, xy.N())
	}
	data := make([]float64, 0, 2*xy.frames)
	for t := range xy.frames {
		r := xy.row(t)
		data = append(data, r[2*entity], r[2*entity+1])
	}
	out := &XY{data: data, frames: xy.frames, cols: 2, framerate: xy.framerate, direction: xy.direction}
	return out, nil
}

// MaskEntities returns a copy where the coordinates of the given entities are missing.
func (xy *XY) MaskEntities(entities []int) (*XY, error) {
	for _, e := range entities {
		if e < 0 || e >= xy.N() {
			return nil, fmt.Errorf("%w: entity %d outside [0, %d)", ErrRange, e, xy.N())
		}
	}
	out := xy.Clone()
	for t := range out.frames {
		r := out.row(t)
		for _, e := range entities {
			r[2*e], r[2*e+1] = NaN, NaN
		}
	}
	return out, nil
}

// Coordinate returns the frames x N matrix of one axis across all entities.
func (xy *XY) Coordinate(axis schema.Axis) ([][]float64, error) {
	var offset int
	switch axis {
	case schema.AxisX:
		offset = 0
	case schema.AxisY:
		offset = 1
	default:
		return nil, fmt.Errorf("%w: expected axis to be one of (x, y), got %q", ErrInvalidArgument, axis)
	}
	n := xy.N()
	out := make([][]float64, xy.frames)
	for t := range xy.frames {
		r := xy.row(t)
		vals := make([]float64, n)
		for i := range n {
			vals[i] = r[2*i+offset]
		}
		out[t] = vals
	}
	return out, nil
}

// X returns all x coordinates (frames x N).
func (xy *XY) X() [][]float64 {
	out, _ := xy.Coordinate(schema.AxisX)
	return out
}

// Y returns all y coordinates (frames x N).
func (xy *XY) Y() [][]float64 {
	out, _ := xy.Coordinate(schema.AxisY)
	return out
}

// EntityTrack returns the x and y series of one entity.
func (xy *XY) EntityTrack(entity int) ([]float64, []float64, error) {
	if entity < 0 || entity >= xy.N() {
		return nil, nil, fmt.Errorf("%w: entity %d outside [0, %d)", ErrRange, entity, xy.N())
	}
	xs := make([]float64, xy.frames)
	ys := make([]float64, xy.frames)
	for t := range xy.frames {
		r := xy.row(t)
		xs[t], ys[t] = r[2*entity], r[2*entity+1]
	}
	return xs, ys, nil
}

// Slice restricts the container to the half-open frame range [start, end). Bounds are
// clamped to the available frames; an empty resulting range fails with ErrRange.
func (xy *XY) Slice(start, end int, opts ...TransformOption) (*XY, error) {
	s, e, ok := clampSpan(start, end, xy.frames)
	if !ok {
		return nil, fmt.Errorf("%w: slice [%d, %d) is empty for %d frames", ErrRange, start, end, xy.frames)
	}
	data := slices.Clone(xy.data[s*xy.cols : e*xy.cols])
	cfg := applyTransformOptions(opts)
	if cfg.inPlace {
		xy.data, xy.frames = data, e-s
		return xy, nil
	}
	out := *xy
	out.data, out.frames = data, e-s
	return &out, nil
}

// Filter keeps the frames selected by a mask of the same length.
func (xy *XY) Filter(mask Mask) (*XY, error) {
	if len(mask) != xy.frames {
		return nil, fmt.Errorf("%w: mask of length %d for XY of length %d", ErrLengthMismatch, len(mask), xy.frames)
	}
	data := make([]float64, 0, mask.Count()*xy.cols)
	for t, keep := range mask {
		if keep {
			data = append(data, xy.row(t)...)
		}
	}
	out := *xy
	out.data, out.frames = data, mask.Count()
	return &out, nil
}

// FilterCode keeps the frames where the aligned code equals value.
func (xy *XY) FilterCode(code *Code, value float64) (*XY, error) {
	if err := CheckAligned(xy, code); err != nil {
		return nil, err
	}
	return xy.Filter(code.Equals(value))
}

// target returns the instance a transform should write to.
func (xy *XY) target(opts []TransformOption) *XY {
	if applyTransformOptions(opts).inPlace {
		return xy
	}
	return xy.Clone()
}

func (xy *XY) mapPairs(fn func(x, y float64) (float64, float64)) {
	for i := 0; i+1 < len(xy.data); i += 2 {
		xy.data[i], xy.data[i+1] = fn(xy.data[i], xy.data[i+1])
	}
}

// Translate shifts every position by (dx, dy).
func (xy *XY) Translate(dx, dy float64, opts ...TransformOption) *XY {
	out := xy.target(opts)
	out.mapPairs(func(x, y float64) (float64, float64) {
		return x + dx, y + dy
	})
	return out
}

// ScaleXY multiplies x coordinates by fx and y coordinates by fy.
func (xy *XY) ScaleXY(fx, fy float64, opts ...TransformOption) *XY {
	out := xy.target(opts)
	out.mapPairs(func(x, y float64) (float64, float64) {
		return x * fx, y * fy
	})
	return out
}

// Scale multiplies coordinates by factor along one axis, or both when axis is AxisBoth.
func (xy *XY) Scale(factor float64, axis schema.Axis, opts ...TransformOption) (*XY, error) {
	fx, fy, err := axisFactors(factor, axis)
	if err != nil {
		return nil, err
	}
	return xy.ScaleXY(fx, fy, opts...), nil
}

// Reflect mirrors the data on the given axis: reflecting on x negates y and vice versa.
func (xy *XY) Reflect(axis schema.Axis, opts ...TransformOption) (*XY, error) {
	switch axis {
	case schema.AxisX:
		return xy.ScaleXY(1, -1, opts...), nil
	case schema.AxisY:
		return xy.ScaleXY(-1, 1, opts...), nil
	default:
		return nil, fmt.Errorf("%w: expected axis to be one of (x, y), got %q", ErrInvalidArgument, axis)
	}
}

// Rotate turns every position counterclockwise by degrees about the coordinate origin.
func (xy *XY) Rotate(degrees float64, opts ...TransformOption) *XY {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	out := xy.target(opts)
	out.mapPairs(func(x, y float64) (float64, float64) {
		return x*cos - y*sin, x*sin + y*cos
	})
	return out
}

func axisFactors(factor float64, axis schema.Axis) (float64, float64, error) {
	switch axis {
	case schema.AxisBoth:
		return factor, factor, nil
	case schema.AxisX:
		return factor, 1, nil
	case schema.AxisY:
		return 1, factor, nil
	default:
		return 0, 0, fmt.Errorf("%w: expected axis to be one of (x, y, both), got %q", ErrInvalidArgument, axis)
	}
}
