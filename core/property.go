package core

import (
	"fmt"
	"slices"
)

// frameBuffer is a row-major frames x width matrix shared by the property containers.
type frameBuffer struct {
	data   []float64
	frames int
	width  int
}

func newFrameBuffer(matrix [][]float64, width int) (frameBuffer, error) {
	data := make([]float64, 0, len(matrix)*width)
	for i, row := range matrix {
		if len(row) != width {
			return frameBuffer{}, fmt.Errorf("%w: row %d has %d values, expected %d", ErrShape, i, len(row), width)
		}
		data = append(data, row...)
	}
	return frameBuffer{data: data, frames: len(matrix), width: width}, nil
}

func (b frameBuffer) row(t int) []float64 {
	return b.data[t*b.width : (t+1)*b.width]
}

func (b frameBuffer) slice(start, end int) (frameBuffer, error) {
	s, e, ok := clampSpan(start, end, b.frames)
	if !ok {
		return frameBuffer{}, fmt.Errorf("%w: slice [%d, %d) is empty for %d frames", ErrRange, start, end, b.frames)
	}
	return frameBuffer{data: slices.Clone(b.data[s*b.width : e*b.width]), frames: e - s, width: b.width}, nil
}

func (b frameBuffer) filter(mask Mask) (frameBuffer, error) {
	if len(mask) != b.frames {
		return frameBuffer{}, fmt.Errorf("%w: mask has %d frames, property has %d", ErrLengthMismatch, len(mask), b.frames)
	}
	out := frameBuffer{data: make([]float64, 0, mask.Count()*b.width), frames: mask.Count(), width: b.width}
	for t, keep := range mask {
		if keep {
			out.data = append(out.data, b.row(t)...)
		}
	}
	return out, nil
}

// column returns entry j of every frame.
func (b frameBuffer) column(j int) []float64 {
	out := make([]float64, b.frames)
	for t := range b.frames {
		out[t] = b.data[t*b.width+j]
	}
	return out
}

func (b frameBuffer) reduceColumns(reduce func([]float64) float64) []float64 {
	out := make([]float64, b.width)
	for j := range b.width {
		out[j] = reduce(b.column(j))
	}
	return out
}

func (b frameBuffer) matrix() [][]float64 {
	out := make([][]float64, b.frames)
	for t := range b.frames {
		out[t] = slices.Clone(b.row(t))
	}
	return out
}

// TeamProperty is one frame-aligned value per frame for a whole team, such as a stretch index.
type TeamProperty struct {
	buf       frameBuffer
	name      string
	framerate float64
}

// NewTeamProperty builds a team property from one value per frame. Values are copied.
func NewTeamProperty(values []float64, name string, framerate float64) (*TeamProperty, error) {
	if err := validateFramerate(framerate); err != nil {
		return nil, err
	}
	buf := frameBuffer{data: slices.Clone(values), frames: len(values), width: 1}
	return &TeamProperty{buf: buf, name: name, framerate: framerate}, nil
}

func (p *TeamProperty) String() string {
	return fmt.Sprintf("TeamProperty %q of length %d at %g fps", p.name, p.buf.frames, p.framerate)
}

// Len returns the number of frames.
func (p *TeamProperty) Len() int { return p.buf.frames }

// Name returns the property name.
func (p *TeamProperty) Name() string { return p.name }

// Framerate returns the sampling frequency.
func (p *TeamProperty) Framerate() float64 { return p.framerate }

// Values returns a copy of the per-frame values.
func (p *TeamProperty) Values() []float64 { return slices.Clone(p.buf.data) }

// Slice restricts the property to [start, end), clamped.
func (p *TeamProperty) Slice(start, end int) (*TeamProperty, error) {
	buf, err := p.buf.slice(start, end)
	if err != nil {
		return nil, err
	}
	return &TeamProperty{buf: buf, name: p.name, framerate: p.framerate}, nil
}

// Filter keeps the frames selected by a same-length mask.
func (p *TeamProperty) Filter(mask Mask) (*TeamProperty, error) {
	buf, err := p.buf.filter(mask)
	if err != nil {
		return nil, err
	}
	return &TeamProperty{buf: buf, name: p.name, framerate: p.framerate}, nil
}

// NanMean returns the mean over non-missing frames.
func (p *TeamProperty) NanMean() float64 { return NanMean(p.buf.data) }

// NanSum returns the sum over non-missing frames.
func (p *TeamProperty) NanSum() float64 { return NanSum(p.buf.data) }

// NanMax returns the maximum over non-missing frames.
func (p *TeamProperty) NanMax() float64 { return NanMax(p.buf.data) }

// PlayerProperty is a frames x entities matrix of per-entity values, such as velocity.
type PlayerProperty struct {
	buf       frameBuffer
	name      string
	framerate float64
}

// NewPlayerProperty builds a player property from a frames x entities matrix. The matrix
// is copied and must not be ragged.
func NewPlayerProperty(matrix [][]float64, name string, framerate float64) (*PlayerProperty, error) {
	if err := validateFramerate(framerate); err != nil {
		return nil, err
	}
	width := 0
	if len(matrix) > 0 {
		width = len(matrix[0])
	}
	buf, err := newFrameBuffer(matrix, width)
	if err != nil {
		return nil, err
	}
	return &PlayerProperty{buf: buf, name: name, framerate: framerate}, nil
}

func (p *PlayerProperty) String() string {
	return fmt.Sprintf("PlayerProperty %q of shape (%d, %d) at %g fps", p.name, p.buf.frames, p.buf.width, p.framerate)
}

// Len returns the number of frames.
func (p *PlayerProperty) Len() int { return p.buf.frames }

// N returns the number of entities.
func (p *PlayerProperty) N() int { return p.buf.width }

// Name returns the property name.
func (p *PlayerProperty) Name() string { return p.name }

// Framerate returns the sampling frequency.
func (p *PlayerProperty) Framerate() float64 { return p.framerate }

// At returns the value of an entity at frame t.
func (p *PlayerProperty) At(t, entity int) (float64, error) {
	if t < 0 || t >= p.buf.frames || entity < 0 || entity >= p.buf.width {
		return 0, fmt.Errorf("%w: (%d, %d) outside shape (%d, %d)", ErrRange, t, entity, p.buf.frames, p.buf.width)
	}
	return p.buf.data[t*p.buf.width+entity], nil
}

// Entity returns the series of one entity.
func (p *PlayerProperty) Entity(entity int) ([]float64, error) {
	if entity < 0 || entity >= p.buf.width {
		return nil, fmt.Errorf("%w: entity %d outside [0, %d)", ErrRange, entity, p.buf.width)
	}
	return p.buf.column(entity), nil
}

// Raw returns a copy of the frames x entities matrix.
func (p *PlayerProperty) Raw() [][]float64 { return p.buf.matrix() }

// Slice restricts the property to [start, end), clamped.
func (p *PlayerProperty) Slice(start, end int) (*PlayerProperty, error) {
	buf, err := p.buf.slice(start, end)
	if err != nil {
		return nil, err
	}
	return &PlayerProperty{buf: buf, name: p.name, framerate: p.framerate}, nil
}

// Filter keeps the frames selected by a same-length mask.
func (p *PlayerProperty) Filter(mask Mask) (*PlayerProperty, error) {
	buf, err := p.buf.filter(mask)
	if err != nil {
		return nil, err
	}
	return &PlayerProperty{buf: buf, name: p.name, framerate: p.framerate}, nil
}

// NanMean returns the per-entity mean over non-missing frames.
func (p *PlayerProperty) NanMean() []float64 { return p.buf.reduceColumns(NanMean) }

// NanSum returns the per-entity sum over non-missing frames.
func (p *PlayerProperty) NanSum() []float64 { return p.buf.reduceColumns(NanSum) }

// NanMax returns the per-entity maximum over non-missing frames.
func (p *PlayerProperty) NanMax() []float64 { return p.buf.reduceColumns(NanMax) }

// DyadicProperty holds one value per frame and ordered entity pair, such as distances
// between the players of two teams.
type DyadicProperty struct {
	buf       frameBuffer
	n1, n2    int
	name      string
	framerate float64
}

// NewDyadicProperty builds a dyadic property from a frames x n1 x n2 array.
func NewDyadicProperty(values [][][]float64, name string, framerate float64) (*DyadicProperty, error) {
	if err := validateFramerate(framerate); err != nil {
		return nil, err
	}
	n1, n2 := 0, 0
	if len(values) > 0 {
		n1 = len(values[0])
		if n1 > 0 {
			n2 = len(values[0][0])
		}
	}
	data := make([]float64, 0, len(values)*n1*n2)
	for t, frame := range values {
		if len(frame) != n1 {
			return nil, fmt.Errorf("%w: frame %d has %d rows, expected %d", ErrShape, t, len(frame), n1)
		}
		for i, row := range frame {
			if len(row) != n2 {
				return nil, fmt.Errorf("%w: frame %d row %d has %d values, expected %d", ErrShape, t, i, len(row), n2)
			}
			data = append(data, row...)
		}
	}
	return &DyadicProperty{
		buf: frameBuffer{data: data, frames: len(values), width: n1 * n2},
		n1:  n1, n2: n2, name: name, framerate: framerate,
	}, nil
}

func (p *DyadicProperty) String() string {
	return fmt.Sprintf("DyadicProperty %q of shape (%d, %d, %d) at %g fps",
		p.name, p.buf.frames, p.n1, p.n2, p.framerate)
}

// Len returns the number of frames.
func (p *DyadicProperty) Len() int { return p.buf.frames }

// Shape returns the entity counts of both sides of each pair.
func (p *DyadicProperty) Shape() (int, int) { return p.n1, p.n2 }

// Name returns the property name.
func (p *DyadicProperty) Name() string { return p.name }

// Framerate returns the sampling frequency.
func (p *DyadicProperty) Framerate() float64 { return p.framerate }

// At returns the value of pair (i, j) at frame t.
func (p *DyadicProperty) At(t, i, j int) (float64, error) {
	if t < 0 || t >= p.buf.frames || i < 0 || i >= p.n1 || j < 0 || j >= p.n2 {
		return 0, fmt.Errorf("%w: (%d, %d, %d) outside shape (%d, %d, %d)", ErrRange, t, i, j, p.buf.frames, p.n1, p.n2)
	}
	return p.buf.data[t*p.buf.width+i*p.n2+j], nil
}

// Pair returns the series of pair (i, j).
func (p *DyadicProperty) Pair(i, j int) ([]float64, error) {
	if i < 0 || i >= p.n1 || j < 0 || j >= p.n2 {
		return nil, fmt.Errorf("%w: pair (%d, %d) outside (%d, %d)", ErrRange, i, j, p.n1, p.n2)
	}
	return p.buf.column(i*p.n2 + j), nil
}

// Slice restricts the property to [start, end), clamped.
func (p *DyadicProperty) Slice(start, end int) (*DyadicProperty, error) {
	buf, err := p.buf.slice(start, end)
	if err != nil {
		return nil, err
	}
	return &DyadicProperty{buf: buf, n1: p.n1, n2: p.n2, name: p.name, framerate: p.framerate}, nil
}

// NanMean returns the per-pair mean over non-missing frames as an n1 x n2 matrix.
func (p *DyadicProperty) NanMean() [][]float64 {
	flat := p.buf.reduceColumns(NanMean)
	out := make([][]float64, p.n1)
	for i := range p.n1 {
		out[i] = flat[i*p.n2 : (i+1)*p.n2]
	}
	return out
}
