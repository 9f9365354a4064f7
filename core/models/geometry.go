package models

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

// included returns the entity indices of xy minus the excluded ones. Excluded indices must
// exist.
func included(xy *core.XY, exclude []int) ([]int, error) {
	all := lo.Range(xy.N())
	for _, e := range exclude {
		if e < 0 || e >= xy.N() {
			return nil, fmt.Errorf("%w: excluded entity %d outside [0, %d)", core.ErrInvalidArgument, e, xy.N())
		}
	}
	return lo.Without(all, exclude...), nil
}

// CentroidModel computes the team centroid and the spread of entities around it.
type CentroidModel struct {
	BaseModel
	centroid  [][]float64 // frames x 2
	framerate float64
}

// NewCentroidModel creates a centroid model.
func NewCentroidModel() *CentroidModel {
	return &CentroidModel{BaseModel: newBaseModel("centroid", nil)}
}

// Fit computes the per-frame centroid as the mean position of the included entities.
// Missing coordinates are ignored per axis; a frame with no valid coordinate is missing.
func (m *CentroidModel) Fit(xy *core.XY, exclude []int) error {
	include, err := included(xy, exclude)
	if err != nil {
		return err
	}
	centroid := make([][]float64, xy.Len())
	xs := make([]float64, len(include))
	ys := make([]float64, len(include))
	for t := range xy.Len() {
		for k, e := range include {
			xs[k], ys[k], _ = xy.Point(t, e)
		}
		centroid[t] = []float64{core.NanMean(xs), core.NanMean(ys)}
	}
	m.centroid, m.framerate, m.fitted = centroid, xy.Framerate(), true
	return nil
}

// Centroid returns the centroid as a single-entity XY.
func (m *CentroidModel) Centroid() (*core.XY, error) {
	if err := m.requireFitted("centroid"); err != nil {
		return nil, err
	}
	if len(m.centroid) == 0 {
		return core.NewXYFromFlat(nil, 2, m.framerate)
	}
	return core.NewXY(m.centroid, m.framerate)
}

// CentroidDistance returns the distance of every entity of xy to the fitted centroid,
// in the plane or as absolute offset along one axis.
func (m *CentroidModel) CentroidDistance(xy *core.XY, axis schema.Axis) (*core.PlayerProperty, error) {
	if err := m.requireFitted("centroid distance"); err != nil {
		return nil, err
	}
	if xy.Len() != len(m.centroid) {
		return nil, fmt.Errorf("%w: xy has %d frames, fitted centroid has %d", core.ErrLengthMismatch,
			xy.Len(), len(m.centroid))
	}
	if axis != schema.AxisBoth && axis != schema.AxisX && axis != schema.AxisY {
		return nil, fmt.Errorf("%w: expected axis to be one of (x, y, both), got %q", core.ErrInvalidArgument, axis)
	}
	out := make([][]float64, xy.Len())
	for t := range xy.Len() {
		row := make([]float64, xy.N())
		for e := range xy.N() {
			x, y, _ := xy.Point(t, e)
			dx, dy := x-m.centroid[t][0], y-m.centroid[t][1]
			switch axis {
			case schema.AxisX:
				row[e] = math.Abs(dx)
			case schema.AxisY:
				row[e] = math.Abs(dy)
			default:
				row[e] = math.Hypot(dx, dy)
			}
		}
		out[t] = row
	}
	return core.NewPlayerProperty(out, "distance_to_centroid", xy.Framerate())
}

// StretchIndex returns the mean centroid distance over the entities of xy per frame.
func (m *CentroidModel) StretchIndex(xy *core.XY, axis schema.Axis) (*core.TeamProperty, error) {
	distances, err := m.CentroidDistance(xy, axis)
	if err != nil {
		return nil, err
	}
	raw := distances.Raw()
	values := make([]float64, len(raw))
	for t, row := range raw {
		values[t] = core.NanMean(row)
	}
	return core.NewTeamProperty(values, "stretch_index", xy.Framerate())
}

// ConvexHullModel computes the area of the convex hull spanned by the included entities.
type ConvexHullModel struct {
	BaseModel
	area      []float64
	framerate float64
}

// NewConvexHullModel creates a convex hull model.
func NewConvexHullModel() *ConvexHullModel {
	return &ConvexHullModel{BaseModel: newBaseModel("convex_hull", nil)}
}

// Fit computes the hull area per frame over entities with a complete position. Frames with
// fewer than three such entities have a missing area.
func (m *ConvexHullModel) Fit(xy *core.XY, exclude []int) error {
	include, err := included(xy, exclude)
	if err != nil {
		return err
	}
	area := make([]float64, xy.Len())
	for t := range xy.Len() {
		points := make([][2]float64, 0, len(include))
		for _, e := range include {
			x, y, _ := xy.Point(t, e)
			if !core.IsMissing(x) && !core.IsMissing(y) {
				points = append(points, [2]float64{x, y})
			}
		}
		area[t] = hullArea(points)
	}
	m.area, m.framerate, m.fitted = area, xy.Framerate(), true
	return nil
}

// AreaConvexHull returns the hull area per frame.
func (m *ConvexHullModel) AreaConvexHull() (*core.TeamProperty, error) {
	if err := m.requireFitted("convex hull area"); err != nil {
		return nil, err
	}
	return core.NewTeamProperty(m.area, "area_convex_hull", m.framerate)
}

// hullArea builds the hull with the monotone chain algorithm and measures it with the
// shoelace formula.
func hullArea(points [][2]float64) float64 {
	if len(points) < 3 {
		return core.NaN
	}
	slices.SortFunc(points, func(a, b [2]float64) int {
		if a[0] != b[0] {
			return cmp.Compare(a[0], b[0])
		}
		return cmp.Compare(a[1], b[1])
	})
	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}
	hull := make([][2]float64, 0, 2*len(points))
	for _, p := range points {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(points) - 2; i >= 0; i-- {
		p := points[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]

	var twice float64
	for i := range hull {
		j := (i + 1) % len(hull)
		twice += hull[i][0]*hull[j][1] - hull[j][0]*hull[i][1]
	}
	return math.Abs(twice) / 2
}
