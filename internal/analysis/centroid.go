package analysis

import (
	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/core/models"
	"github.com/huangsam/touchline/schema"
)

// ShapeResult holds the team shape outputs of one centroid fit.
type ShapeResult struct {
	Windows []schema.CentroidWindow
	// MeanStretch is the mean distance of each entity to the centroid, zero for excluded
	// or untracked entities.
	MeanStretch []float64
}

// ComputeShape fits a centroid model on xy, leaving out the excluded entities, and
// summarizes the centroid and stretch index over consecutive windows of window frames.
func ComputeShape(xy *core.XY, exclude []int, window int) (*ShapeResult, error) {
	model := models.NewCentroidModel()
	if err := fitTimed(model.Name(), func() error { return model.Fit(xy, exclude) }); err != nil {
		return nil, err
	}
	centroid, err := model.Centroid()
	if err != nil {
		return nil, err
	}
	team, err := xy.MaskEntities(exclude)
	if err != nil {
		return nil, err
	}
	stretch, err := model.StretchIndex(team, schema.AxisBoth)
	if err != nil {
		return nil, err
	}
	distances, err := model.CentroidDistance(team, schema.AxisBoth)
	if err != nil {
		return nil, err
	}

	window = max(1, window)
	cx, cy, _ := centroid.EntityTrack(0)
	stretchValues := stretch.Values()
	var windows []schema.CentroidWindow
	for start := 0; start < xy.Len(); start += window {
		end := min(start+window, xy.Len())
		windows = append(windows, schema.CentroidWindow{
			StartFrame:  start,
			EndFrame:    end,
			CentroidX:   finite(core.NanMean(cx[start:end])),
			CentroidY:   finite(core.NanMean(cy[start:end])),
			MeanStretch: finite(core.NanMean(stretchValues[start:end])),
			MaxStretch:  finite(core.NanMax(stretchValues[start:end])),
		})
	}

	meanStretch := distances.NanMean()
	for i := range meanStretch {
		meanStretch[i] = finite(meanStretch[i])
	}
	return &ShapeResult{Windows: windows, MeanStretch: meanStretch}, nil
}
