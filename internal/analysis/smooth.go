package analysis

import (
	"fmt"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/core/filter"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/dataio"
	"github.com/huangsam/touchline/internal/log"
	"github.com/huangsam/touchline/schema"
)

// Filter settings behind --smooth.
const (
	savgolWindow      = 5
	savgolPolyOrder   = 3
	butterworthOrder  = 3
	butterworthCutoff = 1.0 // Hz
)

// smoothXY applies the low-pass filter named by method. An empty method leaves xy as is.
func smoothXY(method schema.Smoothing, xy *core.XY) (*core.XY, error) {
	var (
		smoothed *core.XY
		err      error
	)
	switch method {
	case schema.NoSmoothing, "":
		return xy, nil
	case schema.SavgolSmoothing:
		smoothed, err = filter.SavgolLowpass(xy, savgolWindow, savgolPolyOrder)
	case schema.ButterworthSmoothing:
		smoothed, err = filter.ButterworthLowpass(xy, butterworthOrder, butterworthCutoff)
	default:
		return nil, fmt.Errorf("unknown smoothing %q", method)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to smooth tracking data: %w", err)
	}
	log.Debug("smoothed tracking data", log.String("filter", string(method)), log.Int("frames", xy.Len()))
	return smoothed, nil
}

// readXY loads the tracking file at path and applies the configured smoothing.
func readXY(cfg *contract.Config, path string) (*core.XY, error) {
	xy, err := dataio.ReadXY(path, cfg.Framerate)
	if err != nil {
		return nil, err
	}
	return smoothXY(cfg.Smoothing, xy)
}
