package core

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"

	"github.com/samber/lo"
)

// FadeUntilNext keeps each event's code until the next event or the end of the stream.
const FadeUntilNext = -1

// MaxStreamFrames bounds the length of an event stream, about 31 days at 25 fps.
const MaxStreamFrames = 1 << 26

type streamConfig struct {
	name        string
	definitions map[float64]string
	framerate   float64
	length      int
}

// StreamOption configures EventStream.
type StreamOption func(*streamConfig)

// StreamName names the resulting Code.
func StreamName(name string) StreamOption {
	return func(c *streamConfig) { c.name = name }
}

// StreamDefinitions sets the legend for numeric event types.
func StreamDefinitions(defs map[float64]string) StreamOption {
	return func(c *streamConfig) { c.definitions = maps.Clone(defs) }
}

// StreamFramerate sets the framerate of the resulting Code. It is required when the
// frameclock column was not produced by AddFrameclock.
func StreamFramerate(framerate float64) StreamOption {
	return func(c *streamConfig) { c.framerate = framerate }
}

// StreamLength fixes the number of frames, usually to the length of an aligned XY.
// Events at or beyond the last frame are ignored.
func StreamLength(frames int) StreamOption {
	return func(c *streamConfig) { c.length = frames }
}

// EventStream converts the events into a frame-wise Code in which frame index equals
// frameclock. Each event holds its code for fade+1 frames, or until the next event with
// FadeUntilNext; later events overwrite earlier ones and frames without an event are NaN.
// Numeric event types are used as codes directly, otherwise event types are enumerated in
// lexical order and listed in the Code's definitions.
func (ev *Events) EventStream(fade int, opts ...StreamOption) (*Code, error) {
	if !ev.HasColumn(string(ColFrameclock)) {
		return nil, fmt.Errorf("%w: event stream requires the %q column, add it with AddFrameclock",
			ErrSchema, ColFrameclock)
	}
	if fade < FadeUntilNext {
		return nil, fmt.Errorf("%w: fade must be non-negative or FadeUntilNext, got %d", ErrInvalidArgument, fade)
	}
	cfg := streamConfig{name: "event_stream", framerate: ev.frameclockRate, length: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.framerate == 0 {
		return nil, fmt.Errorf("%w: framerate of the frameclock column is unknown, pass StreamFramerate",
			ErrInvalidArgument)
	}

	frameclock, _ := ev.Numeric(string(ColFrameclock))
	order := make([]int, len(ev.rows))
	for i := range order {
		order[i] = i
	}
	sortKey := func(i int) float64 {
		if math.IsNaN(frameclock[i]) {
			return math.Inf(1)
		}
		return frameclock[i]
	}
	sort.SliceStable(order, func(a, b int) bool { return sortKey(order[a]) < sortKey(order[b]) })

	codes, definitions := ev.streamCodes(cfg.definitions)
	length := cfg.length
	if length < 0 {
		length = 0
		if last := NanMax(frameclock); !math.IsNaN(last) && last >= 0 {
			if last >= MaxStreamFrames {
				return nil, fmt.Errorf("%w: frameclock %g exceeds the stream limit of %d frames, pass StreamLength",
					ErrRange, last, MaxStreamFrames)
			}
			length = int(last) + 1
		}
	}
	if length > MaxStreamFrames {
		return nil, fmt.Errorf("%w: stream length %d exceeds the limit of %d frames", ErrRange, length, MaxStreamFrames)
	}
	values := make([]float64, length)
	for i := range values {
		values[i] = math.NaN()
	}
	for _, i := range order {
		fc := frameclock[i]
		if math.IsNaN(fc) || fc < 0 || fc >= float64(len(values)) {
			continue
		}
		start := int(fc)
		end := len(values)
		if fade != FadeUntilNext && fade < end-start {
			end = start + fade + 1
		}
		for f := start; f < end; f++ {
			values[f] = codes[i]
		}
	}
	return NewCode(values, cfg.name, cfg.framerate, WithDefinitions(definitions))
}

func (ev *Events) streamCodes(defs map[float64]string) ([]float64, map[float64]string) {
	numeric := lo.EveryBy(ev.rows, func(e Event) bool { return e.EID.Kind() == KindNumber })
	if numeric {
		return lo.Map(ev.rows, func(e Event, _ int) float64 { return e.EID.FloatOrNaN() }), defs
	}
	labels := lo.Uniq(lo.Map(ev.rows, func(e Event, _ int) string { return e.EID.String() }))
	slices.Sort(labels)
	index := make(map[string]float64, len(labels))
	definitions := make(map[float64]string, len(labels))
	for i, label := range labels {
		index[label] = float64(i)
		definitions[float64(i)] = label
	}
	return lo.Map(ev.rows, func(e Event, _ int) float64 { return index[e.EID.String()] }), definitions
}
