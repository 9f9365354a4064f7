package analysis

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

// finite maps NaN and infinities to zero so that summaries stay encodable.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// DescribePitch builds a pitch from a template and summarizes it.
func DescribePitch(template string, length, width float64) (schema.PitchSummary, error) {
	var opts []core.PitchOption
	if length > 0 {
		opts = append(opts, core.WithLength(length))
	}
	if width > 0 {
		opts = append(opts, core.WithWidth(width))
	}
	pitch, err := core.FromTemplate(template, opts...)
	if err != nil {
		return schema.PitchSummary{}, err
	}
	return SummarizePitch(template, pitch), nil
}

// SummarizePitch describes a pitch descriptor.
func SummarizePitch(template string, pitch *core.Pitch) schema.PitchSummary {
	cx, cy := pitch.Center()
	summary := schema.PitchSummary{
		Template:   template,
		XLim:       pitch.XLim(),
		YLim:       pitch.YLim(),
		Unit:       pitch.Unit(),
		Boundaries: pitch.Boundaries(),
		Sport:      pitch.Sport(),
		CenterX:    cx,
		CenterY:    cy,
		Metrical:   pitch.IsMetrical(),
	}
	if l, ok := pitch.Length(); ok {
		summary.Length = &l
	}
	if w, ok := pitch.Width(); ok {
		summary.Width = &w
	}
	if fx, fy, err := pitch.RescaleFactors(); err == nil {
		summary.RescaleX, summary.RescaleY = &fx, &fy
	}
	return summary
}

// SummarizeTracking reports coverage and extent per entity of an XY container.
func SummarizeTracking(xy *core.XY) []schema.TrackingSummary {
	out := make([]schema.TrackingSummary, xy.N())
	for e := range xy.N() {
		xs, ys, _ := xy.EntityTrack(e)
		missing := 0
		for t := range xs {
			if core.IsMissing(xs[t]) || core.IsMissing(ys[t]) {
				missing++
			}
		}
		summary := schema.TrackingSummary{
			Entity:  e,
			Frames:  xy.Len(),
			Missing: missing,
			XMin:    finite(core.NanMin(xs)),
			XMax:    finite(core.NanMax(xs)),
			YMin:    finite(core.NanMin(ys)),
			YMax:    finite(core.NanMax(ys)),
		}
		if xy.Len() > 0 {
			summary.Coverage = float64(xy.Len()-missing) / float64(xy.Len())
		}
		out[e] = summary
	}
	return out
}

// columnClass names the role of an events column.
func columnClass(ev *core.Events, name string) string {
	switch {
	case slices.Contains(ev.Essential(), name):
		return "essential"
	case slices.Contains(ev.Protected(), name):
		return "protected"
	default:
		return "custom"
	}
}

// countValues counts labels and returns them by descending count, then label.
func countValues(labels []string) []schema.ValueCount {
	counts := lo.CountValues(labels)
	out := make([]schema.ValueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, schema.ValueCount{Value: value, Count: count})
	}
	slices.SortFunc(out, func(a, b schema.ValueCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

// SummarizeEvents reports the schema, time span and event type counts of an events table.
func SummarizeEvents(ev *core.Events) schema.EventsSummary {
	invalid := ev.InvalidColumns()
	columns := lo.Map(ev.Columns(), func(name string, _ int) schema.ColumnSummary {
		values, _ := ev.Column(name)
		return schema.ColumnSummary{
			Name:    name,
			Class:   columnClass(ev, name),
			Present: lo.CountBy(values, func(v core.Value) bool { return !v.IsNull() }),
			Invalid: slices.Contains(invalid, name),
		}
	})
	gameclock := ev.Gameclock()
	return schema.EventsSummary{
		Events:           ev.Len(),
		GameclockStart:   finite(core.NanMin(gameclock)),
		GameclockEnd:     finite(core.NanMax(gameclock)),
		Columns:          columns,
		ProtectedMissing: ev.ProtectedMissing(),
		EventCounts:      countValues(lo.Map(ev.Rows(), func(e core.Event, _ int) string { return e.EID.String() })),
	}
}

// SummarizeCode reports the token distribution of a Code.
func SummarizeCode(code *core.Code) schema.CodeSummary {
	values := code.Values()
	labels := lo.FilterMap(values, func(v float64, _ int) (string, bool) {
		if core.IsMissing(v) {
			return "", false
		}
		label, err := code.LabelOf(v)
		if err != nil {
			label = fmt.Sprintf("%g", v)
		}
		return label, true
	})
	return schema.CodeSummary{
		Name:      code.Name(),
		Frames:    code.Len(),
		Framerate: code.Framerate(),
		Missing:   core.CountMissing(values),
		Tokens:    countValues(labels),
	}
}
