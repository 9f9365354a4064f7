package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/schema"
)

// WritePitch outputs a pitch description, dispatching based on the output format configured.
func WritePitch(summary schema.PitchSummary, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON pitch")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRows(w, []string{"property", "value"}, pitchRows(summary, fmtFloat))
		}, "Wrote CSV pitch")
	case schema.ParquetOut:
		return unsupportedOutput(cfg.Output, "pitch descriptions")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePitchTable(w, summary, fmtFloat)
		}, "Wrote pitch table")
	}
}

// pitchRows lists the pitch properties as name/value pairs.
func pitchRows(s schema.PitchSummary, fmtFloat func(float64) string) [][]string {
	optional := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmtFloat(*v)
	}
	limits := func(l [2]float64) string {
		return fmt.Sprintf("[%s, %s]", fmtFloat(l[0]), fmtFloat(l[1]))
	}
	return [][]string{
		{"template", s.Template},
		{"sport", s.Sport},
		{"xlim", limits(s.XLim)},
		{"ylim", limits(s.YLim)},
		{"unit", string(s.Unit)},
		{"boundaries", string(s.Boundaries)},
		{"length", optional(s.Length)},
		{"width", optional(s.Width)},
		{"center", fmt.Sprintf("(%s, %s)", fmtFloat(s.CenterX), fmtFloat(s.CenterY))},
		{"metrical", fmt.Sprintf("%t", s.Metrical)},
		{"rescale_x", optional(s.RescaleX)},
		{"rescale_y", optional(s.RescaleY)},
	}
}

// writePitchTable writes a two-column table of pitch properties.
func writePitchTable(w io.Writer, s schema.PitchSummary, fmtFloat func(float64) string) error {
	rows := pitchRows(s, fmtFloat)
	for i := range rows {
		rows[i][0] = strings.ToUpper(rows[i][0][:1]) + rows[i][0][1:]
	}
	return renderTable(w, []string{"Property", "Value"}, rows)
}
