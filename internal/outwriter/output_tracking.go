package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/parquet"
	"github.com/huangsam/touchline/schema"
)

// WriteTracking outputs per-entity tracking summaries, dispatching based on the output format configured.
func WriteTracking(summaries []schema.TrackingSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON tracking summary")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRows(w, trackingHeader, trackingRows(summaries, fmtFloat, intFmt))
		}, "Wrote CSV tracking summary")
	case schema.ParquetOut:
		return writeParquet(cfg.OutputFile, func(path string) error {
			return parquet.WriteTrackingParquet(parquet.ConvertTrackingSummaries(summaries), path)
		}, "Wrote Parquet tracking summary")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrackingTable(w, summaries, fmtFloat, intFmt, duration)
		}, "Wrote tracking table")
	}
}

var trackingHeader = []string{"entity", "frames", "missing", "coverage", "x_min", "x_max", "y_min", "y_max"}

// trackingRows formats tracking summaries as CSV rows.
func trackingRows(summaries []schema.TrackingSummary, fmtFloat func(float64) string, intFmt string) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Entity),
			fmt.Sprintf(intFmt, s.Frames),
			fmt.Sprintf(intFmt, s.Missing),
			fmtFloat(s.Coverage),
			fmtFloat(s.XMin),
			fmtFloat(s.XMax),
			fmtFloat(s.YMin),
			fmtFloat(s.YMax),
		})
	}
	return rows
}

// writeTrackingTable writes the tracking summary table and a footer line.
func writeTrackingTable(w io.Writer, summaries []schema.TrackingSummary, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	headers := []string{"Entity", "Frames", "Missing", "Coverage", "X Min", "X Max", "Y Min", "Y Max"}
	if err := renderTable(w, headers, trackingRows(summaries, fmtFloat, intFmt)); err != nil {
		return err
	}
	frames := 0
	if len(summaries) > 0 {
		frames = summaries[0].Frames
	}
	_, err := fmt.Fprintf(w, "Inspected %d entities over %d frames in %v\n", len(summaries), frames, duration)
	return err
}

// WriteCode outputs a coded-state summary, dispatching based on the output format configured.
func WriteCode(summary schema.CodeSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON code summary")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRows(w, []string{"token", "frames", "share"}, codeRows(summary, fmtFloat, intFmt))
		}, "Wrote CSV code summary")
	case schema.ParquetOut:
		return unsupportedOutput(cfg.Output, "code summaries")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCodeTable(w, summary, fmtFloat, intFmt, duration)
		}, "Wrote code table")
	}
}

// codeRows formats token counts with their share of all frames.
func codeRows(summary schema.CodeSummary, fmtFloat func(float64) string, intFmt string) [][]string {
	rows := make([][]string, 0, len(summary.Tokens))
	for _, token := range summary.Tokens {
		share := 0.0
		if summary.Frames > 0 {
			share = float64(token.Count) / float64(summary.Frames)
		}
		rows = append(rows, []string{token.Value, fmt.Sprintf(intFmt, token.Count), fmtFloat(share)})
	}
	return rows
}

// writeCodeTable writes the token table and a footer line.
func writeCodeTable(w io.Writer, summary schema.CodeSummary, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if err := renderTable(w, []string{"Token", "Frames", "Share"}, codeRows(summary, fmtFloat, intFmt)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Code %q: %d frames at %g fps, %d missing. Inspected in %v\n",
		summary.Name, summary.Frames, summary.Framerate, summary.Missing, duration)
	return err
}
