package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/parquet"
	"github.com/huangsam/touchline/schema"
)

// WriteCentroid outputs team shape windows, dispatching based on the output format configured.
func WriteCentroid(windows []schema.CentroidWindow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, windows)
		}, "Wrote JSON centroid windows")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRows(w, centroidHeader, centroidRows(windows, fmtFloat, intFmt))
		}, "Wrote CSV centroid windows")
	case schema.ParquetOut:
		return writeParquet(cfg.OutputFile, func(path string) error {
			return parquet.WriteCentroidParquet(parquet.ConvertCentroidWindows(singleSegment, "", windows), path)
		}, "Wrote Parquet centroid windows")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeCentroidTable(w, windows, fmtFloat, intFmt); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Summarized %d windows in %v\n", len(windows), duration)
			return err
		}, "Wrote centroid table")
	}
}

var centroidHeader = []string{"start_frame", "end_frame", "centroid_x", "centroid_y", "mean_stretch", "max_stretch"}

// centroidRows formats centroid windows as CSV rows.
func centroidRows(windows []schema.CentroidWindow, fmtFloat func(float64) string, intFmt string) [][]string {
	rows := make([][]string, 0, len(windows))
	for _, win := range windows {
		rows = append(rows, []string{
			fmt.Sprintf(intFmt, win.StartFrame),
			fmt.Sprintf(intFmt, win.EndFrame),
			fmtFloat(win.CentroidX),
			fmtFloat(win.CentroidY),
			fmtFloat(win.MeanStretch),
			fmtFloat(win.MaxStretch),
		})
	}
	return rows
}

// writeCentroidTable writes the centroid window table.
func writeCentroidTable(w io.Writer, windows []schema.CentroidWindow, fmtFloat func(float64) string, intFmt string) error {
	headers := []string{"Start", "End", "Centroid X", "Centroid Y", "Mean Stretch", "Max Stretch"}
	return renderTable(w, headers, centroidRows(windows, fmtFloat, intFmt))
}
