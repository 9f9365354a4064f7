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

// singleSegment labels results computed from a single tracking file.
const singleSegment = "all"

// WriteKinematics outputs ranked kinematics, dispatching based on the output format configured.
func WriteKinematics(ranked []schema.RankedKinematics, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ranked)
		}, "Wrote JSON kinematics")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRows(w, kinematicsHeader, kinematicsRows(ranked, fmtFloat, intFmt))
		}, "Wrote CSV kinematics")
	case schema.ParquetOut:
		return writeParquet(cfg.OutputFile, func(path string) error {
			return parquet.WriteKinematicsParquet(parquet.ConvertKinematics(singleSegment, "", ranked), path)
		}, "Wrote Parquet kinematics")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeKinematicsTable(w, ranked, cfg, fmtFloat, intFmt); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing top %d entities by distance covered. Analysis completed in %v. Cache backend: %s\n",
				len(ranked), duration, cfg.CacheBackend)
			return err
		}, "Wrote kinematics table")
	}
}

var kinematicsHeader = []string{"rank", "entity", "frames", "coverage", "distance", "top_speed", "mean_speed", "label"}

// kinematicsRows formats ranked kinematics as CSV rows.
func kinematicsRows(ranked []schema.RankedKinematics, fmtFloat func(float64) string, intFmt string) [][]string {
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.Entity),
			fmt.Sprintf(intFmt, r.Frames),
			fmtFloat(r.Coverage),
			fmtFloat(r.Distance),
			fmtFloat(r.TopSpeed),
			fmtFloat(r.MeanSpeed),
			r.Label,
		})
	}
	return rows
}

// writeKinematicsTable writes the ranked kinematics table.
func writeKinematicsTable(w io.Writer, ranked []schema.RankedKinematics, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	headers := []string{"Rank", "Entity", "Coverage", "Distance", "Top Speed", "Mean Speed", "Zone"}
	var data [][]string
	for _, r := range ranked {
		data = append(data, []string{
			fmt.Sprintf(intFmt, r.Rank),
			fmt.Sprintf(intFmt, r.Entity),
			fmtFloat(r.Coverage),
			fmtFloat(r.Distance),
			fmtFloat(r.TopSpeed),
			fmtFloat(r.MeanSpeed),
			speedLabel(cfg, r),
		})
	}
	return renderTable(w, headers, data)
}
