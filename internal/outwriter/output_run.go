package outwriter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/parquet"
	"github.com/huangsam/touchline/schema"
)

// WriteRun outputs an observation run report, dispatching based on the output format configured.
// Parquet output writes kinematics rows to the output file and centroid rows next to it.
func WriteRun(report *schema.RunReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON run report")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRows(w, append([]string{"segment", "team"}, kinematicsHeader...), runRows(report, fmtFloat, intFmt))
		}, "Wrote CSV run report")
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, func(path string) error {
			return parquet.WriteKinematicsParquet(runKinematicsRows(report), path)
		}, "Wrote Parquet run kinematics"); err != nil {
			return err
		}
		return writeParquet(CentroidSiblingPath(cfg.OutputFile), func(path string) error {
			return parquet.WriteCentroidParquet(runCentroidRows(report), path)
		}, "Wrote Parquet run centroid windows")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTables(w, report, cfg, fmtFloat, intFmt, duration)
		}, "Wrote run tables")
	}
}

// CentroidSiblingPath derives the centroid output path from a kinematics output path.
func CentroidSiblingPath(outputFile string) string {
	if outputFile == "" {
		return ""
	}
	return strings.TrimSuffix(outputFile, ".parquet") + ".centroid.parquet"
}

// runRows flattens the kinematics of every segment and team into CSV rows.
func runRows(report *schema.RunReport, fmtFloat func(float64) string, intFmt string) [][]string {
	var rows [][]string
	for _, team := range report.Teams {
		for _, row := range kinematicsRows(team.Kinematics, fmtFloat, intFmt) {
			rows = append(rows, append([]string{team.Segment, string(team.Team)}, row...))
		}
	}
	return rows
}

func runKinematicsRows(report *schema.RunReport) []parquet.KinematicsRow {
	var rows []parquet.KinematicsRow
	for _, team := range report.Teams {
		rows = append(rows, parquet.ConvertKinematics(team.Segment, team.Team, team.Kinematics)...)
	}
	return rows
}

func runCentroidRows(report *schema.RunReport) []parquet.CentroidRow {
	var rows []parquet.CentroidRow
	for _, team := range report.Teams {
		rows = append(rows, parquet.ConvertCentroidWindows(team.Segment, team.Team, team.Centroid)...)
	}
	return rows
}

// writeRunTables writes one kinematics table per segment and team, followed by its centroid windows.
func writeRunTables(w io.Writer, report *schema.RunReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	for _, team := range report.Teams {
		if _, err := fmt.Fprintf(w, "Segment %s / %s: %d frames, %d events\n", team.Segment, team.Team, team.Frames, team.Events); err != nil {
			return err
		}
		if err := writeKinematicsTable(w, team.Kinematics, cfg, fmtFloat, intFmt); err != nil {
			return err
		}
		if len(team.Centroid) > 0 {
			if err := writeCentroidTable(w, team.Centroid, fmtFloat, intFmt); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(w, "Observation %s (%s) analyzed in %v. Cache backend: %s\n",
		report.Name, report.ObservationID, duration, cfg.CacheBackend); err != nil {
		return err
	}
	if report.AnalysisID > 0 {
		if _, err := fmt.Fprintf(w, "Recorded as analysis run %d (%s)\n", report.AnalysisID, cfg.AnalysisBackend); err != nil {
			return err
		}
	}
	return nil
}
