package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/parquet"
)

// ExportFiles holds the paths written by ExecuteAnalysisExport.
type ExportFiles struct {
	AnalysisRuns  string
	EntityMetrics string
}

// ExecuteAnalysisExport exports every stored analysis run and entity metric to Parquet files
// named after outputFile, and reports progress to out.
func ExecuteAnalysisExport(out io.Writer, store contract.AnalysisStore, outputFile string) (ExportFiles, error) {
	if outputFile == "" {
		return ExportFiles{}, errors.New("--output-file is required for export command")
	}
	if store == nil {
		return ExportFiles{}, errors.New("analysis store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return ExportFiles{}, fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return ExportFiles{}, errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total analysis runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(out, "Total entity records: %d\n", status.TableSizes[entityMetricsTable])

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return ExportFiles{}, fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	metrics, err := store.GetAllEntityMetrics()
	if err != nil {
		return ExportFiles{}, fmt.Errorf("failed to retrieve entity metrics: %w", err)
	}

	files := ExportFiles{
		AnalysisRuns:  outputFile + ".analysis_runs.parquet",
		EntityMetrics: outputFile + ".entity_metrics.parquet",
	}

	parquetRuns := parquet.ConvertAnalysisRunRecords(runs)
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, files.AnalysisRuns); err != nil {
		return ExportFiles{}, fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d analysis runs to: %s\n", len(parquetRuns), files.AnalysisRuns)

	parquetMetrics := parquet.ConvertEntityMetricsRecords(metrics)
	if err := parquet.WriteEntityMetricsParquet(parquetMetrics, files.EntityMetrics); err != nil {
		return ExportFiles{}, fmt.Errorf("failed to write entity metrics: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d entity records to: %s\n", len(parquetMetrics), files.EntityMetrics)

	return files, nil
}
