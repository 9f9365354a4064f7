package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/parquet"
	"github.com/huangsam/touchline/schema"
)

// WriteEventsSummary outputs an events summary, dispatching based on the output format configured.
func WriteEventsSummary(summary schema.EventsSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON events summary")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRows(w, []string{"column", "class", "present", "invalid"}, columnRows(summary))
		}, "Wrote CSV events summary")
	case schema.ParquetOut:
		return unsupportedOutput(cfg.Output, "events summaries")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEventsSummaryTable(w, summary, cfg, duration)
		}, "Wrote events summary table")
	}
}

// columnRows lists every events column with its class and fill count.
func columnRows(summary schema.EventsSummary) [][]string {
	rows := make([][]string, 0, len(summary.Columns))
	for _, c := range summary.Columns {
		rows = append(rows, []string{c.Name, c.Class, strconv.Itoa(c.Present), strconv.FormatBool(c.Invalid)})
	}
	return rows
}

// writeEventsSummaryTable writes the column table, the event type table and a footer.
func writeEventsSummaryTable(w io.Writer, summary schema.EventsSummary, cfg *contract.Config, duration time.Duration) error {
	if err := renderTable(w, []string{"Column", "Class", "Present", "Invalid"}, columnRows(summary)); err != nil {
		return err
	}

	maxWidth := GetMaxTableTextWidth(cfg, 10)
	counts := summary.EventCounts
	if cfg.ResultLimit > 0 && len(counts) > cfg.ResultLimit {
		counts = counts[:cfg.ResultLimit]
	}
	var data [][]string
	for _, c := range counts {
		data = append(data, []string{contract.TruncatePath(c.Value, maxWidth), strconv.Itoa(c.Count)})
	}
	if err := renderTable(w, []string{"Event", "Count"}, data); err != nil {
		return err
	}

	if len(summary.ProtectedMissing) > 0 {
		if _, err := fmt.Fprintf(w, "Protected columns not present: %v\n", summary.ProtectedMissing); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d events from %gs to %gs. Inspected in %v\n",
		summary.Events, summary.GameclockStart, summary.GameclockEnd, duration)
	return err
}

// WriteEvents outputs event rows, dispatching based on the output format configured.
func WriteEvents(ev *core.Events, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ev.Records())
		}, "Wrote JSON events")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRows(w, ev.Columns(), eventRows(ev, 0))
		}, "Wrote CSV events")
	case schema.ParquetOut:
		return writeParquet(cfg.OutputFile, func(path string) error {
			return parquet.WriteEventsParquet(ev, path)
		}, "Wrote Parquet events")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEventsTable(w, ev, cfg, duration)
		}, "Wrote events table")
	}
}

// eventRows formats every event as one text cell per column. Cells wider than maxWidth are
// truncated when maxWidth is positive.
func eventRows(ev *core.Events, maxWidth int) [][]string {
	columns := ev.Columns()
	rows := make([][]string, 0, ev.Len())
	for _, e := range ev.Rows() {
		row := make([]string, len(columns))
		for i, name := range columns {
			row[i] = e.Get(name).String()
			if maxWidth > 0 {
				row[i] = contract.TruncatePath(row[i], maxWidth)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// writeEventsTable writes up to cfg.ResultLimit events and a footer line.
func writeEventsTable(w io.Writer, ev *core.Events, cfg *contract.Config, duration time.Duration) error {
	columns := ev.Columns()
	cellWidth := max(8, GetMaxTableTextWidth(cfg, 0)/max(1, len(columns)))
	rows := eventRows(ev, cellWidth)
	if cfg.ResultLimit > 0 && len(rows) > cfg.ResultLimit {
		rows = rows[:cfg.ResultLimit]
	}
	if err := renderTable(w, columns, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d events. Completed in %v\n", len(rows), ev.Len(), duration)
	return err
}
