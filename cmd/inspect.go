package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/touchline/internal/analysis"
)

// inspectCmd groups the data quality summaries.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize tracking, event or code files.",
	Long: `Load a data file and report what it contains before running models on it.

Subcommands:
  xy     - per-entity coverage and coordinate ranges of a tracking file
  events - column classes, time span and event type counts of an events file
  code   - frame count and token distribution of a coded-state file`,
}

var inspectXYCmd = &cobra.Command{
	Use:   "xy FILE",
	Short: "Summarize coverage and coordinate ranges of a tracking file.",
	Long: `Report per entity how many frames carry a position and the observed x/y range.

Supported inputs: wide CSV (x0,y0,x1,y1,...), JSON matrices and long Parquet rows.

Examples:
  touchline inspect xy home.csv --framerate 25`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("tracking inspection", analysis.ExecuteInspectXY),
}

var inspectEventsCmd = &cobra.Command{
	Use:   "events FILE",
	Short: "Summarize the columns and event types of an events file.",
	Long: `Report the schema class of every column, the gameclock span and event type counts.

Protected columns whose values fall outside their defined range are flagged.

Examples:
  touchline inspect events events.csv --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("events inspection", analysis.ExecuteInspectEvents),
}

var inspectCodeCmd = &cobra.Command{
	Use:   "code FILE",
	Short: "Summarize the token distribution of a coded-state file.",
	Long: `Report frame count, missing frames and how often each token occurs.

The file is a single-column CSV with a header. Text cells become labels.

Examples:
  touchline inspect code possession.csv --framerate 25`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("code inspection", analysis.ExecuteInspectCode),
}
