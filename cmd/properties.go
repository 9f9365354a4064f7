package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/touchline/internal/analysis"
)

// propertiesCmd exports frame-wise model outputs.
var propertiesCmd = &cobra.Command{
	Use:   "properties FILE",
	Short: "Export frame-wise velocity, acceleration and team shape to Parquet.",
	Long: `Fit the kinematic and geometry models on a tracking file and write every frame value
as long rows (name, frame, entity, value) to --output-file.

Player properties carry one row per entity and frame. Team properties such as
stretch_index and area_convex_hull use entity 0. Missing values are stored as nulls.

Examples:
  touchline properties home.csv --framerate 25 --exclude 0 --output-file home_props.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("property export", analysis.ExecuteProperties),
}

// convertCmd rewrites a tracking file as Parquet.
var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a tracking CSV to long Parquet rows.",
	Long: `Read a wide tracking file (x0,y0,x1,y1,...) and write it to --output-file as long rows
(frame, entity, x, y). The Parquet file can be passed back to any command taking FILE.

Examples:
  touchline convert home.csv --output-file home.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("tracking conversion", analysis.ExecuteConvertXY),
}
