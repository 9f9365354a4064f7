package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/touchline/internal/analysis"
)

// kinematicsCmd ranks entities by distance covered.
var kinematicsCmd = &cobra.Command{
	Use:   "kinematics FILE",
	Short: "Rank entities by distance covered, with top and mean speed.",
	Long: `Fit the distance and velocity models on a tracking file and rank every entity.

Coordinates are converted to meters through the configured pitch template. Each entity
gets a speed zone label (Sprint, High, Moderate, Low) from its top speed. Results are
cached by file content and recorded in the analysis store when one is configured.

Examples:
  # Meters at 25 fps
  touchline kinematics home.csv --framerate 25

  # Opta coordinates on a 105x68 pitch, exported to Parquet
  touchline kinematics home.parquet --pitch opta --pitch-length 105 --pitch-width 68 \
    --output parquet --output-file kinematics.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("kinematics analysis", analysis.ExecuteKinematics),
}

// centroidCmd summarizes team shape over time windows.
var centroidCmd = &cobra.Command{
	Use:   "centroid FILE",
	Short: "Summarize team centroid and stretch index over time windows.",
	Long: `Fit the centroid model on a team tracking file and summarize it per --window seconds.

Use --exclude to leave entities such as the goalkeeper out of the team shape.

Examples:
  touchline centroid home.csv --framerate 25 --exclude 0 --window 300`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("centroid analysis", analysis.ExecuteCentroid),
}

// runCmd analyzes a whole observation.
var runCmd = &cobra.Command{
	Use:   "run MANIFEST",
	Short: "Run every model on an observation manifest.",
	Long: `Load an observation from a YAML manifest and analyze each segment and team concurrently.

The manifest lists per segment the tracking, events, teamsheet and code files of each
team. Every entity is recorded into the analysis store when one is configured.

Example manifest:
  name: derby
  framerate: 25
  pitch:
    template: opta
    length: 105
    width: 68
  segments:
    - id: "1"
      xy:
        home: home_1.csv
        away: away_1.csv
        ball: ball_1.csv
      events:
        home: events_home_1.csv

Examples:
  touchline run derby.yaml --analysis-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("observation analysis", analysis.ExecuteRun),
}
