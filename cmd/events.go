package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/touchline/internal/analysis"
)

// eventsCmd groups the event table operations.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Filter events or convert them to a frame-wise stream.",
}

var eventsSelectCmd = &cobra.Command{
	Use:   "select FILE",
	Short: "Select events matching every --where condition.",
	Long: `Filter an events file by column conditions. All conditions must hold.

Condition forms:
  column=value   equality (numbers, text or RFC 3339 timestamps)
  column=lo:hi   numeric range lo <= value < hi, either side may be empty
  column=null    missing entries

Examples:
  # Passes in the first 45 minutes
  touchline events select events.csv --where eID=Pass --where gameclock=0:2700

  # Events on frames 100 to 199, deriving frameclock at 25 fps
  touchline events select events.csv --frameclock --framerate 25 --where frameclock=100:200`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("event selection", analysis.ExecuteEventsSelect),
}

var eventsStreamCmd = &cobra.Command{
	Use:   "stream FILE",
	Short: "Convert events into a frame-wise code and summarize it.",
	Long: `Place every event on its frame and keep it for --fade further frames.

With --fade -1 each event lasts until the next one. A missing frameclock column is
derived from gameclock at --framerate.

Examples:
  touchline events stream events.csv --framerate 25 --fade 12`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commandSetup,
	Run:     runFile("event stream", analysis.ExecuteEventsStream),
}
