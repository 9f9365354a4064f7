package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/touchline/internal/analysis"
	"github.com/huangsam/touchline/internal/contract"
)

// pitchCmd describes a pitch template.
var pitchCmd = &cobra.Command{
	Use:   "pitch [template]",
	Short: "Describe the coordinate system of a pitch template.",
	Long: `Show the limits, center, unit and boundary type of a pitch template.

Templates with flexible boundaries (opta) report rescale factors to meters when the
actual pitch length and width are given. Centered metric templates (statsperform,
chyronhego_international) require both dimensions.

Examples:
  # Describe the opta percentage grid on a 105x68 pitch
  touchline pitch opta --pitch-length 105 --pitch-width 68

  # Export a statsperform pitch as JSON
  touchline pitch statsperform --pitch-length 105 --pitch-width 68 --output json`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			viper.Set("pitch", args[0])
		}
		return commandSetup(cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := analysis.ExecutePitch(cfg); err != nil {
			contract.LogFatal("Cannot describe pitch", err)
		}
	},
}
