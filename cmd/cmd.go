// Package cmd defines the command-line interface for touchline.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/touchline/internal/analysis"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(pitchCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(kinematicsCmd)
	rootCmd.AddCommand(centroidCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(propertiesCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the inspect subcommands to the parent inspect command
	inspectCmd.AddCommand(inspectXYCmd)
	inspectCmd.AddCommand(inspectEventsCmd)
	inspectCmd.AddCommand(inspectCodeCmd)

	// Add the events subcommands to the parent events command
	eventsCmd.AddCommand(eventsSelectCmd)
	eventsCmd.AddCommand(eventsStreamCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Float64P("framerate", "r", contract.DefaultFramerate, "Frames per second of the tracking data")
	rootCmd.PersistentFlags().StringP("pitch", "p", "", "Pitch template of the coordinates: opta or statsperform or chyronhego_international (empty = meters)")
	rootCmd.PersistentFlags().Float64("pitch-length", 0, "Actual pitch length in meters")
	rootCmd.PersistentFlags().Float64("pitch-width", 0, "Actual pitch width in meters")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers for observation runs")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics in text format to this file at exit")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Model flags are bound to Viper by the command that runs
	for _, c := range []*cobra.Command{kinematicsCmd, runCmd, propertiesCmd} {
		c.Flags().String("difference", string(schema.CentralDifference), "Finite difference scheme: central or forward")
	}
	for _, c := range []*cobra.Command{kinematicsCmd, centroidCmd, runCmd, propertiesCmd, convertCmd} {
		c.Flags().String("smooth", string(schema.NoSmoothing), "Low-pass filter applied to tracking data: none or savgol or butterworth")
	}
	for _, c := range []*cobra.Command{centroidCmd, runCmd, propertiesCmd} {
		c.Flags().String("exclude", "", "Comma-separated entity indices left out of team shape, such as goalkeepers")
	}
	for _, c := range []*cobra.Command{centroidCmd, runCmd} {
		c.Flags().Float64("window", contract.DefaultWindowSeconds, "Team shape summary window in seconds")
	}

	eventsSelectCmd.Flags().StringArrayP("where", "w", nil, "Condition column=value, column=lo:hi or column=null (repeatable)")
	eventsSelectCmd.Flags().Bool("frameclock", false, "Derive the frameclock column from gameclock before selecting")
	eventsStreamCmd.Flags().Int("fade", 0, "Frames each event persists after its own (-1 = until the next event)")

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}

// commandSetup binds the flags local to cmd and runs sharedSetup.
func commandSetup(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.LocalFlags()); err != nil {
		return err
	}
	return sharedSetup(rootCtx, cmd, args)
}

// runFile returns a cobra Run function that applies exec to the single file argument.
func runFile(label string, exec analysis.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, args []string) {
		if err := exec(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot run "+label, err)
		}
	}
}
