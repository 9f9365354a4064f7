package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/iocache"
	"github.com/huangsam/touchline/schema"
)

// analysisBackendConfig reads and validates the analysis backend settings.
func analysisBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := readConfigFile(); err != nil {
		return "", "", err
	}
	backend := backendFromViper("analysis-backend")
	connStr := viper.GetString("analysis-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads minimal configuration needed for analysis operations.
// This is used by commands that need analysis access without full shared setup.
func analysisSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := analysisBackendConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no result cache for analysis commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// analysisMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize stores or create tables, so migrations can run on a fresh database.
func analysisMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := analysisBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	return nil
}

// analysisCmd focused on analysis data management.
//
// Note: Analysis subcommands use minimal initialization (analysisSetup) instead of
// the full sharedSetup used by model commands.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage historical analysis tracking and exports",
	Long: `Manage historical analysis data used for longitudinal reporting.

When enabled, touchline tracks every kinematics and run invocation, storing:
- Run metadata (timestamp, configuration, duration, entity count)
- Per-entity model outputs (distance, top and mean speed, speed zone, stretch)

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show analysis tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  touchline analysis status --analysis-backend sqlite

  # Export for analysis in pandas/DuckDB
  touchline analysis export --analysis-backend sqlite --output-file season.parquet`,
}

// analysisClearCmd clears the analysis data.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical analysis tracking data",
	Long: `Delete all stored analysis runs and entity metrics.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  touchline analysis export --analysis-backend sqlite --output-file backup.parquet
  touchline analysis clear --analysis-backend sqlite`,
	PreRunE: analysisMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, contract.GetAnalysisDBFilePath(), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows analysis status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display analysis tracking statistics and connection details",
	Long: `Show the backend, run counts, first and last run timestamps and table sizes.

Examples:
  touchline analysis status --analysis-backend sqlite`,
	PreRunE: analysisSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAnalysisStore()
		if store == nil {
			contract.LogFatal("Failed to get analysis status", fmt.Errorf("analysis store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

// analysisExportCmd exports analysis data to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored analysis data to Parquet format for use with analytics tools.

Exports two datasets next to --output-file:
- <base>.analysis_runs.parquet  - metadata about each analysis execution
- <base>.entity_metrics.parquet - model outputs per entity and run

Requires: --output-file parameter

Examples:
  touchline analysis export --analysis-backend sqlite --output-file season.parquet
  duckdb -c "SELECT * FROM read_parquet('season.entity_metrics.parquet') LIMIT 10"`,
	PreRunE: analysisSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if _, err := iocache.ExecuteAnalysisExport(os.Stdout, iocache.Manager.GetAnalysisStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the analysis store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the analysis tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  touchline analysis migrate --analysis-backend sqlite

  # Rollback to initial state
  touchline analysis migrate --analysis-backend sqlite --target-version 0`,
	PreRunE: analysisMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(os.Stdout, cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
