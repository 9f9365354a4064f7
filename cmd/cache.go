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

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no analysis tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheCmd focused on cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the model result cache (improves performance)",
	Long: `Manage the result cache that skips refitting models on unchanged tracking data.

Kinematics results are keyed by a SHA-256 digest of the tracking content, pitch and
model parameters, so repeated runs over the same files are served from the cache.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  touchline cache status
  touchline cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached model results",
	Long: `Delete all cached model results from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  touchline cache clear

  # Clear MySQL cache (set connection string via env variable)
  TOUCHLINE_CACHE_BACKEND=mysql TOUCHLINE_CACHE_DB_CONNECT="..." touchline cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := readConfigFile(); err != nil {
			return err
		}
		cfg.CacheBackend = schema.DatabaseBackend(viper.GetString("cache-backend"))
		cfg.CacheDBConnect = viper.GetString("cache-db-connect")
		return contract.ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, number of cached results, first and last entry timestamps and
table size.

Examples:
  touchline cache status`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetResultStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("result cache is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
