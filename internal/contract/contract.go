// Package contract provides interfaces and shared utilities for touchline's internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/touchline/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cached model results.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and storing entity metrics.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalEntities int) error

	// RecordEntityMetrics stores model output for one tracked entity
	RecordEntityMetrics(analysisID int64, metrics schema.EntityMetrics) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every analysis run, oldest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllEntityMetrics returns every stored entity metric row
	GetAllEntityMetrics() ([]schema.EntityMetricsRecord, error)

	// Close closes the underlying connection
	Close() error
}
