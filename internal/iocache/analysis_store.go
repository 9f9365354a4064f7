package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable  = "touchline_analysis_runs"
	entityMetricsTable = "touchline_entity_metrics"
)

// entityMetricsColumns lists the entity metrics columns in insert and select order.
const entityMetricsColumns = `analysis_id, observation_id, segment, team, entity, analysis_time, frames,
	coverage, distance, top_speed, mean_speed, mean_stretch, speed_zone`

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analysis store: %w", err)
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables creates the analysis tracking tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{analysisRunsTable, getCreateAnalysisRunsQuery(backend)},
		{entityMetricsTable, getCreateEntityMetricsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for touchline_analysis_runs.
func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(analysisRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_entities_analyzed INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_entities_analyzed INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_entities_analyzed INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateEntityMetricsQuery returns the CREATE TABLE query for touchline_entity_metrics.
func getCreateEntityMetricsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(entityMetricsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				observation_id VARCHAR(64) NOT NULL,
				segment VARCHAR(64) NOT NULL,
				team VARCHAR(16) NOT NULL,
				entity INT NOT NULL,
				analysis_time DATETIME(6) NOT NULL,
				frames INT NOT NULL,
				coverage DOUBLE NOT NULL,
				distance DOUBLE NOT NULL,
				top_speed DOUBLE NOT NULL,
				mean_speed DOUBLE NOT NULL,
				mean_stretch DOUBLE NOT NULL,
				speed_zone VARCHAR(16) NOT NULL,
				PRIMARY KEY (analysis_id, observation_id, segment, team, entity)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				observation_id TEXT NOT NULL,
				segment TEXT NOT NULL,
				team TEXT NOT NULL,
				entity INT NOT NULL,
				analysis_time TIMESTAMPTZ NOT NULL,
				frames INT NOT NULL,
				coverage DOUBLE PRECISION NOT NULL,
				distance DOUBLE PRECISION NOT NULL,
				top_speed DOUBLE PRECISION NOT NULL,
				mean_speed DOUBLE PRECISION NOT NULL,
				mean_stretch DOUBLE PRECISION NOT NULL,
				speed_zone TEXT NOT NULL,
				PRIMARY KEY (analysis_id, observation_id, segment, team, entity)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER NOT NULL,
				observation_id TEXT NOT NULL,
				segment TEXT NOT NULL,
				team TEXT NOT NULL,
				entity INTEGER NOT NULL,
				analysis_time TEXT NOT NULL,
				frames INTEGER NOT NULL,
				coverage REAL NOT NULL,
				distance REAL NOT NULL,
				top_speed REAL NOT NULL,
				mean_speed REAL NOT NULL,
				mean_stretch REAL NOT NULL,
				speed_zone TEXT NOT NULL,
				PRIMARY KEY (analysis_id, observation_id, segment, team, entity)
			);
		`, quotedTableName)
	}
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING analysis_id`, quotedTableName)
		err = as.db.QueryRow(query, startTime, string(configJSON)).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = as.db.Exec(query, formatTime(startTime, as.backend), string(configJSON))
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return analysisID, nil
}

// scanTime scans a single time column stored by formatTime.
func (as *AnalysisStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if as.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return time.Time{}, err
	}
	return parseSQLiteTime(s)
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalEntities int) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, quotedTableName, placeholder(as.backend, 1))
	startTime, err := as.scanTime(as.db.QueryRow(query, analysisID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_entities_analyzed = %s WHERE analysis_id = %s`,
		quotedTableName,
		placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3), placeholder(as.backend, 4))
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalEntities, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordEntityMetrics stores the model outputs for one entity.
func (as *AnalysisStoreImpl) RecordEntityMetrics(analysisID int64, m schema.EntityMetrics) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(entityMetricsTable, as.backend), entityMetricsColumns, placeholders(as.backend, 13))
	args := []any{
		analysisID, m.ObservationID, m.Segment, string(m.Team), m.Entity,
		formatTime(m.AnalysisTime, as.backend), m.Frames,
		finiteOrZero(m.Coverage), finiteOrZero(m.Distance), finiteOrZero(m.TopSpeed),
		finiteOrZero(m.MeanSpeed), finiteOrZero(m.MeanStretch), m.SpeedZone,
	}
	if _, err := as.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert entity metrics: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.backend == schema.NoneBackend || as.db == nil {
		return status, nil
	}

	runs := quoteTableName(analysisRunsTable, as.backend)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := as.db.QueryRow(fmt.Sprintf("SELECT MAX(analysis_id) FROM %s", runs))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}
		var err error
		row = as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runs))
		if status.LastRunTime, err = as.scanTime(row); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		row = as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runs))
		if status.OldestRunTime, err = as.scanTime(row); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		row = as.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_entities_analyzed), 0) FROM %s", runs))
		if err := row.Scan(&status.TotalEntitiesAnalyzed); err != nil {
			return status, fmt.Errorf("failed to get total entities analyzed: %w", err)
		}
	}

	for _, table := range []string{analysisRunsTable, entityMetricsTable} {
		var count int64
		row := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT analysis_id, start_time, end_time, run_duration_ms, total_entities_analyzed, config_params FROM %s ORDER BY analysis_id",
		quoteTableName(analysisRunsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		switch as.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.AnalysisID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalEntitiesAnalyzed, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
			if record.StartTime, err = parseSQLiteTime(startTimeStr); err != nil {
				return nil, err
			}
			if endTimeStr != nil {
				endTime, err := parseSQLiteTime(*endTimeStr)
				if err != nil {
					return nil, err
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.AnalysisID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalEntitiesAnalyzed, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllEntityMetrics retrieves all entity metrics from the store.
func (as *AnalysisStoreImpl) GetAllEntityMetrics() ([]schema.EntityMetricsRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY analysis_id, observation_id, segment, team, entity`,
		entityMetricsColumns, quoteTableName(entityMetricsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.EntityMetricsRecord
	for rows.Next() {
		var r schema.EntityMetricsRecord
		var sqliteTime string
		var timeDest any = &r.AnalysisTime
		if as.backend == schema.SQLiteBackend {
			timeDest = &sqliteTime
		}
		if err := rows.Scan(&r.AnalysisID, &r.ObservationID, &r.Segment, &r.Team, &r.Entity, timeDest, &r.Frames,
			&r.Coverage, &r.Distance, &r.TopSpeed, &r.MeanSpeed, &r.MeanStretch, &r.SpeedZone); err != nil {
			return nil, fmt.Errorf("failed to scan entity metrics: %w", err)
		}
		if as.backend == schema.SQLiteBackend {
			if r.AnalysisTime, err = parseSQLiteTime(sqliteTime); err != nil {
				return nil, err
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity metrics: %w", err)
	}
	return results, nil
}
