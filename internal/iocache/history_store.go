package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
)

// Table names for report history.
const (
	reportRunsTable    = "tomato_report_runs"
	reportEntriesTable = "tomato_report_entries"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the report history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{reportRunsTable, getCreateReportRunsQuery(backend)},
		{reportEntriesTable, getCreateReportEntriesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateReportRunsQuery returns the CREATE TABLE query for tomato_report_runs.
func getCreateReportRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(reportRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				report_date VARCHAR(10) NOT NULL,
				run_time BIGINT NOT NULL,
				hours_per_tomato DOUBLE NOT NULL,
				total_tomatoes DOUBLE NOT NULL,
				total_hours DOUBLE NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				report_date TEXT NOT NULL,
				run_time BIGINT NOT NULL,
				hours_per_tomato DOUBLE PRECISION NOT NULL,
				total_tomatoes DOUBLE PRECISION NOT NULL,
				total_hours DOUBLE PRECISION NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				report_date TEXT NOT NULL,
				run_time INTEGER NOT NULL,
				hours_per_tomato REAL NOT NULL,
				total_tomatoes REAL NOT NULL,
				total_hours REAL NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateReportEntriesQuery returns the CREATE TABLE query for tomato_report_entries.
func getCreateReportEntriesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(reportEntriesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				report_key VARCHAR(255) NOT NULL,
				tomatoes DOUBLE NOT NULL,
				hours DOUBLE NOT NULL,
				PRIMARY KEY (run_id, report_key)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				report_key TEXT NOT NULL,
				tomatoes DOUBLE PRECISION NOT NULL,
				hours DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, report_key)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				report_key TEXT NOT NULL,
				tomatoes REAL NOT NULL,
				hours REAL NOT NULL,
				PRIMARY KEY (run_id, report_key)
			);
		`, quotedTableName)
	}
}

// RecordRun stores the run and its entries in one transaction.
func (hs *HistoryStoreImpl) RecordRun(run schema.ReportRunRecord, entries []schema.ReportEntryRecord) (err error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}
	if run.RunID == "" {
		return errors.New("run id cannot be empty")
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	runQuery := fmt.Sprintf(`INSERT INTO %s (run_id, report_date, run_time, hours_per_tomato, total_tomatoes, total_hours) VALUES (%s)`,
		quoteTableName(reportRunsTable, hs.backend), placeholders(hs.backend, 6))
	if _, err = tx.Exec(runQuery, run.RunID, run.ReportDate, run.RunTime.Unix(), run.HoursPerTomato, run.TotalTomatoes, run.TotalHours); err != nil {
		return fmt.Errorf("failed to insert report run: %w", err)
	}

	entryQuery := fmt.Sprintf(`INSERT INTO %s (run_id, report_key, tomatoes, hours) VALUES (%s)`,
		quoteTableName(reportEntriesTable, hs.backend), placeholders(hs.backend, 4))
	for _, e := range entries {
		if _, err = tx.Exec(entryQuery, run.RunID, e.ReportKey, e.Tomatoes, e.Hours); err != nil {
			return fmt.Errorf("failed to insert report entry %q: %w", e.ReportKey, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report run: %w", err)
	}
	return nil
}

// GetAllRuns retrieves all report runs ordered by run time.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, report_date, run_time, hours_per_tomato, total_tomatoes, total_hours
		FROM %s ORDER BY run_time, run_id`, quoteTableName(reportRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord
		var runTime int64
		if err := rows.Scan(&record.RunID, &record.ReportDate, &runTime, &record.HoursPerTomato, &record.TotalTomatoes, &record.TotalHours); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}
		record.RunTime = time.Unix(runTime, 0).UTC()
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllEntries retrieves all report entries ordered by run and report key.
func (hs *HistoryStoreImpl) GetAllEntries() ([]schema.ReportEntryRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, report_key, tomatoes, hours FROM %s ORDER BY run_id, report_key`,
		quoteTableName(reportEntriesTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportEntryRecord
	for rows.Next() {
		var record schema.ReportEntryRecord
		if err := rows.Scan(&record.RunID, &record.ReportKey, &record.Tomatoes, &record.Hours); err != nil {
			return nil, fmt.Errorf("failed to scan report entry: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report entries: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(reportRunsTable, hs.backend)

	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRunTime, oldestRunTime int64
		lastRunQuery := fmt.Sprintf("SELECT run_id, run_time FROM %s ORDER BY run_time DESC, run_id DESC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = time.Unix(lastRunTime, 0).UTC()

		if err := hs.db.QueryRow(fmt.Sprintf("SELECT MIN(run_time) FROM %s", runsTable)).Scan(&oldestRunTime); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = time.Unix(oldestRunTime, 0).UTC()

		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_hours), 0) FROM %s", runsTable)).Scan(&status.TotalHours); err != nil {
			return status, fmt.Errorf("failed to get total hours: %w", err)
		}
	}

	for _, table := range []string{reportRunsTable, reportEntriesTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}
