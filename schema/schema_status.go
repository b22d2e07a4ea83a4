package schema

import "time"

// CacheStatus represents the status of the metadata cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the report history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalHours    float64          `json:"total_hours"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// ReportRunRecord represents a row from the tomato_report_runs table.
type ReportRunRecord struct {
	RunID          string
	ReportDate     string
	RunTime        time.Time
	HoursPerTomato float64
	TotalTomatoes  float64
	TotalHours     float64
}

// ReportEntryRecord represents a row from the tomato_report_entries table.
type ReportEntryRecord struct {
	RunID     string
	ReportKey string
	Tomatoes  float64
	Hours     float64
}
