// Package parquet exports the time report and the report history to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/tomato/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun is one recorded report run.
// This struct maps to the tomato_report_runs database table.
type ReportRun struct {
	// RunID is the unique identifier for this report run
	RunID string `parquet:"run_id,snappy"`

	// ReportDate is the report row the run wrote, as YYYY-MM-DD
	ReportDate string `parquet:"report_date,snappy"`

	// RunTime is when the run happened
	RunTime time.Time `parquet:"run_time,snappy"`

	HoursPerTomato float64 `parquet:"hours_per_tomato,snappy"`
	TotalTomatoes  float64 `parquet:"total_tomatoes,snappy"`
	TotalHours     float64 `parquet:"total_hours,snappy"`
}

// ReportEntry is the tomatoes and hours of one report key in one run.
// This struct maps to the tomato_report_entries database table.
type ReportEntry struct {
	RunID     string  `parquet:"run_id,snappy"`
	ReportKey string  `parquet:"report_key,snappy"`
	Tomatoes  float64 `parquet:"tomatoes,snappy"`
	Hours     float64 `parquet:"hours,snappy"`
}

// ReportCell is one (date, report key) cell of the CSV time report.
type ReportCell struct {
	Date      string  `parquet:"date,snappy"`
	ReportKey string  `parquet:"report_key,snappy"`
	Hours     float64 `parquet:"hours,snappy"`
}

// WriteReportRunsParquet writes report runs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteReportEntriesParquet writes report entries to a Parquet file.
func WriteReportEntriesParquet(data []ReportEntry, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteReportCellsParquet writes report cells to a Parquet file.
func WriteReportCellsParquet(data []ReportCell, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows to outputPath with the schema derived from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return file.Close()
}

// ConvertReportRunRecords converts history runs for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:          record.RunID,
			ReportDate:     record.ReportDate,
			RunTime:        record.RunTime,
			HoursPerTomato: record.HoursPerTomato,
			TotalTomatoes:  record.TotalTomatoes,
			TotalHours:     record.TotalHours,
		}
	}
	return result
}

// ConvertReportEntryRecords converts history entries for Parquet export.
func ConvertReportEntryRecords(records []schema.ReportEntryRecord) []ReportEntry {
	result := make([]ReportEntry, len(records))
	for i, record := range records {
		result[i] = ReportEntry{
			RunID:     record.RunID,
			ReportKey: record.ReportKey,
			Tomatoes:  record.Tomatoes,
			Hours:     record.Hours,
		}
	}
	return result
}

// ConvertReportTable flattens the report table for Parquet export.
func ConvertReportTable(table *schema.ReportTable) []ReportCell {
	cells := table.Cells()
	result := make([]ReportCell, len(cells))
	for i, c := range cells {
		result[i] = ReportCell{Date: c.Date, ReportKey: c.ReportKey, Hours: c.Hours}
	}
	return result
}
