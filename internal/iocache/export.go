package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/internal/parquet"
)

// Suffixes appended to the output file name for each exported table.
const (
	ReportRunsSuffix    = ".report_runs.parquet"
	ReportEntriesSuffix = ".report_entries.parquet"
)

// ExecuteHistoryExport writes the report history to two Parquet files next to outputFile.
// Progress lines go to w.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history is disabled, set --history-backend to export it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no report history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total report runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total report entries: %d\n", status.TableSizes[reportEntriesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	entries, err := store.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to retrieve report entries: %w", err)
	}

	runsFile := outputFile + ReportRunsSuffix
	if err := parquet.WriteReportRunsParquet(parquet.ConvertReportRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d report runs to: %s\n", len(runs), runsFile)

	entriesFile := outputFile + ReportEntriesSuffix
	if err := parquet.WriteReportEntriesParquet(parquet.ConvertReportEntryRecords(entries), entriesFile); err != nil {
		return fmt.Errorf("failed to write report entries: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d report entries to: %s\n", len(entries), entriesFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with DuckDB, Pandas or Spark.")
	return nil
}
