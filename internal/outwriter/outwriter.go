// Package outwriter has the report CSV codec and the result printers.
package outwriter

import (
	"time"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints the result of a report run using the configured output format.
func (ow *OutWriter) WriteReport(result *schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	return PrintReportResult(result, cfg, duration)
}

// WriteSummary prints today's summary using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	return PrintSummary(summary, cfg, duration)
}

// WriteCleanup prints the result of a cleanup run using the configured output format.
func (ow *OutWriter) WriteCleanup(result *schema.CleanupResult, cfg *contract.Config, duration time.Duration) error {
	return PrintCleanupResult(result, cfg, duration)
}

// WriteTable prints the latest report rows using the configured output format.
func (ow *OutWriter) WriteTable(table *schema.ReportTable, cfg *contract.Config) error {
	return PrintReportTable(table, cfg)
}

// WriteHistory prints the recorded report runs using the configured output format.
func (ow *OutWriter) WriteHistory(runs []schema.ReportRunRecord, cfg *contract.Config) error {
	return PrintHistoryRuns(runs, cfg)
}
