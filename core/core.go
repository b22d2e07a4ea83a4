// Package core has the report and cleanup workflows over a vault of notes.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/tomato/core/agg"
	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/internal/outwriter"
	"github.com/huangsam/tomato/schema"
	"golang.org/x/sync/errgroup"
)

// ExecuteReport aggregates today's tomatoes and merges them as hours into the
// CSV report. The report file is created when it does not exist yet.
// When history is not nil the run is recorded there as well.
func ExecuteReport(ctx context.Context, cfg *contract.Config, store contract.DocumentStore, notifier contract.Notifier, history contract.HistoryStore) (*schema.ReportResult, error) {
	units, skipped, err := collectUnits(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	table, exists, err := readReport(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	merged := MergeReport(table, units, cfg.HoursPerTomato, cfg.Date)
	text, err := outwriter.FormatReportTable(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to format report: %w", err)
	}

	if exists {
		err = store.WriteText(ctx, schema.Document{ID: cfg.ReportFile}, text)
	} else {
		_, err = store.CreateDocument(ctx, cfg.ReportFile, text)
	}
	if err != nil {
		return nil, err
	}

	result := &schema.ReportResult{
		Date:           cfg.Date,
		HoursPerTomato: cfg.HoursPerTomato,
		Units:          units,
		Hours:          HoursFor(units, cfg.HoursPerTomato),
		ReportFile:     cfg.ReportFile,
		Created:        !exists,
		TotalRows:      len(merged.Rows),
		Skipped:        skipped,
	}
	if history != nil {
		result.RunID = recordRun(history, result)
	}

	notifier.Notify(ReportNotice(cfg.Date, cfg.HoursPerTomato, units))
	return result, nil
}

// ExecuteSummary computes today's tomatoes and hours without writing anything.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, store contract.DocumentStore) (schema.Summary, error) {
	units, skipped, err := collectUnits(ctx, cfg, store)
	if err != nil {
		return schema.Summary{}, err
	}
	summary := schema.NewSummary(cfg.Date, cfg.HoursPerTomato, units)
	summary.Skipped = skipped
	return summary, nil
}

// LoadReportTable reads the CSV report. A missing report is an empty table.
func LoadReportTable(ctx context.Context, cfg *contract.Config, store contract.DocumentStore) (*schema.ReportTable, error) {
	table, _, err := readReport(ctx, cfg, store)
	return table, err
}

// ExecuteCleanup resets the daily counters of every project note.
// With cfg.DryRun nothing is written and each outcome carries the planned diff.
func ExecuteCleanup(ctx context.Context, cfg *contract.Config, store contract.DocumentStore, notifier contract.Notifier) (*schema.CleanupResult, error) {
	projects, _, err := loadProjects(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	notifier.Notify(CleanupStartNotice(len(projects)))

	result := &schema.CleanupResult{
		Outcomes: make([]schema.CleanupOutcome, len(projects)),
		DryRun:   cfg.DryRun,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, dm := range projects {
		g.Go(func() error {
			outcome, err := cleanupDocument(gctx, cfg, store, notifier, dm.Document)
			if err != nil {
				if cfg.OnError != schema.SkipOnError || !errors.Is(err, schema.ErrMalformedDocument) {
					return err
				}
				contract.LogWarn("Skipping document", err)
				outcome = schema.CleanupOutcome{DocumentID: dm.Document.ID, Status: schema.SkippedStatus, Error: err.Error()}
			}
			result.Outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// cleanupDocument resets one note. The returned error already names the document.
func cleanupDocument(ctx context.Context, cfg *contract.Config, store contract.DocumentStore, notifier contract.Notifier, doc schema.Document) (schema.CleanupOutcome, error) {
	outcome := schema.CleanupOutcome{DocumentID: doc.ID}

	text, err := store.ReadText(ctx, doc)
	if err != nil {
		return outcome, err
	}
	newText, changed, err := ResetDocument(text)
	if err != nil {
		return outcome, fmt.Errorf("%s: %w", doc.ID, err)
	}

	switch {
	case !changed:
		outcome.Status = schema.UnchangedStatus
	case cfg.DryRun:
		outcome.Status = schema.PlannedStatus
		outcome.Diff = outwriter.FormatDiff(text, newText, cfg.UseColors && cfg.Output == schema.TextOut)
	default:
		if err := store.WriteText(ctx, doc, newText); err != nil {
			return outcome, err
		}
		outcome.Status = schema.CleanedStatus
		notifier.Notify(CleanedNotice(doc))
	}
	return outcome, nil
}

// collectUnits loads the project notes and aggregates their counters.
// Skipped holds the IDs of documents left out of the result.
func collectUnits(ctx context.Context, cfg *contract.Config, store contract.DocumentStore) (schema.UnitsToday, []string, error) {
	projects, skipped, err := loadProjects(ctx, cfg, store)
	if err != nil {
		return nil, nil, err
	}

	units, err := agg.AggregateUnitsToday(projects, cfg.OnError, func(docID string, err error) {
		if errors.Is(err, schema.ErrInvalidProjectMetadata) {
			skipped = append(skipped, docID)
			contract.LogWarn("Skipping document", err)
			return
		}
		contract.LogWarn("Duplicate report key", err)
	})
	if err != nil {
		return nil, nil, err
	}
	return units, skipped, nil
}

// readReport reads and parses the CSV report if it exists.
func readReport(ctx context.Context, cfg *contract.Config, store contract.DocumentStore) (*schema.ReportTable, bool, error) {
	exists, err := store.Exists(ctx, cfg.ReportFile)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return &schema.ReportTable{}, false, nil
	}

	text, err := store.ReadText(ctx, schema.Document{ID: cfg.ReportFile})
	if err != nil {
		return nil, true, err
	}
	table, err := outwriter.ReadReportTable(strings.NewReader(text))
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", cfg.ReportFile, err)
	}
	return table, true, nil
}

// recordRun stores the run in history and returns its ID, or "" when recording failed.
func recordRun(history contract.HistoryStore, result *schema.ReportResult) string {
	run := schema.ReportRunRecord{
		RunID:          uuid.NewString(),
		ReportDate:     result.Date,
		RunTime:        time.Now().UTC(),
		HoursPerTomato: result.HoursPerTomato,
	}

	entries := make([]schema.ReportEntryRecord, 0, len(result.Units))
	for _, k := range result.Units.SortedKeys() {
		entries = append(entries, schema.ReportEntryRecord{
			RunID:     run.RunID,
			ReportKey: k,
			Tomatoes:  result.Units[k],
			Hours:     result.Hours[k],
		})
		// Sub-projects are already part of their project's total
		if !schema.IsSubProjectKey(k) {
			run.TotalTomatoes += result.Units[k]
			run.TotalHours += result.Hours[k]
		}
	}

	if err := history.RecordRun(run, entries); err != nil {
		contract.LogWarn("Failed to record report history", err)
		return ""
	}
	return run.RunID
}
