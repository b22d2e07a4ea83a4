package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
)

// PrintCleanupResult outputs the per-document result of a cleanup run.
func PrintCleanupResult(result *schema.CleanupResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCleanupResult(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s cleanup results", cfg.Output))
}

// WriteCleanupResult writes the per-document result of a cleanup run to w.
// Dry runs print the planned diff of each document after the table.
func WriteCleanupResult(w io.Writer, result *schema.CleanupResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeCSVWithHeader(w, []string{"document", "status", "error"}, func(csvWriter *csv.Writer) error {
			for _, o := range result.Outcomes {
				if err := csvWriter.Write([]string{o.DocumentID, string(o.Status), o.Error}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeCleanupTable(w, result, cfg); err != nil {
			return fmt.Errorf("error writing cleanup table output: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Cleanup completed in %v with %d workers: %d cleaned, %d planned, %d unchanged, %d skipped\n",
			duration, cfg.Workers,
			result.Count(schema.CleanedStatus), result.Count(schema.PlannedStatus),
			result.Count(schema.UnchangedStatus), result.Count(schema.SkippedStatus))
	}
	return nil
}

func writeCleanupTable(w io.Writer, result *schema.CleanupResult, cfg *contract.Config) error {
	maxWidth := GetMaxTablePathWidth(cfg)
	data := make([][]string, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		data = append(data, []string{
			contract.TruncatePath(o.DocumentID, maxWidth),
			statusLabel(cfg, o.Status),
			contract.TruncatePath(o.Error, 30),
		})
	}
	if err := renderTable(w, []string{"Document", "Status", "Error"}, data); err != nil {
		return err
	}

	if !result.DryRun {
		return nil
	}
	for _, o := range result.Outcomes {
		if o.Diff == "" {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s\n%s", paint(cfg.UseColors, contract.InfoColor, o.DocumentID), o.Diff)
	}
	return nil
}

func statusLabel(cfg *contract.Config, status schema.CleanupStatus) string {
	switch status {
	case schema.CleanedStatus:
		return paint(cfg.UseColors, contract.SuccessColor, string(status))
	case schema.SkippedStatus:
		return paint(cfg.UseColors, contract.WarnColor, string(status))
	case schema.PlannedStatus:
		return paint(cfg.UseColors, contract.InfoColor, string(status))
	default:
		return string(status)
	}
}
