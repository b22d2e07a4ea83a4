package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
)

// PrintReportResult outputs the result of a report run, dispatching based on the output format configured.
func PrintReportResult(result *schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteReportResult(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s report results", cfg.Output))
}

// WriteReportResult writes the result of a report run to w.
func WriteReportResult(w io.Writer, result *schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	summary := schema.NewSummary(result.Date, result.HoursPerTomato, result.Units)
	summary.Skipped = result.Skipped

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVSummaryEntries(w, summary, cfg.Precision); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeSummaryTable(w, summary, cfg); err != nil {
			return fmt.Errorf("error writing report table output: %w", err)
		}
		verb := "Updated"
		if result.Created {
			verb = "Created"
		}
		_, _ = fmt.Fprintf(w, "%s %s (%d rows) for %s at %s hours per tomato\n",
			verb, result.ReportFile, result.TotalRows, result.Date, formatHours(result.HoursPerTomato))
		if result.RunID != "" {
			_, _ = fmt.Fprintf(w, "Recorded run %s\n", result.RunID)
		}
		_, _ = fmt.Fprintf(w, "Report completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	}
	return nil
}

// PrintSummary outputs today's units and hours without touching the report.
func PrintSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSummary(w, summary, cfg, duration)
	}, fmt.Sprintf("Wrote %s summary", cfg.Output))
}

// WriteSummary writes today's units and hours to w.
func WriteSummary(w io.Writer, summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, summary); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVSummaryEntries(w, summary, cfg.Precision); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeSummaryTable(w, summary, cfg); err != nil {
			return fmt.Errorf("error writing summary table output: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Summary for %s computed in %v with %d workers. Cache backend: %s\n", summary.Date, duration, cfg.Workers, cfg.CacheBackend)
	}
	return nil
}

// writeSummaryTable prints one row per report key, followed by any skipped documents.
func writeSummaryTable(w io.Writer, summary schema.Summary, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	data := make([][]string, 0, len(summary.Entries)+1)
	var totalTomatoes, totalHours float64
	for _, e := range summary.Entries {
		key := e.ReportKey
		if e.SubProject {
			key = "  " + key
		} else {
			totalTomatoes += e.Tomatoes
			totalHours += e.Hours
		}
		data = append(data, []string{key, formatHours(e.Tomatoes), fmtFloat(e.Hours)})
	}
	data = append(data, []string{
		paint(cfg.UseColors, contract.SuccessColor, "Total"),
		formatHours(totalTomatoes),
		fmtFloat(totalHours),
	})

	if err := renderTable(w, []string{"Report Key", "Tomatoes", "Hours"}, data); err != nil {
		return err
	}
	for _, id := range summary.Skipped {
		_, _ = fmt.Fprintf(w, "%s %s\n", paint(cfg.UseColors, contract.WarnColor, "Skipped"), id)
	}
	return nil
}

// writeCSVSummaryEntries writes report_key,tomatoes,hours rows.
func writeCSVSummaryEntries(w io.Writer, summary schema.Summary, precision int) error {
	fmtFloat, _ := createFormatters(precision)
	header := []string{"date", "report_key", "tomatoes", "hours"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, e := range summary.Entries {
			row := []string{summary.Date, e.ReportKey, formatHours(e.Tomatoes), fmtFloat(e.Hours)}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
