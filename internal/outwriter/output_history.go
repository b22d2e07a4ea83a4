package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
)

// historyRunJSON is the JSON shape of a recorded report run.
type historyRunJSON struct {
	RunID          string  `json:"run_id"`
	ReportDate     string  `json:"report_date"`
	RunTime        string  `json:"run_time"`
	HoursPerTomato float64 `json:"hours_per_tomato"`
	TotalTomatoes  float64 `json:"total_tomatoes"`
	TotalHours     float64 `json:"total_hours"`
}

// PrintHistoryRuns outputs the most recent report runs.
func PrintHistoryRuns(runs []schema.ReportRunRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteHistoryRuns(w, runs, cfg)
	}, fmt.Sprintf("Wrote %s history", cfg.Output))
}

// WriteHistoryRuns writes the last cfg.ResultLimit runs to w, oldest first.
func WriteHistoryRuns(w io.Writer, runs []schema.ReportRunRecord, cfg *contract.Config) error {
	if cfg.ResultLimit > 0 && len(runs) > cfg.ResultLimit {
		runs = runs[len(runs)-cfg.ResultLimit:]
	}
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		out := make([]historyRunJSON, 0, len(runs))
		for _, r := range runs {
			out = append(out, historyRunJSON{
				RunID:          r.RunID,
				ReportDate:     r.ReportDate,
				RunTime:        r.RunTime.UTC().Format(time.RFC3339),
				HoursPerTomato: r.HoursPerTomato,
				TotalTomatoes:  r.TotalTomatoes,
				TotalHours:     r.TotalHours,
			})
		}
		return writeJSON(w, out)
	case schema.CSVOut:
		header := []string{"run_id", "report_date", "run_time", "hours_per_tomato", "total_tomatoes", "total_hours"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range runs {
				row := []string{
					r.RunID, r.ReportDate, r.RunTime.UTC().Format(time.RFC3339),
					formatHours(r.HoursPerTomato), formatHours(r.TotalTomatoes), fmtFloat(r.TotalHours),
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		loc := cfg.Location
		if loc == nil {
			loc = time.UTC
		}
		data := make([][]string, 0, len(runs))
		for _, r := range runs {
			data = append(data, []string{
				r.ReportDate,
				r.RunTime.In(loc).Format(time.DateTime),
				formatHours(r.HoursPerTomato),
				formatHours(r.TotalTomatoes),
				fmtFloat(r.TotalHours),
				r.RunID,
			})
		}
		return renderTable(w, []string{"Date", "Run Time", "Hours/Tomato", "Tomatoes", "Hours", "Run ID"}, data)
	}
}
