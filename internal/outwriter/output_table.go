package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
)

// PrintReportTable outputs the latest rows of the time report.
func PrintReportTable(table *schema.ReportTable, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteReportView(w, table, cfg)
	}, fmt.Sprintf("Wrote %s report table", cfg.Output))
}

// WriteReportView writes the last cfg.ResultLimit rows of the report to w.
// CSV output uses the same encoding as the report file itself.
func WriteReportView(w io.Writer, table *schema.ReportTable, cfg *contract.Config) error {
	view := tailRows(table, cfg.ResultLimit)

	switch cfg.Output {
	case schema.JSONOut:
		cells := view.Cells()
		if cells == nil {
			cells = []schema.ReportHours{}
		}
		if err := writeJSON(w, cells); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := WriteReportTable(w, view); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		fmtFloat, _ := createFormatters(cfg.Precision)
		data := make([][]string, 0, len(view.Rows))
		for _, r := range view.Rows {
			row := []string{r.Date}
			for _, c := range view.Columns {
				row = append(row, fmtFloat(r.Values[c]))
			}
			data = append(data, row)
		}
		if err := renderTable(w, view.Header(), data); err != nil {
			return fmt.Errorf("error writing report table output: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Showing %d of %d rows\n", len(view.Rows), len(table.Rows))
	}
	return nil
}

// tailRows keeps the last limit rows. A limit of 0 keeps all of them.
func tailRows(table *schema.ReportTable, limit int) *schema.ReportTable {
	view := table.Clone()
	if limit > 0 && len(view.Rows) > limit {
		view.Rows = view.Rows[len(view.Rows)-limit:]
	}
	return view
}
