package outwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/tomato/schema"
)

// ReadReportTable decodes the CSV time report.
//
// The header must contain a date column; every other column is an hours column.
// Empty cells and short rows read as 0, rows with an empty date are dropped.
// An empty input is an empty table.
func ReadReportTable(r io.Reader) (*schema.ReportTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", schema.ErrMalformedReport, err)
	}
	if len(records) == 0 {
		return &schema.ReportTable{}, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	dateIdx := -1
	seen := make(map[string]struct{}, len(header))
	table := &schema.ReportTable{}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", schema.ErrMalformedReport, name)
		}
		seen[name] = struct{}{}
		if name == schema.DateColumn {
			dateIdx = i
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("%w: empty column name at position %d", schema.ErrMalformedReport, i+1)
		}
		table.Columns = append(table.Columns, name)
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("%w: missing %q column", schema.ErrMalformedReport, schema.DateColumn)
	}

	for line, record := range records[1:] {
		if dateIdx >= len(record) || strings.TrimSpace(record[dateIdx]) == "" {
			continue
		}
		row := schema.ReportRow{
			Date:   strings.TrimSpace(record[dateIdx]),
			Values: make(map[string]float64, len(table.Columns)),
		}
		for i, name := range header {
			if i == dateIdx {
				continue
			}
			name = strings.TrimSpace(name)
			v, err := parseCell(record, i)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %w", schema.ErrMalformedReport, line+2, name, err)
			}
			row.Values[name] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ParseReportTable is ReadReportTable over a string.
func ParseReportTable(text string) (*schema.ReportTable, error) {
	return ReadReportTable(strings.NewReader(text))
}

func parseCell(record []string, i int) (float64, error) {
	if i >= len(record) {
		return 0, nil
	}
	cell := strings.TrimSpace(record[i])
	if cell == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	return v, nil
}

// WriteReportTable encodes the table as CSV: a date column then the hours columns.
func WriteReportTable(w io.Writer, table *schema.ReportTable) error {
	return writeCSVWithHeader(w, table.Header(), func(csvWriter *csv.Writer) error {
		for _, r := range table.Rows {
			record := make([]string, 0, len(table.Columns)+1)
			record = append(record, r.Date)
			for _, c := range table.Columns {
				record = append(record, formatHours(r.Values[c]))
			}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// FormatReportTable returns the CSV text of the table.
func FormatReportTable(table *schema.ReportTable) (string, error) {
	var buf bytes.Buffer
	if err := WriteReportTable(&buf, table); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatHours prints the shortest decimal that reads back as v.
func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
