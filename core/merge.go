package core

import (
	"slices"

	"github.com/huangsam/tomato/schema"
)

// HoursFor converts tomatoes into hours using the conversion factor.
func HoursFor(units schema.UnitsToday, hoursPerTomato float64) map[string]float64 {
	hours := make(map[string]float64, len(units))
	for k, v := range units {
		hours[k] = v * hoursPerTomato
	}
	return hours
}

// MergeReport folds today's hours into the report table and returns the new table.
// The input table is left untouched.
//
// Every row ends up with a value for every column. When a row for date already
// exists, all its cells are zeroed and then overwritten with today's hours, so a
// rerun on the same day replaces rather than accumulates. Otherwise a new row is
// appended. Report keys that are not columns yet are appended in sorted order and
// backfilled with 0 on every other row.
func MergeReport(table *schema.ReportTable, units schema.UnitsToday, hoursPerTomato float64, date string) *schema.ReportTable {
	merged := table.Clone()
	hours := HoursFor(units, hoursPerTomato)

	var newColumns []string
	for k := range hours {
		if !merged.HasColumn(k) {
			newColumns = append(newColumns, k)
		}
	}
	slices.Sort(newColumns)
	merged.Columns = append(merged.Columns, newColumns...)

	// Backfill, which also repairs rows that were missing cells
	for i := range merged.Rows {
		if merged.Rows[i].Values == nil {
			merged.Rows[i].Values = make(map[string]float64, len(merged.Columns))
		}
		for _, c := range merged.Columns {
			if _, ok := merged.Rows[i].Values[c]; !ok {
				merged.Rows[i].Values[c] = 0
			}
		}
	}

	idx := merged.RowIndex(date)
	if idx < 0 {
		merged.Rows = append(merged.Rows, schema.ReportRow{Date: date, Values: make(map[string]float64, len(merged.Columns))})
		idx = len(merged.Rows) - 1
	}

	row := merged.Rows[idx]
	for _, c := range merged.Columns {
		row.Values[c] = 0
	}
	for k, v := range hours {
		row.Values[k] = v
	}

	return merged
}
