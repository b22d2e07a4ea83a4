// Package schema has models, constants and errors for all parts of tomato.
package schema

import (
	"maps"
	"path"
	"slices"
	"sort"
	"strings"
)

// Document identifies a note owned by the document store.
type Document struct {
	ID   string // Vault-relative path with forward slashes
	Path string // Path understood by the underlying filesystem
}

// Name returns the base file name, used in notices.
func (d Document) Name() string {
	return path.Base(d.ID)
}

// DocumentMetadata pairs a document with its pre-associated metadata.
type DocumentMetadata struct {
	Document Document
	Metadata Metadata
}

// UnitsToday maps a report key to the number of tomatoes completed today.
// Keys are either a bare project key or "<project>:<subproject>".
type UnitsToday map[string]float64

// SortedKeys returns the keys in lexical order.
func (u UnitsToday) SortedKeys() []string {
	keys := make([]string, 0, len(u))
	for k := range u {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SubProjectKey joins a project and sub-project into a report key.
func SubProjectKey(project, sub string) string {
	return project + SubProjectSeparator + sub
}

// IsSubProjectKey reports whether key names a sub-project column.
func IsSubProjectKey(key string) bool {
	return strings.Contains(key, SubProjectSeparator)
}

// ReportRow is one dated row of the time report.
type ReportRow struct {
	Date   string
	Values map[string]float64
}

// ReportTable is the in-memory form of the CSV time report.
// Columns holds the non-date columns in file order.
type ReportTable struct {
	Columns []string
	Rows    []ReportRow
}

// Clone returns a deep copy of the table.
func (t *ReportTable) Clone() *ReportTable {
	if t == nil {
		return &ReportTable{}
	}
	clone := &ReportTable{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]ReportRow, len(t.Rows)),
	}
	for i, r := range t.Rows {
		values := make(map[string]float64, len(r.Values))
		maps.Copy(values, r.Values)
		clone.Rows[i] = ReportRow{Date: r.Date, Values: values}
	}
	return clone
}

// HasColumn reports whether name is one of the non-date columns.
func (t *ReportTable) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// RowIndex returns the index of the first row for date, or -1.
func (t *ReportTable) RowIndex(date string) int {
	return slices.IndexFunc(t.Rows, func(r ReportRow) bool { return r.Date == date })
}

// Header returns the CSV header: date followed by the columns.
func (t *ReportTable) Header() []string {
	return append([]string{DateColumn}, t.Columns...)
}

// ReportHours is a single (date, key, hours) cell, the long form of the table.
type ReportHours struct {
	Date      string  `json:"date"`
	ReportKey string  `json:"report_key"`
	Hours     float64 `json:"hours"`
}

// Cells flattens the table into ReportHours in row and column order.
func (t *ReportTable) Cells() []ReportHours {
	var cells []ReportHours
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			cells = append(cells, ReportHours{Date: r.Date, ReportKey: c, Hours: r.Values[c]})
		}
	}
	return cells
}
