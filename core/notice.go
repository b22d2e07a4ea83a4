package core

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/huangsam/tomato/schema"
)

// ReportNotice is the notice shown when a report run finished.
func ReportNotice(date string, hoursPerTomato float64, units schema.UnitsToday) string {
	if units == nil {
		units = schema.UnitsToday{}
	}
	data, _ := json.Marshal(units) // counts are always finite
	return "Report finished\n" + date + "\nhours per tomato: " + strconv.FormatFloat(hoursPerTomato, 'f', -1, 64) + "\n" + string(data)
}

// CleanupStartNotice is the notice shown before project notes are reset.
func CleanupStartNotice(n int) string {
	return fmt.Sprintf("start cleaning up %d files", n)
}

// CleanedNotice is the notice shown after a note was reset.
func CleanedNotice(doc schema.Document) string {
	return doc.Name() + " cleaned up"
}
