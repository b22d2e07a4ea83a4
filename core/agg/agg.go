// Package agg has aggregation logic for the daily tomato counters kept in note front matter.
package agg

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/tomato/schema"
)

// WarnFunc is told about documents that were skipped or overridden.
type WarnFunc func(docID string, err error)

// AggregateUnitsToday builds the units-today mapping from documents and their metadata.
// Only project documents contribute. A simple project contributes its doneToday counter
// under its report key. A hierarchical project contributes each sub counter under
// "<reportKey>:<sub>" and their sum under the report key.
//
// An invalid project document fails the run under schema.AbortOnError. Under
// schema.SkipOnError it is passed to warn and left out.
func AggregateUnitsToday(docs []schema.DocumentMetadata, policy schema.ErrorPolicy, warn WarnFunc) (schema.UnitsToday, error) {
	if warn == nil {
		warn = func(string, error) {}
	}

	// Stable order so that duplicate keys resolve the same way on every run
	ordered := slices.Clone(docs)
	slices.SortStableFunc(ordered, func(a, b schema.DocumentMetadata) int {
		return strings.Compare(a.Document.ID, b.Document.ID)
	})

	units := make(schema.UnitsToday)
	owners := make(map[string]string) // report key -> document ID

	for _, dm := range ordered {
		if !IsProject(dm.Metadata) {
			continue
		}

		reportKey, contribution, err := ProjectUnits(dm.Metadata)
		if err != nil {
			err = fmt.Errorf("%s: %w", dm.Document.ID, err)
			if policy == schema.SkipOnError {
				warn(dm.Document.ID, err)
				continue
			}
			return nil, err
		}

		if prev, ok := owners[reportKey]; ok {
			warn(dm.Document.ID, fmt.Errorf("report key %q is also used by %s, keeping the values of %s", reportKey, prev, dm.Document.ID))
			dropProject(units, reportKey)
		}
		owners[reportKey] = dm.Document.ID

		for k, v := range contribution {
			units[k] = v
		}
	}

	return units, nil
}

// ProjectUnits returns the report key of a project note and what it contributes.
func ProjectUnits(meta schema.Metadata) (string, schema.UnitsToday, error) {
	reportKey, err := ReportKey(meta)
	if err != nil {
		return "", nil, err
	}

	units := make(schema.UnitsToday)

	if done, ok := meta.Get(schema.DoneTodayKey); ok && done != nil {
		n, err := ToNumber(done)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s: %v", schema.ErrInvalidProjectMetadata, schema.DoneTodayKey, err)
		}
		units[reportKey] = n
		return reportKey, units, nil
	}

	var sum float64
	for _, counterKey := range SubCounterKeys(meta) {
		value, _ := meta.Get(counterKey)
		n := 0.0
		if value != nil {
			if n, err = ToNumber(value); err != nil {
				return "", nil, fmt.Errorf("%w: %s: %v", schema.ErrInvalidProjectMetadata, counterKey, err)
			}
		}
		column := SubProjectKey(reportKey, counterKey)
		if err := checkColumnName(column); err != nil {
			return "", nil, err
		}
		units[column] = n
		sum += n
	}
	units[reportKey] = sum

	return reportKey, units, nil
}

// IsProject reports whether the note has pageType set to "project".
func IsProject(meta schema.Metadata) bool {
	v, _ := meta.Get(schema.PageTypeKey)
	s, ok := v.(string)
	return ok && s == schema.PageTypeProject
}

// ReportKey returns the report key of a project note.
// Numbers are accepted and formatted in plain decimal.
func ReportKey(meta schema.Metadata) (string, error) {
	v, ok := meta.Get(schema.ReportKeyKey)
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s is missing", schema.ErrInvalidProjectMetadata, schema.ReportKeyKey)
	}

	var key string
	switch val := v.(type) {
	case string:
		key = strings.TrimSpace(val)
	case int:
		key = strconv.Itoa(val)
	case int64:
		key = strconv.FormatInt(val, 10)
	case uint64:
		key = strconv.FormatUint(val, 10)
	case float64:
		key = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", schema.ErrInvalidProjectMetadata, schema.ReportKeyKey, v)
	}

	if key == "" {
		return "", fmt.Errorf("%w: %s is empty", schema.ErrInvalidProjectMetadata, schema.ReportKeyKey)
	}
	if err := checkColumnName(key); err != nil {
		return "", err
	}
	return key, nil
}

// checkColumnName rejects report keys that would not read back as the same CSV column.
func checkColumnName(name string) error {
	if name == schema.DateColumn {
		return fmt.Errorf("%w: report key %q is reserved for the report date", schema.ErrInvalidProjectMetadata, name)
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("%w: report key %q has surrounding whitespace", schema.ErrInvalidProjectMetadata, name)
	}
	return nil
}

// SubCounterKeys returns the "<sub>_sub_done_today" keys in document order.
// A bare "_sub_done_today" counts too, as the sub-project with an empty name.
func SubCounterKeys(meta schema.Metadata) []string {
	var keys []string
	for _, k := range meta.Keys() {
		if strings.HasSuffix(k, schema.SubCounterSuffix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// SubProjectName strips the counter suffix: "api_sub_done_today" -> "api".
func SubProjectName(counterKey string) string {
	return strings.TrimSuffix(counterKey, schema.SubCounterSuffix)
}

// SubProjectKey returns the report key of a sub counter: ("y", "y1_sub_done_today") -> "y:y1".
func SubProjectKey(reportKey, counterKey string) string {
	return schema.SubProjectKey(reportKey, SubProjectName(counterKey))
}

// FilterProjects keeps the project documents in their original order.
func FilterProjects(docs []schema.DocumentMetadata) []schema.DocumentMetadata {
	var projects []schema.DocumentMetadata
	for _, dm := range docs {
		if IsProject(dm.Metadata) {
			projects = append(projects, dm)
		}
	}
	return projects
}

var errNotNumber = errors.New("not a number")

// ToNumber converts a decoded YAML value to a finite float64.
// Numeric strings are accepted.
func ToNumber(v any) (float64, error) {
	var n float64
	switch val := v.(type) {
	case int:
		n = float64(val)
	case int64:
		n = float64(val)
	case uint64:
		n = float64(val)
	case float64:
		n = val
	case float32:
		n = float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotNumber, val)
		}
		n = f
	default:
		return 0, fmt.Errorf("%w: %T", errNotNumber, v)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %v", errNotNumber, v)
	}
	return n, nil
}

// dropProject removes a report key and its sub-project keys.
func dropProject(units schema.UnitsToday, reportKey string) {
	prefix := reportKey + schema.SubProjectSeparator
	for k := range units {
		if k == reportKey || strings.HasPrefix(k, prefix) {
			delete(units, k)
		}
	}
}
