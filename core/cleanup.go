package core

import (
	"fmt"

	"github.com/huangsam/tomato/core/agg"
	"github.com/huangsam/tomato/internal/frontmatter"
	"github.com/huangsam/tomato/schema"
)

// ResetDocument zeroes the daily counters in a note and returns the rewritten text.
// changed is false when nothing needs to be written: the note has a doneToday
// counter that is already 0. The body after the metadata block is kept as is.
func ResetDocument(text string) (string, bool, error) {
	meta, body, err := frontmatter.Parse(text)
	if err != nil {
		return "", false, err
	}

	if !ResetMetadata(&meta) {
		return text, false, nil
	}

	newText, err := frontmatter.Rewrite(meta, body)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", schema.ErrMalformedDocument, err)
	}
	return newText, true, nil
}

// ResetMetadata zeroes the daily counters in place and reports whether a rewrite is due.
// A note with doneToday only has that key reset. Without doneToday every sub counter
// is set to 0 and a rewrite is always due, even when they were 0 already.
func ResetMetadata(meta *schema.Metadata) bool {
	if done, ok := meta.Get(schema.DoneTodayKey); ok {
		if n, err := agg.ToNumber(done); err == nil && n == 0 {
			return false
		}
		meta.Set(schema.DoneTodayKey, 0)
		return true
	}

	for _, k := range agg.SubCounterKeys(*meta) {
		meta.Set(k, 0)
	}
	return true
}
