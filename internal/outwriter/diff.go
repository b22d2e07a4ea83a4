package outwriter

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FormatDiff renders a line diff of before and after, prefixing removed lines
// with "- ", added lines with "+ " and unchanged lines with "  ".
// It returns "" when the texts are equal.
func FormatDiff(before, after string, useColors bool) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString(paint(useColors, red, "- "+line))
			case diffmatchpatch.DiffInsert:
				sb.WriteString(paint(useColors, green, "+ "+line))
			default:
				sb.WriteString("  " + line)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// splitLines splits text into lines without their terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func paint(enabled bool, c *color.Color, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}
