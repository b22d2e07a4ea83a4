package outwriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDiff(t *testing.T) {
	t.Run("equal texts", func(t *testing.T) {
		assert.Equal(t, "", FormatDiff("same\n", "same\n", false))
	})

	t.Run("changed counter", func(t *testing.T) {
		before := "---\npageType: project\ndoneToday: 3\n---\nbody\n"
		after := "---\npageType: project\ndoneToday: 0\n---\nbody\n"

		out := FormatDiff(before, after, false)
		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		assert.Equal(t, "  ---", lines[0])
		assert.Equal(t, "  pageType: project", lines[1])
		assert.Contains(t, lines, "- doneToday: 3")
		assert.Contains(t, lines, "+ doneToday: 0")
		assert.Equal(t, "  body", lines[len(lines)-1])
		assert.Len(t, lines, 6)
	})

	t.Run("no trailing newline", func(t *testing.T) {
		out := FormatDiff("a", "b", false)
		assert.Contains(t, out, "- a\n")
		assert.Contains(t, out, "+ b\n")
	})
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a"}, splitLines("a\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{""}, splitLines("\n"))
}
