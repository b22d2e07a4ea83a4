package frontmatter

import (
	"testing"

	"github.com/huangsam/tomato/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("simple project", func(t *testing.T) {
		meta, body, err := Parse("---\npageType: project\nreportKey: x\ndoneToday: 3\n---\n# Notes\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"pageType", "reportKey", "doneToday"}, meta.Keys())
		v, _ := meta.Get("doneToday")
		assert.Equal(t, 3, v)
		assert.Equal(t, "# Notes\n", body)
	})

	t.Run("key order preserved", func(t *testing.T) {
		meta, _, err := Parse("---\nz: 1\na: 2\nm: 3\n---\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "a", "m"}, meta.Keys())
	})

	t.Run("empty block", func(t *testing.T) {
		meta, body, err := Parse("---\n---\nbody")
		require.NoError(t, err)
		assert.Equal(t, 0, meta.Len())
		assert.Equal(t, "body", body)
	})

	t.Run("comment only block", func(t *testing.T) {
		meta, _, err := Parse("---\n# nothing here\n---\n")
		require.NoError(t, err)
		assert.Equal(t, 0, meta.Len())
	})

	t.Run("crlf line endings", func(t *testing.T) {
		meta, body, err := Parse("---\r\nreportKey: x\r\n---\r\ntext\r\n")
		require.NoError(t, err)
		v, _ := meta.Get("reportKey")
		assert.Equal(t, "x", v)
		assert.Equal(t, "text\r\n", body)
	})

	t.Run("block at end of text", func(t *testing.T) {
		meta, body, err := Parse("---\na: 1\n---")
		require.NoError(t, err)
		assert.True(t, meta.Has("a"))
		assert.Empty(t, body)
	})

	t.Run("body keeps later markers", func(t *testing.T) {
		_, body, err := Parse("---\na: 1\n---\nintro\n---\nmore\n")
		require.NoError(t, err)
		assert.Equal(t, "intro\n---\nmore\n", body)
	})

	t.Run("null values kept", func(t *testing.T) {
		meta, _, err := Parse("---\ndoneToday:\nreportKey: y\n---\n")
		require.NoError(t, err)
		v, ok := meta.Get("doneToday")
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("nested values kept", func(t *testing.T) {
		meta, _, err := Parse("---\ntags:\n  - a\n  - b\n---\n")
		require.NoError(t, err)
		v, _ := meta.Get("tags")
		assert.Equal(t, []any{"a", "b"}, v)
	})
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no block", "# Just a note\n"},
		{"empty text", ""},
		{"marker not at start", "\n---\na: 1\n---\n"},
		{"not closed", "---\na: 1\nbody\n"},
		{"closing marker with suffix", "---\na: 1\n----\n"},
		{"invalid yaml", "---\na: [1, 2\n---\n"},
		{"not a mapping", "---\n- a\n- b\n---\n"},
		{"scalar block", "---\njust text\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrMalformedDocument)
		})
	}
}

func TestSerialize(t *testing.T) {
	t.Run("order and indentation", func(t *testing.T) {
		meta := schema.NewMetadata("pageType", "project", "reportKey", "y", "api_sub_done_today", 0)
		out, err := Serialize(meta)
		require.NoError(t, err)
		assert.Equal(t, "---\npageType: project\nreportKey: y\napi_sub_done_today: 0\n---\n", out)
	})

	t.Run("empty metadata", func(t *testing.T) {
		out, err := Serialize(schema.Metadata{})
		require.NoError(t, err)
		assert.Equal(t, "---\n---\n", out)
	})

	t.Run("nested list uses two spaces", func(t *testing.T) {
		meta := schema.NewMetadata("links", map[string]any{"a": 1})
		out, err := Serialize(meta)
		require.NoError(t, err)
		assert.Equal(t, "---\nlinks:\n  a: 1\n---\n", out)
	})

	t.Run("numeric looking key stays a string", func(t *testing.T) {
		meta := schema.NewMetadata("2024", "x")
		out, err := Serialize(meta)
		require.NoError(t, err)
		parsed, _, err := Parse(out)
		require.NoError(t, err)
		assert.Equal(t, []string{"2024"}, parsed.Keys())
	})
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		meta schema.Metadata
		body string
	}{
		{"simple counter", schema.NewMetadata("pageType", "project", "reportKey", "x", "doneToday", 3), "# x\n"},
		{"hierarchical", schema.NewMetadata("pageType", "project", "reportKey", "y", "y1_sub_done_today", 2, "y2_sub_done_today", 5), ""},
		{"float and null", schema.NewMetadata("ratio", 2.5, "empty", nil), "text without newline"},
		{"strings needing quotes", schema.NewMetadata("title", "a: b", "flag", "yes", "num", "007"), "\n"},
		{"empty", schema.Metadata{}, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Rewrite(tt.meta, tt.body)
			require.NoError(t, err)

			meta, body, err := Parse(text)
			require.NoError(t, err)
			assert.True(t, tt.meta.Equal(meta), "metadata changed: %v vs %v", tt.meta.Map(), meta.Map())
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestHasBlock(t *testing.T) {
	assert.True(t, HasBlock("---\na: 1\n---\n"))
	assert.True(t, HasBlock("---\r\n---\r\n"))
	assert.False(t, HasBlock("# title\n---\n"))
	assert.False(t, HasBlock("----\n"))
	assert.False(t, HasBlock(""))
}
