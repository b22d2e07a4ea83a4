// Package frontmatter reads and writes the YAML metadata block at the head of a note.
package frontmatter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/huangsam/tomato/schema"
	"gopkg.in/yaml.v3"
)

// Marker opens and closes the metadata block, each on its own line.
const Marker = "---"

// blockPattern matches the opening marker, the block up to the next marker on
// its own line, and the rest of the text. An empty block is allowed.
var blockPattern = regexp.MustCompile(`(?s)^---\r?\n(?:(.*?)\r?\n)??---(?:\r?\n|$)(.*)$`)

// HasBlock reports whether text starts with an opening marker line.
func HasBlock(text string) bool {
	return strings.HasPrefix(text, Marker+"\n") || strings.HasPrefix(text, Marker+"\r\n")
}

// Parse splits text into its metadata block and body.
// It fails with schema.ErrMalformedDocument when the block is missing, not
// closed, or not a YAML mapping.
func Parse(text string) (schema.Metadata, string, error) {
	match := blockPattern.FindStringSubmatch(text)
	if match == nil {
		if !HasBlock(text) {
			return schema.Metadata{}, "", fmt.Errorf("%w: front matter not found", schema.ErrMalformedDocument)
		}
		return schema.Metadata{}, "", fmt.Errorf("%w: front matter is not closed", schema.ErrMalformedDocument)
	}
	meta, err := decodeBlock(match[1])
	if err != nil {
		return schema.Metadata{}, "", err
	}
	return meta, match[2], nil
}

// decodeBlock decodes the YAML mapping keeping key order.
func decodeBlock(block string) (schema.Metadata, error) {
	var meta schema.Metadata

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return meta, fmt.Errorf("%w: %v", schema.ErrMalformedDocument, err)
	}
	if len(root.Content) == 0 {
		return meta, nil // empty or comment-only block
	}

	doc := root.Content[0]
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return meta, nil
	}
	if doc.Kind != yaml.MappingNode {
		return meta, fmt.Errorf("%w: front matter is not a mapping (line %d)", schema.ErrMalformedDocument, doc.Line)
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode, valueNode := doc.Content[i], doc.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return meta, fmt.Errorf("%w: key on line %d: %v", schema.ErrMalformedDocument, keyNode.Line, err)
		}
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return meta, fmt.Errorf("%w: value of %q: %v", schema.ErrMalformedDocument, key, err)
		}
		meta.Set(key, value)
	}
	return meta, nil
}

// Serialize renders meta as a complete block: marker, mapping, marker.
// The body is not included.
func Serialize(meta schema.Metadata) (string, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range meta.Keys() {
		value, _ := meta.Get(key)

		keyNode := &yaml.Node{}
		if err := keyNode.Encode(key); err != nil {
			return "", fmt.Errorf("failed to encode key %q: %w", key, err)
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(value); err != nil {
			return "", fmt.Errorf("failed to encode value of %q: %w", key, err)
		}
		mapping.Content = append(mapping.Content, keyNode, valueNode)
	}

	var buf bytes.Buffer
	buf.WriteString(Marker + "\n")
	if meta.Len() > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(mapping); err != nil {
			return "", fmt.Errorf("failed to encode front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("failed to encode front matter: %w", err)
		}
	}
	buf.WriteString(Marker + "\n")
	return buf.String(), nil
}

// Rewrite serializes meta and appends the untouched body.
func Rewrite(meta schema.Metadata, body string) (string, error) {
	block, err := Serialize(meta)
	if err != nil {
		return "", err
	}
	return block + body, nil
}
