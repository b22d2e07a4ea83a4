package schema

import (
	"maps"
	"reflect"
	"slices"
)

// Metadata is the ordered key/value mapping stored in a note's front matter.
// Values are whatever the YAML decoder produced; only numbers and strings are
// inspected by this program. The zero value is an empty mapping ready to use.
type Metadata struct {
	keys   []string
	values map[string]any
}

// NewMetadata builds a Metadata from alternating key/value pairs. It is mostly
// useful for tests: NewMetadata("pageType", "project", "doneToday", 3).
func NewMetadata(pairs ...any) Metadata {
	var m Metadata
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		m.Set(key, pairs[i+1])
	}
	return m
}

// Keys returns the keys in document order.
func (m Metadata) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of keys.
func (m Metadata) Len() int {
	return len(m.keys)
}

// Has reports whether key is present, even with a null value.
func (m Metadata) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get returns the value for key and whether it was present.
func (m Metadata) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. Existing keys keep their position; new keys append.
func (m *Metadata) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Clone returns a shallow copy that can be mutated independently.
func (m Metadata) Clone() Metadata {
	return Metadata{
		keys:   slices.Clone(m.keys),
		values: maps.Clone(m.values),
	}
}

// Map returns a plain map copy, e.g. for test assertions.
func (m Metadata) Map() map[string]any {
	out := make(map[string]any, len(m.values))
	maps.Copy(out, m.values)
	return out
}

// Equal reports whether both mappings hold the same keys in the same order with
// equal values.
func (m Metadata) Equal(other Metadata) bool {
	if !slices.Equal(m.keys, other.keys) {
		return false
	}
	for _, k := range m.keys {
		if !reflect.DeepEqual(m.values[k], other.values[k]) {
			return false
		}
	}
	return true
}
