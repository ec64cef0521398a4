package model

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Features is a flat, fully-keyed feature mapping.
// Every declared key is present; a nil value means "unknown".
type Features struct {
	keys   []string
	values map[string]*float64
}

// NewFeatures creates a mapping with every schema key set to nil
func NewFeatures(schema []string) *Features {
	f := &Features{
		keys:   make([]string, 0, len(schema)),
		values: make(map[string]*float64, len(schema)),
	}
	for _, k := range schema {
		f.declare(k)
	}
	return f
}

func (f *Features) declare(key string) {
	if _, ok := f.values[key]; ok {
		return
	}
	f.keys = append(f.keys, key)
	f.values[key] = nil
}

// Set stores a value. Keys outside the schema are appended.
func (f *Features) Set(key string, v float64) {
	f.declare(key)
	f.values[key] = &v
}

// Clear resets a key to nil without removing it
func (f *Features) Clear(key string) {
	if _, ok := f.values[key]; ok {
		f.values[key] = nil
	}
}

// Reset clears every key
func (f *Features) Reset() {
	for k := range f.values {
		f.values[k] = nil
	}
}

// Get returns the value and whether it is known
func (f *Features) Get(key string) (float64, bool) {
	v := f.values[key]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Has reports whether the key is part of the mapping (known or not)
func (f *Features) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Keys returns keys in declaration order
func (f *Features) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of keys
func (f *Features) Len() int {
	return len(f.keys)
}

// Known returns how many keys carry a value
func (f *Features) Known() int {
	n := 0
	for _, v := range f.values {
		if v != nil {
			n++
		}
	}
	return n
}

// Clone returns a deep copy
func (f *Features) Clone() *Features {
	out := NewFeatures(f.keys)
	for k, v := range f.values {
		if v != nil {
			out.Set(k, *v)
		}
	}
	return out
}

// Merge returns a new mapping with f's keys followed by other's new keys.
// On collision other wins, including when other's value is nil.
func (f *Features) Merge(other *Features) *Features {
	out := f.Clone()
	for _, k := range other.keys {
		out.declare(k)
		out.values[k] = nil
		if v := other.values[k]; v != nil {
			out.Set(k, *v)
		}
	}
	return out
}

// MergeKnown is like Merge but only known values of other override
func (f *Features) MergeKnown(other *Features) *Features {
	out := f.Clone()
	for _, k := range other.keys {
		out.declare(k)
		if v := other.values[k]; v != nil {
			out.Set(k, *v)
		}
	}
	return out
}

// Without returns a copy with the given keys removed
func (f *Features) Without(ignore ...string) *Features {
	drop := make(map[string]bool, len(ignore))
	for _, k := range ignore {
		drop[k] = true
	}

	out := &Features{values: make(map[string]*float64, len(f.keys))}
	for _, k := range f.keys {
		if drop[k] {
			continue
		}
		out.keys = append(out.keys, k)
		if v := f.values[k]; v != nil {
			vv := *v
			out.values[k] = &vv
		} else {
			out.values[k] = nil
		}
	}
	return out
}

// Equal reports whether both mappings hold the same keys in the same order
// with the same values
func (f *Features) Equal(other *Features) bool {
	if f.Len() != other.Len() {
		return false
	}
	for i, k := range f.keys {
		if other.keys[i] != k {
			return false
		}
		a, b := f.values[k], other.values[k]
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && *a != *b {
			return false
		}
	}
	return true
}

// Map returns a plain map; unknown values are nil
func (f *Features) Map() map[string]any {
	out := make(map[string]any, len(f.keys))
	for _, k := range f.keys {
		if v := f.values[k]; v != nil {
			out[k] = *v
		} else {
			out[k] = nil
		}
	}
	return out
}

// MarshalJSON writes keys in declaration order with null for unknown values
func (f *Features) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if v := f.values[k]; v != nil {
			buf.WriteString(strconv.FormatFloat(*v, 'f', -1, 64))
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes an ordered mapping with null for unknown values
func (f *Features) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range f.keys {
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if v := f.values[k]; v != nil {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(*v, 'f', -1, 64)}
			if *v == float64(int64(*v)) {
				val.Tag = "!!int"
			}
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			val,
		)
	}
	return node, nil
}
