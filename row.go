package sheetjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Row is one output record: values in column order under unique keys.
type Row struct {
	keys  []string
	vals  []any
	index map[string]int
}

// NewRow returns an empty row with room for n columns.
func NewRow(n int) Row {
	return Row{
		keys:  make([]string, 0, n),
		vals:  make([]any, 0, n),
		index: make(map[string]int, n),
	}
}

// Set stores v under key, keeping the key's original position if it exists.
func (r *Row) Set(key string, v any) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.vals[i] = v
		return
	}
	r.index[key] = len(r.keys)
	r.keys = append(r.keys, key)
	r.vals = append(r.vals, v)
}

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.vals[i], true
}

// Keys returns the keys in column order.
func (r Row) Keys() []string { return slices.Clone(r.keys) }

// Values returns the values in column order.
func (r Row) Values() []any { return slices.Clone(r.vals) }

// Len returns the number of columns.
func (r Row) Len() int { return len(r.keys) }

// Map returns the row as an unordered map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.keys))
	for i, k := range r.keys {
		m[k] = r.vals[i]
	}
	return m
}

// MarshalJSON encodes the row as an object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := newEncoder(&buf)
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		if err := enc.Encode(r.vals[i]); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping the key order of the input.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row: expected object, got %v", tok)
	}
	*r = NewRow(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		r.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
