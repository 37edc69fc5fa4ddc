package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one result object. Key order follows the source document, which decides the
// column order of a result.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow builds a row from parallel key and value slices. Extra values are dropped and
// missing values are nil.
func NewRow(keys []string, values ...any) Row {
	r := Row{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]any, len(keys)),
	}
	for i, k := range keys {
		var v any
		if i < len(values) {
			v = values[i]
		}
		r.set(k, v)
	}
	return r
}

func (r *Row) set(k string, v any) {
	if _, ok := r.values[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.values[k] = v
}

// Keys returns the row's keys in order.
func (r Row) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get returns the value stored under k.
func (r Row) Get(k string) (any, bool) {
	v, ok := r.values[k]
	return v, ok
}

// Len returns the number of keys.
func (r Row) Len() int {
	return len(r.keys)
}

// UnmarshalJSON decodes a JSON object keeping its key order. Numbers decode as
// json.Number so integers survive unchanged.
func (r *Row) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row must be a JSON object, got %v", tok)
	}

	*r = Row{values: map[string]any{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		r.set(key, v)
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the row as an object in key order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatValue renders a cell for display or export: nil is empty, objects and arrays
// are compact JSON, scalars use their natural text form.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case map[string]any, []any, Row:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}
