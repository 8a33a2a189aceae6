package pgcodec

import (
	"bytes"
	"encoding/json"
)

// Record is one result row: decoded column values paired with their column names in column order. Names may repeat
// when the query selects several columns with the same name.
type Record struct {
	names  []string
	values []any
}

// NewRecord returns a Record for names and values. Both slices are retained and must have the same length.
func NewRecord(names []string, values []any) Record {
	return Record{names: names, values: values}
}

func (r Record) Len() int {
	return len(r.values)
}

// Names returns the column names. The slice is shared by all records of a result and must not be modified.
func (r Record) Names() []string {
	return r.names
}

func (r Record) Values() []any {
	return r.values
}

// Index returns the value of column i.
func (r Record) Index(i int) any {
	return r.values[i]
}

// Get returns the value of the first column named name.
func (r Record) Get(name string) (any, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map returns the record as a map. The last column wins when names repeat.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.names))
	for i, n := range r.names {
		m[n] = r.values[i]
	}
	return m
}

// MarshalJSON encodes the record as a JSON object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
