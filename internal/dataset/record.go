package dataset

import (
	"bytes"
	"encoding/json"
)

// Field is one named value, used to build records literally.
type Field struct {
	Name  string
	Value Value
}

// Record is one row: an ordered mapping from column name to Value.
// Keys keep insertion order; setting an existing key replaces its value in place.
type Record struct {
	keys []string
	vals map[string]Value
}

// NewRecord builds a record from fields in order.
func NewRecord(fields ...Field) Record {
	r := Record{vals: make(map[string]Value, len(fields))}
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

func (r *Record) Set(key string, v Value) {
	if r.vals == nil {
		r.vals = make(map[string]Value)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Get returns the value for key; absent keys yield a Missing value.
func (r Record) Get(key string) Value {
	return r.vals[key]
}

func (r Record) Has(key string) bool {
	_, ok := r.vals[key]
	return ok
}

// Keys returns a copy of the column names in order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Record) Len() int { return len(r.keys) }

// MarshalJSON writes the record as an object with keys in record order.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := r.vals[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
