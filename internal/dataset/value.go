package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	Missing Kind = iota
	Number
	Text
	Bool
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	case Bool:
		return "bool"
	default:
		return "missing"
	}
}

// Value is a single decoded cell. The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
}

func NumberValue(f float64) Value { return Value{kind: Number, num: f} }
func TextValue(s string) Value    { return Value{kind: Text, text: s} }
func BoolValue(b bool) Value      { return Value{kind: Bool, b: b} }
func MissingValue() Value         { return Value{} }

func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the value is missing or blank text.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case Missing:
		return true
	case Text:
		return strings.TrimSpace(v.text) == ""
	}
	return false
}

// Float converts the value to a finite number. Numbers pass through, booleans
// map to 1/0 and text is parsed after trimming surrounding whitespace. Blank
// text, missing values and anything that parses to NaN or ±Inf report false.
func (v Value) Float() (float64, bool) {
	var f float64
	switch v.kind {
	case Number:
		f = v.num
	case Bool:
		if v.b {
			return 1, true
		}
		return 0, true
	case Text:
		raw := strings.TrimSpace(v.text)
		if raw == "" {
			return 0, false
		}
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Coerce returns the numeric value of v, or 0 when v has none.
func Coerce(v Value) float64 {
	f, ok := v.Float()
	if !ok {
		return 0
	}
	return f
}

// String renders the value the way a table cell would show it.
func (v Value) String() string {
	switch v.kind {
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Text:
		return v.text
	case Bool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Number:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.num)
	case Text:
		return json.Marshal(v.text)
	case Bool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}
