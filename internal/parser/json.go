package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
)

type jsonDecoder struct{}

func (jsonDecoder) CanDecode(h Hint, _ []byte) bool { return h.IsJSON() }

// Decode accepts a single object (one record) or an array of objects.
func (jsonDecoder) Decode(payload []byte) ([]dataset.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(stripBOM(payload)))
	var top json.RawMessage
	if err := dec.Decode(&top); err != nil {
		return nil, jsonErr(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, jsonErr(errors.New("unexpected data after top-level value"))
	}

	switch firstByte(top) {
	case '{':
		rec, err := decodeObject(top)
		if err != nil {
			return nil, jsonErr(err)
		}
		return []dataset.Record{rec}, nil
	case '[':
		return decodeArray(top)
	default:
		return nil, jsonErr(errors.New("top-level value must be an object or an array of objects"))
	}
}

func decodeArray(raw json.RawMessage) ([]dataset.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, jsonErr(err)
	}
	var out []dataset.Record
	for i := 0; dec.More(); i++ {
		var el json.RawMessage
		if err := dec.Decode(&el); err != nil {
			return nil, jsonErr(err)
		}
		if firstByte(el) != '{' {
			return nil, jsonErr(fmt.Errorf("element %d is not an object", i))
		}
		rec, err := decodeObject(el)
		if err != nil {
			return nil, jsonErr(fmt.Errorf("element %d: %w", i, err))
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeObject keeps keys in document order, which a map would lose.
func decodeObject(raw json.RawMessage) (dataset.Record, error) {
	var rec dataset.Record
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return rec, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return rec, err
		}
		key, ok := tok.(string)
		if !ok {
			return rec, fmt.Errorf("unexpected object key %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return rec, err
		}
		val, err := jsonValue(v)
		if err != nil {
			return rec, fmt.Errorf("key %q: %w", key, err)
		}
		rec.Set(key, val)
	}
	return rec, nil
}

func jsonValue(raw json.RawMessage) (dataset.Value, error) {
	switch firstByte(raw) {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return dataset.Value{}, err
		}
		return dataset.TextValue(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return dataset.Value{}, err
		}
		return dataset.BoolValue(b), nil
	case 'n':
		return dataset.MissingValue(), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return dataset.Value{}, err
		}
		return dataset.TextValue(buf.String()), nil
	default:
		// Out-of-range numbers come back as ±Inf and coerce to zero later.
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return dataset.Value{}, err
		}
		return dataset.NumberValue(f), nil
	}
}

func firstByte(raw []byte) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func jsonErr(err error) error {
	return &dataset.DecodeError{Format: "json", Err: err}
}
