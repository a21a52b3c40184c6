package parser

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
)

// Hint describes what is known about a payload before decoding it.
type Hint struct {
	// ContentType is the declared media type, e.g. from an HTTP response.
	ContentType string
	Kind        dataset.SourceKind
	// Name is the file name, when there is one.
	Name string
}

// IsJSON reports whether the declared content type is application/json. With
// no content type, a .json file name counts as well.
func (h Hint) IsJSON() bool {
	if h.ContentType != "" {
		mt, _, err := mime.ParseMediaType(h.ContentType)
		if err != nil {
			return strings.Contains(strings.ToLower(h.ContentType), "application/json")
		}
		return mt == "application/json"
	}
	return strings.EqualFold(filepath.Ext(h.Name), ".json")
}

// Decoder turns a raw payload into records.
type Decoder interface {
	CanDecode(h Hint, payload []byte) bool
	Decode(payload []byte) ([]dataset.Record, error)
}

var registry []Decoder

// Register adds a decoder; earlier registrations win.
func Register(d Decoder) {
	registry = append(registry, d)
}

// Decode selects a decoder for the payload and returns its records. Zero
// records is an error.
func Decode(payload []byte, h Hint) ([]dataset.Record, error) {
	for _, d := range registry {
		if !d.CanDecode(h, payload) {
			continue
		}
		records, err := d.Decode(payload)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, &dataset.EmptyDatasetError{Source: sourceLabel(h)}
		}
		return records, nil
	}
	return nil, &dataset.DecodeError{Format: "payload", Err: ErrUnsupported}
}

func sourceLabel(h Hint) string {
	if h.Name != "" {
		return h.Name
	}
	return string(h.Kind)
}

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
	utf8BOM  = []byte("\xef\xbb\xbf")
)

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, utf8BOM)
}

func init() {
	Register(jsonDecoder{})
	Register(workbookDecoder{})
	Register(legacyWorkbookDecoder{})
	Register(csvDecoder{})
}
