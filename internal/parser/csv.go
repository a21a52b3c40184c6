package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
)

type csvDecoder struct{}

// CanDecode accepts anything: CSV is the last resort of the spreadsheet path.
func (csvDecoder) CanDecode(Hint, []byte) bool { return true }

func (csvDecoder) Decode(payload []byte) ([]dataset.Record, error) {
	payload = stripBOM(payload)
	if !utf8.Valid(payload) || bytes.IndexByte(payload, 0) >= 0 {
		return nil, &dataset.DecodeError{Format: "csv", Err: errors.New("payload is not UTF-8 text")}
	}
	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = sniffDelimiter(payload)

	var rows [][]dataset.Value
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &dataset.DecodeError{Format: "csv", Err: fmt.Errorf("read row %d: %w", len(rows)+1, err)}
		}
		row := make([]dataset.Value, len(rec))
		for j, cell := range rec {
			if cell != "" {
				row[j] = dataset.TextValue(cell)
			}
		}
		rows = append(rows, row)
	}
	return recordsFromRows(rows), nil
}

// sniffDelimiter picks the most frequent of ',', ';' and '\t' on the header
// line, ignoring quoted text. Ties and an empty header fall back to ','.
func sniffDelimiter(payload []byte) rune {
	line := payload
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	counts := map[rune]int{}
	inQuotes := false
	for _, c := range string(line) {
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case c == ',' || c == ';' || c == '\t':
			counts[c]++
		}
	}
	best := ','
	for _, c := range []rune{';', '\t'} {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
