package parser

import (
	"fmt"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
)

// recordsFromRows projects a sheet into records: the first row supplies the
// headers and every later row becomes one record. Missing cells are left out
// of the record and rows with no cells at all are skipped. Whitespace is kept
// as written.
func recordsFromRows(rows [][]dataset.Value) []dataset.Record {
	if len(rows) == 0 {
		return nil
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	headers := headerNames(rows[0], width)

	out := make([]dataset.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var rec dataset.Record
		for j, v := range row {
			if j >= width || v.Kind() == dataset.Missing {
				continue
			}
			rec.Set(headers[j], v)
		}
		if rec.Len() == 0 {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// headerNames names unnamed columns __EMPTY, __EMPTY_1, ... and suffixes
// repeated names with _1, _2, ... so every column key is unique.
func headerNames(row []dataset.Value, width int) []string {
	names := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int)
	for j := 0; j < width; j++ {
		base := ""
		if j < len(row) {
			base = row[j].String()
		}
		if base == "" {
			base = "__EMPTY"
		}
		name := base
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s_%d", base, suffix[base])
		}
		used[name] = true
		names[j] = name
	}
	return names
}
