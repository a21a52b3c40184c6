package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
)

// DefaultDisplayRows is how many records a rendered table shows.
const DefaultDisplayRows = 10

// Report pairs a dataset with its summary for presentation.
type Report struct {
	Dataset *dataset.Dataset
	Summary *Summary
	// DisplayRows caps the sample table; <= 0 means DefaultDisplayRows.
	DisplayRows int
}

// NewReport aggregates ds and wraps the result.
func NewReport(ds *dataset.Dataset, displayRows int) *Report {
	return &Report{Dataset: ds, Summary: Aggregate(ds.Records, ds.Schema), DisplayRows: displayRows}
}

// Head returns the records the sample table shows.
func (r *Report) Head() []dataset.Record {
	n := r.DisplayRows
	if n <= 0 {
		n = DefaultDisplayRows
	}
	if n > len(r.Dataset.Records) {
		n = len(r.Dataset.Records)
	}
	return r.Dataset.Records[:n]
}

// Notes lists the caveats a reader of the report should see.
func (r *Report) Notes() []string {
	var notes []string
	if head := len(r.Head()); head < r.Dataset.Len() {
		notes = append(notes, fmt.Sprintf("showing first %d of %d records", head, r.Dataset.Len()))
	}
	if r.Dataset.Fallback {
		notes = append(notes, "sample file unavailable; showing built-in example data")
	}
	if len(r.Dataset.Schema.Numeric) > ComparisonSeriesCap {
		notes = append(notes, fmt.Sprintf("comparison chart limited to the first %d numeric columns", ComparisonSeriesCap))
	}
	if len(r.Dataset.Schema.Numeric) > ShareSliceCap {
		notes = append(notes, fmt.Sprintf("share chart limited to the first %d numeric columns", ShareSliceCap))
	}
	return notes
}

// Markdown renders a compact report of the dataset and its aggregates.
func (r *Report) Markdown() string {
	ds, sum := r.Dataset, r.Summary
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if ds.Name != "" {
		b.WriteString(fmt.Sprintf("Source: %s (%s)\n", ds.Name, ds.Source))
	} else {
		b.WriteString(fmt.Sprintf("Source: %s\n", ds.Source))
	}
	b.WriteString(fmt.Sprintf("Records: %d\n", ds.Len()))
	b.WriteString(fmt.Sprintf("Columns: %d (%d numeric)\n\n", len(ds.Schema.Columns), len(ds.Schema.Numeric)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range ds.Schema.Columns {
		kind := "text"
		if ds.Schema.IsNumeric(c) {
			kind = "numeric"
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", safeName(c), kind))
	}

	if len(sum.Stats) > 0 {
		b.WriteString("\n[STATISTICS]\n")
		for _, st := range sum.Stats {
			b.WriteString(fmt.Sprintf("- %s: total %s, average %.2f\n", safeName(st.Column), FormatNumber(st.Total), st.Average))
		}

		b.WriteString("\n[COMPARISON]\n")
		for _, s := range sum.Comparison.Series {
			parts := make([]string, len(s.Values))
			for i, v := range s.Values {
				parts[i] = fmt.Sprintf("%s=%s", safeVal(sum.Comparison.Labels[i]), FormatNumber(v))
			}
			b.WriteString(fmt.Sprintf("- %s: %s\n", safeName(s.Label), strings.Join(parts, ", ")))
		}

		b.WriteString("\n[SHARE]\n")
		pct := sum.Share.Percentages()
		for i, l := range sum.Share.Labels {
			b.WriteString(fmt.Sprintf("- %s: %s (%.1f%%)\n", safeName(l), FormatNumber(sum.Share.Values[i]), pct[i]))
		}
	}

	if head := r.Head(); len(head) > 0 && len(ds.Schema.Columns) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range ds.Schema.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeVal(safeName(c)))
		}
		b.WriteString(" |\n| ")
		for i := range ds.Schema.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, rec := range head {
			b.WriteString("| ")
			for i, c := range ds.Schema.Columns {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := rec.Get(c).String()
				if utf8.RuneCountInString(val) > 80 {
					val = string([]rune(val)[:77]) + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}

	if notes := r.Notes(); len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatNumber prints integers without a fraction and other values with up
// to two decimals.
func FormatNumber(f float64) string {
	if math.Abs(f) < 1e15 && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
