package analysis

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
)

// Chart caps keep the comparison and share projections legible. Columns past
// the cap are left out of the charts only.
const (
	ComparisonSeriesCap = 3
	ShareSliceCap       = 4
)

// ColumnStats holds the total and mean of one numeric column.
type ColumnStats struct {
	Column  string  `json:"column"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

// Series is one numeric column's values, one per record.
type Series struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Comparison is the per-record, multi-series (bar chart) projection.
type Comparison struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Share is the per-column total (pie chart) projection.
type Share struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Percentages returns each slice as a percentage of the sum of all slices.
// A zero sum yields zeros.
func (s Share) Percentages() []float64 {
	var sum float64
	for _, v := range s.Values {
		sum += v
	}
	out := make([]float64, len(s.Values))
	if sum == 0 {
		return out
	}
	for i, v := range s.Values {
		out[i] = v * 100 / sum
	}
	return out
}

// Summary is everything derived from one dataset's records.
type Summary struct {
	Records    int           `json:"records"`
	Stats      []ColumnStats `json:"stats"`
	Comparison Comparison    `json:"comparison"`
	Share      Share         `json:"share"`
}

// Stat looks up the statistics of a numeric column.
func (s *Summary) Stat(col string) (ColumnStats, bool) {
	for _, st := range s.Stats {
		if st.Column == col {
			return st, true
		}
	}
	return ColumnStats{}, false
}

// Aggregate sums every numeric column over all records, coercing values that
// are not finite numbers to zero. With no records each Average is NaN.
func Aggregate(records []dataset.Record, schema dataset.Schema) *Summary {
	n := len(records)
	sum := &Summary{Records: n, Stats: make([]ColumnStats, 0, len(schema.Numeric))}
	for _, col := range schema.Numeric {
		var total float64
		for _, r := range records {
			total += dataset.Coerce(r.Get(col))
		}
		avg := math.NaN()
		if n > 0 {
			avg = total / float64(n)
		}
		sum.Stats = append(sum.Stats, ColumnStats{Column: col, Total: total, Average: avg})
	}
	sum.Comparison = comparison(records, schema)
	sum.Share = share(sum.Stats)
	return sum
}

func comparison(records []dataset.Record, schema dataset.Schema) Comparison {
	c := Comparison{Labels: make([]string, len(records)), Series: []Series{}}
	var labelCol string
	if len(schema.Columns) > 0 {
		labelCol = schema.Columns[0]
	}
	for i, r := range records {
		c.Labels[i] = rowLabel(r, labelCol, i)
	}
	for _, col := range capped(schema.Numeric, ComparisonSeriesCap) {
		vals := make([]float64, len(records))
		for i, r := range records {
			vals[i] = dataset.Coerce(r.Get(col))
		}
		c.Series = append(c.Series, Series{Label: col, Values: vals})
	}
	return c
}

func rowLabel(r dataset.Record, col string, i int) string {
	if col != "" {
		if v := r.Get(col); !v.IsEmpty() {
			return v.String()
		}
	}
	return fmt.Sprintf("Row %d", i+1)
}

func share(stats []ColumnStats) Share {
	s := Share{Labels: []string{}, Values: []float64{}}
	for _, st := range stats {
		if len(s.Labels) == ShareSliceCap {
			break
		}
		s.Labels = append(s.Labels, st.Column)
		s.Values = append(s.Values, st.Total)
	}
	return s
}

func capped(cols []string, n int) []string {
	if len(cols) > n {
		return cols[:n]
	}
	return cols
}
