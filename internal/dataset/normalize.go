package dataset

// Options controls column classification.
type Options struct {
	// StrictTypeInference requires every non-missing value of a column to be
	// numeric before the column is classified numeric. The default decides from
	// the first record only; later non-numeric values then count as zero.
	StrictTypeInference bool
}

// DefaultOptions returns first-record inference.
func DefaultOptions() Options {
	return Options{}
}

// Schema is the ordered column list and its numeric subset.
type Schema struct {
	Columns []string `json:"columns"`
	Numeric []string `json:"numeric_columns"`
}

// IsNumeric reports whether col was classified numeric.
func (s Schema) IsNumeric(col string) bool {
	for _, c := range s.Numeric {
		if c == col {
			return true
		}
	}
	return false
}

// Normalize derives the column list from the first record's keys and
// classifies each column from that record's value.
func Normalize(records []Record, opt Options) (Schema, error) {
	if len(records) == 0 {
		return Schema{}, &EmptyDatasetError{}
	}
	first := records[0]
	s := Schema{Columns: first.Keys(), Numeric: []string{}}
	for _, col := range s.Columns {
		if _, ok := first.Get(col).Float(); !ok {
			continue
		}
		if opt.StrictTypeInference && !numericThroughout(records[1:], col) {
			continue
		}
		s.Numeric = append(s.Numeric, col)
	}
	return s, nil
}

func numericThroughout(records []Record, col string) bool {
	for _, r := range records {
		v := r.Get(col)
		if v.IsEmpty() {
			continue
		}
		if _, ok := v.Float(); !ok {
			return false
		}
	}
	return true
}
