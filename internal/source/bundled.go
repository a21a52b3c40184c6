package source

import (
	"embed"
	"io/fs"
	"log/slog"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
	"github.com/KaramelBytes/sheetdash/internal/parser"
)

// DefaultSamplePath is the sample file's path inside the bundled filesystem.
const DefaultSamplePath = "datos-ejemplo.csv"

//go:embed datos-ejemplo.csv
var bundled embed.FS

// Result is the outcome of a bundled load. Fallback is set when the sample
// could not be read or decoded and FallbackRecords were returned instead;
// Cause then holds the reason.
type Result struct {
	Records  []dataset.Record
	Fallback bool
	Cause    error
}

// BundledSource reads the packaged sample dataset.
type BundledSource struct {
	FS     fs.FS
	Path   string
	Logger *slog.Logger
}

// NewBundledSource reads the embedded sample.
func NewBundledSource() *BundledSource {
	return &BundledSource{FS: bundled, Path: DefaultSamplePath, Logger: slog.Default()}
}

// Load never fails: any fetch or decode failure yields the fallback records.
func (s *BundledSource) Load() Result {
	b, err := s.fetch()
	if err != nil {
		return s.fallback(err)
	}
	recs, err := parser.Decode(b, parser.Hint{ContentType: "text/csv", Kind: dataset.SourceBundled, Name: s.Path})
	if err != nil {
		return s.fallback(err)
	}
	return Result{Records: recs}
}

func (s *BundledSource) fetch() ([]byte, error) {
	fsys := s.FS
	if fsys == nil {
		fsys = bundled
	}
	path := s.Path
	if path == "" {
		path = DefaultSamplePath
	}
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, &dataset.IOReadError{Path: path, Err: err}
	}
	return b, nil
}

func (s *BundledSource) fallback(cause error) Result {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("sample dataset unavailable, using built-in records", slog.Any("error", cause))
	return Result{Records: FallbackRecords(), Fallback: true, Cause: cause}
}

// FallbackRecords returns a fresh copy of the built-in six-month sample.
func FallbackRecords() []dataset.Record {
	rows := []struct {
		month                      string
		sales, costs, profit, sold float64
	}{
		{"Enero", 15000, 8000, 7000, 120},
		{"Febrero", 18000, 9000, 9000, 145},
		{"Marzo", 22000, 10000, 12000, 180},
		{"Abril", 19000, 9500, 9500, 155},
		{"Mayo", 25000, 11000, 14000, 200},
		{"Junio", 28000, 12000, 16000, 225},
	}
	out := make([]dataset.Record, len(rows))
	for i, r := range rows {
		out[i] = dataset.NewRecord(
			dataset.Field{Name: "month", Value: dataset.TextValue(r.month)},
			dataset.Field{Name: "sales", Value: dataset.NumberValue(r.sales)},
			dataset.Field{Name: "costs", Value: dataset.NumberValue(r.costs)},
			dataset.Field{Name: "profit", Value: dataset.NumberValue(r.profit)},
			dataset.Field{Name: "units_sold", Value: dataset.NumberValue(r.sold)},
		)
	}
	return out
}
