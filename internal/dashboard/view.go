package dashboard

import (
	"time"

	"github.com/KaramelBytes/sheetdash/internal/analysis"
	"github.com/KaramelBytes/sheetdash/internal/dataset"
)

// View is the JSON shape of a snapshot.
type View struct {
	ID         string                 `json:"id"`
	Source     dataset.SourceKind     `json:"source"`
	Name       string                 `json:"name,omitempty"`
	LoadedAt   time.Time              `json:"loaded_at"`
	Fallback   bool                   `json:"fallback"`
	Records    int                    `json:"records"`
	Schema     dataset.Schema         `json:"schema"`
	Stats      []analysis.ColumnStats `json:"stats"`
	Comparison analysis.Comparison    `json:"comparison"`
	Share      ShareView              `json:"share"`
	Head       []dataset.Record       `json:"head"`
	Notes      []string               `json:"notes,omitempty"`
}

// ShareView adds the percentage of each slice to the share projection.
type ShareView struct {
	analysis.Share
	Percentages []float64 `json:"percentages"`
}

// NewView flattens a snapshot for JSON output.
func NewView(s *Snapshot) View {
	ds, rep := s.Dataset, s.Report
	return View{
		ID:         ds.ID.String(),
		Source:     ds.Source,
		Name:       ds.Name,
		LoadedAt:   ds.LoadedAt,
		Fallback:   ds.Fallback,
		Records:    ds.Len(),
		Schema:     ds.Schema,
		Stats:      rep.Summary.Stats,
		Comparison: rep.Summary.Comparison,
		Share:      ShareView{Share: rep.Summary.Share, Percentages: rep.Summary.Share.Percentages()},
		Head:       rep.Head(),
		Notes:      rep.Notes(),
	}
}
