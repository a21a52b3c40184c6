package dataset

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind names where a dataset came from.
type SourceKind string

const (
	SourceFile    SourceKind = "file"
	SourceRemote  SourceKind = "url"
	SourceBundled SourceKind = "sample"
)

// Dataset is the result of one successful load. It is never mutated after New
// returns; a later load produces a new Dataset.
type Dataset struct {
	ID       uuid.UUID
	Source   SourceKind
	Name     string
	Records  []Record
	Schema   Schema
	LoadedAt time.Time
	// Fallback is set when the bundled sample could not be read and the
	// embedded fallback records were used instead.
	Fallback bool
}

// New normalizes records and wraps them in a fresh Dataset.
func New(kind SourceKind, name string, records []Record, opt Options) (*Dataset, error) {
	schema, err := Normalize(records, opt)
	if err != nil {
		if e, ok := err.(*EmptyDatasetError); ok && e.Source == "" {
			e.Source = name
		}
		return nil, err
	}
	return &Dataset{
		ID:       uuid.New(),
		Source:   kind,
		Name:     name,
		Records:  records,
		Schema:   schema,
		LoadedAt: time.Now(),
	}, nil
}

func (d *Dataset) Len() int { return len(d.Records) }
