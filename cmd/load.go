package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetdash/internal/dashboard"
	"github.com/KaramelBytes/sheetdash/internal/dataset"
	"github.com/KaramelBytes/sheetdash/internal/source"
	"github.com/KaramelBytes/sheetdash/internal/utils"
)

// outFs is where --output reports are written.
var outFs afero.Fs = afero.NewOsFs()

// viewOptions are the presentation flags shared by the load commands.
type viewOptions struct {
	format    string
	rows      int
	strict    bool
	output    string
	allowJSON bool
}

func (o *viewOptions) register(c *cobra.Command) {
	c.Flags().StringVarP(&o.format, "format", "f", "", "output format: md|table|json (default from config)")
	c.Flags().IntVarP(&o.rows, "rows", "n", 0, "records to show in the sample table (default from config)")
	c.Flags().BoolVar(&o.strict, "strict", false, "classify a column as numeric only if every value is numeric")
	c.Flags().StringVarP(&o.output, "output", "o", "", "write the report to this path instead of stdout")
}

// resolve fills unset options from config.
func (o *viewOptions) resolve(c *cobra.Command) (format string, rows int, strict bool, err error) {
	s := settings()
	format = strings.ToLower(strings.TrimSpace(o.format))
	if format == "" {
		format = s.DefaultFormat
	}
	if !validFormat(format) {
		return "", 0, false, &dataset.InvalidInputError{Field: "format", Msg: fmt.Sprintf("%q (use md, table or json)", format)}
	}
	rows = s.DisplayRows
	if c.Flags().Changed("rows") {
		if o.rows <= 0 {
			return "", 0, false, &dataset.InvalidInputError{Field: "rows", Msg: "must be positive"}
		}
		rows = o.rows
	}
	strict = s.StrictTypeInference
	if c.Flags().Changed("strict") {
		strict = o.strict
	}
	return format, rows, strict, nil
}

func validFormat(f string) bool {
	switch f {
	case "md", "markdown", "table", "json":
		return true
	}
	return false
}

// newSession builds a session from config.
func newSession(o *viewOptions, rows int, strict bool) *dashboard.Session {
	s := settings()
	files := source.NewFileSource(afero.NewOsFs())
	files.AllowJSON = o != nil && o.allowJSON
	remote := source.NewRemoteSource(time.Duration(s.HTTPTimeoutSec) * time.Second)
	bundled := source.NewBundledSource()
	if s.SamplePath != "" {
		bundled.FS = os.DirFS(filepath.Dir(s.SamplePath))
		bundled.Path = filepath.Base(s.SamplePath)
	}
	return dashboard.NewSession(files, remote, bundled, dashboard.Options{
		Normalize:   dataset.Options{StrictTypeInference: strict},
		DisplayRows: rows,
	})
}

// present renders snap to stdout, or to --output when given.
func (o *viewOptions) present(c *cobra.Command, snap *dashboard.Snapshot, format string) error {
	ds := snap.Dataset
	fmt.Fprintf(c.ErrOrStderr(), "✓ Loaded %d records from %s\n", ds.Len(), ds.Name)
	if ds.Fallback {
		fmt.Fprintln(c.ErrOrStderr(), "⚠ Sample file unavailable; showing built-in example data")
	}

	if o.output == "" {
		return writeSnapshot(c.OutOrStdout(), snap, format)
	}
	var buf bytes.Buffer
	if err := writeSnapshot(&buf, snap, format); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(outFs, o.output, buf.Bytes()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Debug("report written", slog.String("path", o.output), slog.Int("bytes", buf.Len()))
	fmt.Fprintf(c.OutOrStdout(), "✓ Wrote report to %s\n", o.output)
	return nil
}
