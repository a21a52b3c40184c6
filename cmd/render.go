package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/KaramelBytes/sheetdash/internal/analysis"
	"github.com/KaramelBytes/sheetdash/internal/dashboard"
	"github.com/KaramelBytes/sheetdash/internal/utils"
)

func writeSnapshot(w io.Writer, snap *dashboard.Snapshot, format string) error {
	switch format {
	case "json":
		b, err := utils.PrettyJSON(dashboard.NewView(snap))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case "table":
		renderTables(w, snap.Report)
		return nil
	default:
		_, err := io.WriteString(w, snap.Report.Markdown())
		return err
	}
}

func renderTables(w io.Writer, rep *analysis.Report) {
	ds, sum := rep.Dataset, rep.Summary
	fmt.Fprintf(w, "%s (%s): %d records, %d columns, %d numeric\n",
		ds.Name, ds.Source, ds.Len(), len(ds.Schema.Columns), len(ds.Schema.Numeric))

	if len(sum.Stats) > 0 {
		share := map[string]float64{}
		for i, pct := range sum.Share.Percentages() {
			share[sum.Share.Labels[i]] = pct
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle("Statistics")
		t.AppendHeader(table.Row{"Column", "Total", "Average", "Share"})
		for _, st := range sum.Stats {
			pct := ""
			if p, ok := share[st.Column]; ok {
				pct = fmt.Sprintf("%.1f%%", p)
			}
			t.AppendRow(table.Row{st.Column, analysis.FormatNumber(st.Total), fmt.Sprintf("%.2f", st.Average), pct})
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		})
		t.Render()
	}

	head := rep.Head()
	if len(head) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		hdr := make(table.Row, len(ds.Schema.Columns))
		for i, c := range ds.Schema.Columns {
			hdr[i] = c
		}
		t.AppendHeader(hdr)
		for _, rec := range head {
			row := make(table.Row, len(ds.Schema.Columns))
			for i, c := range ds.Schema.Columns {
				row[i] = rec.Get(c).String()
			}
			t.AppendRow(row)
		}
		t.Render()
	}

	for _, n := range rep.Notes() {
		fmt.Fprintf(w, "note: %s\n", n)
	}
}
