package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbookFixture builds a two-sheet workbook in memory; only the first sheet
// should be read.
func workbookFixture(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	require.NoError(t, f.SetSheetName(first, "Ventas"))
	rows := [][]any{
		{"month", "sales", "active", "note"},
		{"Enero", 15000, true, "ok"},
		{"Febrero", 18000.5, false, nil},
		{nil, nil, nil, nil},
		{"Marzo", "22000", nil, "typed as text"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Ventas", cell, &row))
	}

	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "ignored"))
	require.NoError(t, f.SetCellValue("Other", "A2", 1))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeWorkbookFirstSheet(t *testing.T) {
	payload := workbookFixture(t)
	require.True(t, bytes.HasPrefix(payload, zipMagic))

	recs, err := Decode(payload, Hint{Kind: dataset.SourceFile, Name: "ventas.xlsx"})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	first := recs[0]
	assert.Equal(t, []string{"month", "sales", "active", "note"}, first.Keys())
	assert.Equal(t, dataset.Text, first.Get("month").Kind())
	assert.Equal(t, dataset.Number, first.Get("sales").Kind())
	assert.Equal(t, 15000.0, dataset.Coerce(first.Get("sales")))
	assert.Equal(t, dataset.Bool, first.Get("active").Kind())

	assert.Equal(t, 18000.5, dataset.Coerce(recs[1].Get("sales")))
	assert.False(t, recs[1].Has("note"))

	third := recs[2]
	assert.Equal(t, "Marzo", third.Get("month").String())
	assert.Equal(t, dataset.Text, third.Get("sales").Kind())
	assert.Equal(t, 22000.0, dataset.Coerce(third.Get("sales")))
}

func TestDecodeLegacyWorkbookFirstSheet(t *testing.T) {
	// ventas.xls is a BIFF8 workbook with two sheets. Ventas holds a header,
	// three data rows, an empty row 4 and a blank sales cell for Marzo.
	payload, err := os.ReadFile(filepath.Join("testdata", "ventas.xls"))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(payload, oleMagic))

	recs, err := Decode(payload, Hint{Kind: dataset.SourceFile, Name: "ventas.xls"})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, []string{"month", "sales", "costs"}, recs[0].Keys())
	assert.Equal(t, "Enero", recs[0].Get("month").String())
	assert.Equal(t, 15000.0, dataset.Coerce(recs[0].Get("sales")))
	assert.Equal(t, 8000.0, dataset.Coerce(recs[0].Get("costs")))
	assert.Equal(t, 18000.5, dataset.Coerce(recs[1].Get("sales")))

	third := recs[2]
	assert.Equal(t, []string{"month", "costs"}, third.Keys())
	assert.Equal(t, "Marzo", third.Get("month").String())
	assert.False(t, third.Has("sales"))

	ds, err := dataset.New(dataset.SourceFile, "ventas.xls", recs, dataset.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "costs"}, ds.Schema.Numeric)
}
