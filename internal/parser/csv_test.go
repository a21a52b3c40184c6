package parser

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCSVBlankCellsAreAbsent(t *testing.T) {
	recs, err := Decode([]byte("name,qty\nwidget,5\ngadget,\n"), Hint{Kind: dataset.SourceFile, Name: "stock.csv"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"name", "qty"}, recs[0].Keys())
	assert.Equal(t, "5", recs[0].Get("qty").String())
	assert.Equal(t, dataset.Text, recs[0].Get("qty").Kind())
	assert.False(t, recs[1].Has("qty"))
}

func TestDecodeCSVKeepsWhitespace(t *testing.T) {
	recs, err := Decode([]byte(" name , qty\nwidget,  \n"), Hint{Name: "stock.csv"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{" name ", " qty"}, recs[0].Keys())
	assert.Equal(t, "widget", recs[0].Get(" name ").String())
	require.True(t, recs[0].Has(" qty"))
	assert.Equal(t, "  ", recs[0].Get(" qty").String())
}

func TestDecodeCSVShapes(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantKeys [][]string
	}{
		{
			name:     "semicolons with BOM",
			payload:  "\xef\xbb\xbfmonth;sales\nEnero;15000\n",
			wantKeys: [][]string{{"month", "sales"}},
		},
		{
			name:     "tabs",
			payload:  "a\tb\n1\t2\n",
			wantKeys: [][]string{{"a", "b"}},
		},
		{
			name:     "short row",
			payload:  "a,b,c\n1\n",
			wantKeys: [][]string{{"a"}},
		},
		{
			name:     "blank rows skipped",
			payload:  "a,b\n,\n1,2\n",
			wantKeys: [][]string{{"a", "b"}},
		},
		{
			name:     "duplicate and empty headers",
			payload:  "a,a,,\n1,2,3,4\n",
			wantKeys: [][]string{{"a", "a_1", "__EMPTY", "__EMPTY_1"}},
		},
		{
			name:     "extra cells get generated headers",
			payload:  "a\n1,2\n",
			wantKeys: [][]string{{"a", "__EMPTY"}},
		},
		{
			name:     "quoted delimiter does not count",
			payload:  "\"x;y\",z\n1,2\n",
			wantKeys: [][]string{{"x;y", "z"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := Decode([]byte(tt.payload), Hint{})
			require.NoError(t, err)
			require.Len(t, recs, len(tt.wantKeys))
			for i, keys := range tt.wantKeys {
				assert.Equal(t, keys, recs[i].Keys())
			}
		})
	}
}

func TestDecodeCSVHeaderOnlyIsEmpty(t *testing.T) {
	_, err := Decode([]byte("a,b\n"), Hint{Name: "empty.csv"})
	var empty *dataset.EmptyDatasetError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "empty.csv", empty.Source)
}

func TestDecodeBinaryGarbage(t *testing.T) {
	_, err := Decode([]byte("%PDF-1.7\x00\x01\x02\xff"), Hint{Name: "report.bin"})
	var dec *dataset.DecodeError
	require.True(t, errors.As(err, &dec))
	assert.Equal(t, "csv", dec.Format)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter([]byte("a,b;c,d\n")))
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c\r\n1,5;2;3")))
	assert.Equal(t, '\t', sniffDelimiter([]byte("a\tb")))
	assert.Equal(t, ',', sniffDelimiter(nil))
}
