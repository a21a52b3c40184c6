package parser

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

type workbookDecoder struct{}

func (workbookDecoder) CanDecode(_ Hint, payload []byte) bool {
	return bytes.HasPrefix(payload, zipMagic)
}

// Decode reads the first sheet of an OOXML workbook.
func (workbookDecoder) Decode(payload []byte) ([]dataset.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, xlsxErr(fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, xlsxErr(errors.New("workbook has no sheets"))
	}
	sheet := sheets[0]
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, xlsxErr(fmt.Errorf("read sheet %q: %w", sheet, err))
	}

	rows := make([][]dataset.Value, len(raw))
	for i, cells := range raw {
		row := make([]dataset.Value, len(cells))
		for j, cell := range cells {
			if cell == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, xlsxErr(err)
			}
			typ, err := f.GetCellType(sheet, axis)
			if err != nil {
				return nil, xlsxErr(fmt.Errorf("cell %s: %w", axis, err))
			}
			row[j] = cellValue(typ, cell)
		}
		rows[i] = row
	}
	return recordsFromRows(rows), nil
}

// cellValue maps a raw cell to a Value. Cells without an explicit type are
// how excelize reports plain numbers.
func cellValue(typ excelize.CellType, raw string) dataset.Value {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return dataset.NumberValue(f)
		}
	case excelize.CellTypeBool:
		return dataset.BoolValue(raw == "1" || strings.EqualFold(raw, "true"))
	}
	return dataset.TextValue(raw)
}

type legacyWorkbookDecoder struct{}

func (legacyWorkbookDecoder) CanDecode(_ Hint, payload []byte) bool {
	return bytes.HasPrefix(payload, oleMagic)
}

// Decode reads the first sheet of a BIFF8 (.xls) workbook. The reader only
// reports cell text, so numbers arrive as text and are classified later.
func (legacyWorkbookDecoder) Decode(payload []byte) (recs []dataset.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			recs, err = nil, xlsErr(fmt.Errorf("%w: %v", ErrLegacyWorkbook, r))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(payload), "utf-8")
	if err != nil {
		return nil, xlsErr(fmt.Errorf("%w: %v", ErrLegacyWorkbook, err))
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, xlsErr(fmt.Errorf("%w: no workbook stream", ErrLegacyWorkbook))
	}
	sheet := wb.GetSheet(0)
	if sheet == nil || sheet.MaxRow == 0 {
		// Blank or header-only sheet.
		return nil, nil
	}

	// ReadAllCells concatenates every non-empty sheet; the first sheet
	// contributes exactly MaxRow+1 rows.
	all := wb.ReadAllCells(math.MaxInt32)
	n := int(sheet.MaxRow) + 1
	if len(all) < n {
		return nil, xlsErr(fmt.Errorf("%w: sheet %q is truncated", ErrLegacyWorkbook, sheet.Name))
	}
	rows := make([][]dataset.Value, n)
	for i, cells := range all[:n] {
		row := make([]dataset.Value, len(cells))
		for j, cell := range cells {
			if cell != "" {
				row[j] = dataset.TextValue(cell)
			}
		}
		rows[i] = row
	}
	return recordsFromRows(rows), nil
}

func xlsxErr(err error) error {
	return &dataset.DecodeError{Format: "xlsx", Err: err}
}

func xlsErr(err error) error {
	return &dataset.DecodeError{Format: "xls", Err: err}
}
