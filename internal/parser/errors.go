package parser

import "errors"

var (
	// ErrUnsupported indicates no registered decoder accepted the payload.
	ErrUnsupported = errors.New("unsupported payload format")
	// ErrLegacyWorkbook indicates a BIFF (.xls) workbook that could not be read.
	ErrLegacyWorkbook = errors.New("unreadable .xls workbook; save the file as .xlsx or .csv")
)
