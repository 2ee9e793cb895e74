package core

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook decodes the first sheet (by position) of a spreadsheet into
// raw rows, matching the shape produced by ParseDelimited so downstream
// stages are format-agnostic. Every cell value is coerced to its string
// representation regardless of the original cell type. A workbook whose
// first sheet has fewer than two rows yields an empty row sequence.
func ParseWorkbook(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	out := make([]RawRow, len(rows))
	for i, row := range rows {
		out[i] = RawRow(row)
	}
	return out, nil
}
