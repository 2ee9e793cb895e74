package core

// template.go emits the canonical import template in both supported
// encodings. The delimited-text form is the exact algorithmic inverse of
// the parser in csv.go: records CRLF-separated, a field wrapped in quotes
// when it contains a comma, quote or line break, internal quotes doubled,
// field content otherwise untouched. encoding/csv's writer is close but not
// inverse: with UseCRLF it rewrites bare \n inside quoted fields to \r\n,
// which breaks byte-fidelity for values with embedded line breaks.

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/staffdeck/importer/internal/schema"
)

// ExampleRow returns the fully-populated sample row shipped in templates.
// end_date is left empty to demonstrate that it is optional.
func ExampleRow() CanonicalRow {
	return CanonicalRow{
		"staff_id":          "EMP001",
		"first_name":        "Jane",
		"last_name":         "Doe",
		"email":             "jane.doe@example.com",
		"phone_number":      "+2348012345678",
		"gender":            "female",
		"contract_type":     "permanent",
		"employment_status": "confirmed",
		"start_date":        "2024-01-15",
		"end_date":          "",
		"department":        "Engineering",
		"job_role":          "Software Engineer",
		"work_location":     "Lagos HQ",
	}
}

// EmitTemplateCSV serializes a two-line comma-delimited template: the
// contract keys as the header record, then the example row, CRLF-separated.
func EmitTemplateCSV(contract schema.Contract, example CanonicalRow) ([]byte, error) {
	record := make([]string, len(contract.Fields))
	for i, f := range contract.Fields {
		record[i] = example[f.Key]
	}

	var buf bytes.Buffer
	writeDelimitedRecord(&buf, contract.Keys())
	writeDelimitedRecord(&buf, record)
	return buf.Bytes(), nil
}

// writeDelimitedRecord appends one comma-delimited, CRLF-terminated record.
func writeDelimitedRecord(buf *bytes.Buffer, record []string) {
	for i, field := range record {
		if i > 0 {
			buf.WriteByte(',')
		}
		if strings.ContainsAny(field, ",\"\r\n") {
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
			buf.WriteByte('"')
		} else {
			buf.WriteString(field)
		}
	}
	buf.WriteString("\r\n")
}

// templateColWidth is cosmetic only; it carries no contract.
const templateColWidth = 22

// EmitTemplateXLSX serializes a single-sheet workbook template named for the
// contract entity, with the contract keys as the header row and the example
// values as the one data row.
func EmitTemplateXLSX(contract schema.Contract, example CanonicalRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, contract.Entity); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	sheet = contract.Entity

	for i, spec := range contract.Fields {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, spec.Key); err != nil {
			return nil, err
		}

		cell, err = excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, example[spec.Key]); err != nil {
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(contract.Fields))
	if err == nil {
		_ = f.SetColWidth(sheet, "A", lastCol, templateColWidth)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
