package core

// csv.go implements the delimited-text parser.
//
// This is a deliberate hand-rolled state machine rather than encoding/csv:
// uploads come from every spreadsheet tool and hand-edited export under the
// sun, and the importer must never reject a file outright. The parser runs a
// single pass with two states (quoted, unquoted), treats a doubled quote
// inside a quoted field as one literal quote, accepts lone \n, lone \r and
// \r\n as record separators, and degrades to best-effort interpretation on
// malformed quoting instead of returning an error.

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ParseDelimited converts comma-delimited text into raw rows. The first row
// is the header row. A trailing record whose fields are all empty is
// dropped, and a result with fewer than two records (no header, or a header
// with no data) collapses to an empty row sequence. Never fails.
func ParseDelimited(data []byte) []RawRow {
	text := string(stripBOM(sanitizeUTF8(data)))

	var rows []RawRow
	var row RawRow
	var field strings.Builder
	inQuotes := false

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRecord := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inQuotes {
			if ch == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteRune(ch)
			continue
		}

		switch {
		case ch == '"' && field.Len() == 0:
			// A quote only opens a quoted region at the start of a field;
			// anywhere else it is literal content.
			inQuotes = true
		case ch == ',':
			endField()
		case ch == '\r':
			// \r\n is one record separator, not two
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endRecord()
		case ch == '\n':
			endRecord()
		default:
			field.WriteRune(ch)
		}
	}

	// Flush a record left pending at end of input (no trailing line break).
	if field.Len() > 0 || len(row) > 0 {
		endRecord()
	}

	// A trailing record of all-empty fields is a blank line, not data.
	if n := len(rows); n > 0 && isEmptyRow(rows[n-1]) {
		rows = rows[:n-1]
	}

	if len(rows) < 2 {
		return nil
	}
	return rows
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row RawRow) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// stripBOM removes a UTF-8 byte order mark, a common Excel export artifact.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement
// character so downstream string handling is safe.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
