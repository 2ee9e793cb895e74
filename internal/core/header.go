package core

import (
	"strings"

	"github.com/staffdeck/importer/internal/schema"
)

// HeaderIndex maps normalized header keys to their position in a raw row.
type HeaderIndex map[string]int

// NormalizeHeader maps arbitrary header text onto a canonical lookup key:
// surrounding whitespace trimmed, lowercased, internal whitespace runs
// collapsed to a single underscore, hyphens converted to underscores.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Join(strings.Fields(h), "_")
	return strings.ReplaceAll(h, "-", "_")
}

// MakeHeaderIndex builds a lookup index from a raw header row. Normalization
// folds the alternate spellings real-world spreadsheet exports use onto the
// underscore form, so columns titled "Staff ID" or "staff-id" index as
// staff_id and contract keys hit the index directly. When two columns
// normalize to the same key the first occurrence wins.
func MakeHeaderIndex(header RawRow) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

// Canonicalize combines one raw row with the header index and the contract
// to produce a canonical row: every contract key present, empty string when
// the source lacked that column or the row is short. Columns that resolve to
// no contract key are ignored. Never errors.
func Canonicalize(row RawRow, idx HeaderIndex, contract schema.Contract) CanonicalRow {
	out := make(CanonicalRow, len(contract.Fields))
	for _, f := range contract.Fields {
		val := ""
		if pos, ok := idx[f.Key]; ok && pos < len(row) {
			val = row[pos]
		}
		out[f.Key] = val
	}
	return out
}
