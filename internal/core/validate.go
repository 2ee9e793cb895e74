package core

// validate.go applies the per-row business rules.
//
// Every rule is evaluated for every row; violations accumulate into one
// combined message rather than short-circuiting on the first failure, so an
// end user fixing a spreadsheet sees everything wrong with a row at once.
// Rule classes run in a fixed order: mandatory fields, enumerations, email
// shape, date syntax.

import (
	"regexp"
	"strings"
	"time"

	"github.com/staffdeck/importer/internal/schema"
)

// emailRegex checks the minimal shape local-part@domain-with-a-dot: exactly
// one @, no whitespace on either side, at least one dot after the @.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DateLayout is the accepted calendar date syntax. ISO 8601 is the one
// unambiguous choice; day-first versus month-first formats are rejected
// rather than guessed.
const DateLayout = "2006-01-02"

// ValidateRow checks one canonical row against the contract and returns its
// verdict. Violation messages for the row are joined by "; ".
func ValidateRow(row CanonicalRow, contract schema.Contract) Verdict {
	var violations []string

	for _, f := range contract.Fields {
		if f.Required && strings.TrimSpace(row[f.Key]) == "" {
			violations = append(violations, f.Key+" is required")
		}
	}

	for _, f := range contract.Fields {
		if f.Type != schema.FieldEnum {
			continue
		}
		val := strings.ToLower(strings.TrimSpace(row[f.Key]))
		if val != "" && !containsString(f.EnumValues, val) {
			violations = append(violations,
				f.Key+" must be one of: "+strings.Join(f.EnumValues, ", "))
		}
	}

	for _, f := range contract.Fields {
		if f.Type != schema.FieldEmail {
			continue
		}
		val := strings.TrimSpace(row[f.Key])
		if val != "" && !emailRegex.MatchString(val) {
			violations = append(violations, f.Key+" must be a valid email address")
		}
	}

	for _, f := range contract.Fields {
		if f.Type != schema.FieldDate {
			continue
		}
		val := strings.TrimSpace(row[f.Key])
		if val != "" && !validDate(val) {
			violations = append(violations, f.Key+" must be a valid date")
		}
	}

	if len(violations) > 0 {
		return Verdict{Valid: false, Err: strings.Join(violations, "; ")}
	}
	return Verdict{Valid: true}
}

// CanonicalizeAndValidate runs the canonicalizer and validator over parsed
// raw rows. The first raw row is the header; each data row yields one
// result carrying its source line number. Rows are independent: one bad row
// never aborts the batch.
func CanonicalizeAndValidate(records []RawRow, contract schema.Contract) []RowResult {
	if len(records) < 2 {
		return nil
	}

	idx := MakeHeaderIndex(records[0])
	results := make([]RowResult, 0, len(records)-1)

	for i, raw := range records[1:] {
		row := Canonicalize(raw, idx, contract)
		results = append(results, RowResult{
			Line:    i + 2, // 1-indexed, after header
			Row:     row,
			Verdict: ValidateRow(row, contract),
		})
	}

	return results
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
