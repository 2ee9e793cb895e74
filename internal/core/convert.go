package core

// convert.go maps validated cell values onto PostgreSQL types. By the time a
// row reaches persistence it has passed validation, so these conversions are
// lenient: anything empty or unparseable becomes a NULL rather than an error.

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgEnum converts an enumeration value to pgtype.Text, trimmed and
// lowercased to the canonical spelling the validator accepted.
func ToPgEnum(s string) pgtype.Text {
	return ToPgText(strings.ToLower(s))
}

// ToPgDate converts an ISO 8601 date string to pgtype.Date.
func ToPgDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{Valid: false}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}
