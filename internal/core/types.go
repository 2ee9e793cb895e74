package core

import "time"

// RawRow is one record straight from a parsed source: positionally ordered
// string cells with no semantic meaning attached. The first raw row of a
// parse is the header row. A raw row may carry fewer or more cells than the
// header; downstream stages tolerate both.
type RawRow = []string

// CanonicalRow maps every contract key to a string value. A canonical row
// always has exactly the contract's key set; columns absent from the source
// are present here as empty strings.
type CanonicalRow map[string]string

// Verdict is the validity outcome for one canonical row. An invalid verdict
// carries every violated rule for the row joined by "; ", never just the
// first one.
type Verdict struct {
	Valid bool
	Err   string
}

// RowResult pairs a canonical row with its verdict and the source line it
// came from (1-indexed, counting the header as line 1).
type RowResult struct {
	Line    int
	Row     CanonicalRow
	Verdict Verdict
}

// RejectedRow describes one row that was not imported and why.
type RejectedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportResult is the outcome of one import run. Error is set when the file
// decoded but yielded nothing importable; row-level failures go to Rejected.
type ImportResult struct {
	ImportID  string        `json:"importId"`
	FileName  string        `json:"fileName"`
	TotalRows int           `json:"totalRows"`
	Imported  int           `json:"imported"`
	Rejected  []RejectedRow `json:"rejected,omitempty"`
	Duration  time.Duration `json:"-"`
	Error     string        `json:"error,omitempty"`
}

// PreviewSummary contains the summary counts for a dry-run analysis.
type PreviewSummary struct {
	TotalRows int `json:"totalRows"`
	ValidRows int `json:"validRows"`
	ErrorRows int `json:"errorRows"`
	EmptyRows int `json:"emptyRows"`
}

// ErrorPreview represents a sampled row with validation errors.
type ErrorPreview struct {
	Line   int               `json:"line"`
	Values map[string]string `json:"values"`
	Errors string            `json:"errors"`
}

// PreviewResponse is the complete response from a dry-run analysis.
type PreviewResponse struct {
	Summary          PreviewSummary `json:"summary"`
	ErrorSamples     []ErrorPreview `json:"errorSamples,omitempty"`
	ProcessingTimeMs int64          `json:"processingTimeMs"`
}
