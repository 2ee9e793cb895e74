// Package core provides the business logic for bulk employee imports.
//
// The package is a pipeline of pure stages over a fixed column contract
// (defined in internal/schema):
//
//	bytes -> parser -> header index -> canonical rows -> verdicts
//
// # Parsing
//
// Two parsers produce the same raw-row shape, so everything downstream is
// format-agnostic. [ParseDelimited] is a hand-rolled two-state machine over
// delimited text that never fails: unterminated quotes, ragged rows and
// mixed line endings all degrade to best-effort interpretation.
// [ParseWorkbook] decodes the first sheet of an xlsx container and
// stringifies every cell.
//
// # Canonicalization
//
// Header cells are normalized ([NormalizeHeader]) onto contract keys; a
// column titled "Staff ID", "staff-id" or "staff id" all resolve to
// staff_id, and unrecognized columns are silently ignored. [Canonicalize]
// then produces one map per row holding exactly the contract key set, with
// empty strings for anything the source lacked.
//
// # Validation
//
// [ValidateRow] applies mandatory-field, enumeration, email-shape and
// date-syntax rules, accumulating every violation for a row into one
// verdict. Failure is data, not error: one bad row never aborts a batch.
//
// # Service
//
// [Service] wires the chain to persistence: [Service.ProcessImport] upserts
// valid rows in a single transaction with a savepoint per row, and
// [Service.AnalyzeImport] runs the same chain read-only for previews.
// [EmitTemplateCSV] and [EmitTemplateXLSX] produce downloadable templates
// that round-trip through the chain.
package core
