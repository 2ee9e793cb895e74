package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffdeck/importer/internal/logging"
	"github.com/staffdeck/importer/internal/schema"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// maxErrorSamples caps how many failing rows a preview reports in detail.
const maxErrorSamples = 20

// Service is the entry point for import operations. The parsing and
// validation chain it drives is pure; the service owns the only stateful
// edge, persistence of accepted rows.
type Service struct {
	pool     *pgxpool.Pool
	contract schema.Contract
}

// NewService creates a Service over a connection pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool, contract: schema.Employee}
}

// Contract returns the column contract this service imports against.
func (s *Service) Contract() schema.Contract {
	return s.contract
}

// EnsureSchema creates the employees table if it does not exist yet.
func (s *Service) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS employees (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			staff_id TEXT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone_number TEXT,
			gender TEXT,
			contract_type TEXT,
			employment_status TEXT,
			start_date DATE NOT NULL,
			end_date DATE,
			department TEXT NOT NULL,
			job_role TEXT NOT NULL,
			work_location TEXT,
			import_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// ErrUnreadableFile marks uploads whose container could not be decoded at
// all. It is the caller's signal that the request, not the service, is at
// fault.
var ErrUnreadableFile = errors.New("unreadable file")

// parseByExtension picks the parser from the uploaded file's extension.
// Anything that is not a workbook is treated as delimited text, which never
// fails.
func parseByExtension(fileName string, data []byte) ([]RawRow, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		rows, err := ParseWorkbook(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		return rows, nil
	default:
		return ParseDelimited(data), nil
	}
}

// ProcessImport parses an uploaded file, validates every row, and upserts
// the valid rows keyed on email inside a single transaction with a savepoint
// per row, so one failing insert never poisons the batch. Invalid rows are
// reported back with their line numbers and reasons; they are never fatal.
func (s *Service) ProcessImport(ctx context.Context, fileName string, data []byte) (*ImportResult, error) {
	startTime := time.Now()
	log := logging.FromContext(ctx).With("file", fileName)

	runID := uuid.New()
	result := &ImportResult{
		ImportID: runID.String(),
		FileName: fileName,
	}

	records, err := parseByExtension(fileName, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}
	if len(records) == 0 {
		result.Error = "file contains no data rows"
		result.Duration = time.Since(startTime)
		log.Warn("import skipped", "import_id", result.ImportID, "reason", result.Error)
		return result, nil
	}

	results := CanonicalizeAndValidate(records, s.contract)
	result.TotalRows = len(results)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	importID := pgtype.UUID{Bytes: runID, Valid: true}

	for i, rr := range results {
		if emptyCanonicalRow(rr.Row) {
			continue
		}

		if !rr.Verdict.Valid {
			result.Rejected = append(result.Rejected, RejectedRow{
				Line:   rr.Line,
				Reason: rr.Verdict.Err,
			})
			continue
		}

		savepoint := fmt.Sprintf("sp_%d", i)
		if _, err := tx.Exec(ctx, "SAVEPOINT "+savepoint); err != nil {
			return nil, fmt.Errorf("create savepoint: %w", err)
		}

		if err := upsertEmployee(ctx, tx, rr.Row, importID); err != nil {
			_, _ = tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
			result.Rejected = append(result.Rejected, RejectedRow{
				Line:   rr.Line,
				Reason: fmt.Sprintf("insert: %v", err),
			})
			continue
		}

		_, _ = tx.Exec(ctx, "RELEASE SAVEPOINT "+savepoint)
		result.Imported++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	result.Duration = time.Since(startTime)
	log.Info("import complete",
		"import_id", result.ImportID,
		"total", result.TotalRows,
		"imported", result.Imported,
		"rejected", len(result.Rejected),
		"duration", result.Duration,
	)
	return result, nil
}

// AnalyzeImport performs a read-only dry run: parse, canonicalize and
// validate without touching the database. Useful for a preview step before
// committing an upload.
func (s *Service) AnalyzeImport(ctx context.Context, fileName string, data []byte) (*PreviewResponse, error) {
	startTime := time.Now()

	records, err := parseByExtension(fileName, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}

	resp := &PreviewResponse{}
	for _, rr := range CanonicalizeAndValidate(records, s.contract) {
		resp.Summary.TotalRows++
		switch {
		case emptyCanonicalRow(rr.Row):
			resp.Summary.EmptyRows++
		case rr.Verdict.Valid:
			resp.Summary.ValidRows++
		default:
			resp.Summary.ErrorRows++
			if len(resp.ErrorSamples) < maxErrorSamples {
				resp.ErrorSamples = append(resp.ErrorSamples, ErrorPreview{
					Line:   rr.Line,
					Values: rr.Row,
					Errors: rr.Verdict.Err,
				})
			}
		}
	}

	resp.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	return resp, nil
}

// upsertEmployee writes one validated row, updating in place when the email
// already exists.
func upsertEmployee(ctx context.Context, db DBTX, row CanonicalRow, importID pgtype.UUID) error {
	_, err := db.Exec(ctx, `
		INSERT INTO employees (
			staff_id, first_name, last_name, email, phone_number,
			gender, contract_type, employment_status, start_date, end_date,
			department, job_role, work_location, import_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (email) DO UPDATE SET
			staff_id = EXCLUDED.staff_id,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone_number = EXCLUDED.phone_number,
			gender = EXCLUDED.gender,
			contract_type = EXCLUDED.contract_type,
			employment_status = EXCLUDED.employment_status,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			department = EXCLUDED.department,
			job_role = EXCLUDED.job_role,
			work_location = EXCLUDED.work_location,
			import_id = EXCLUDED.import_id,
			updated_at = now()`,
		ToPgText(row["staff_id"]),
		ToPgText(row["first_name"]),
		ToPgText(row["last_name"]),
		strings.ToLower(strings.TrimSpace(row["email"])),
		ToPgText(row["phone_number"]),
		ToPgEnum(row["gender"]),
		ToPgEnum(row["contract_type"]),
		ToPgEnum(row["employment_status"]),
		ToPgDate(row["start_date"]),
		ToPgDate(row["end_date"]),
		ToPgText(row["department"]),
		ToPgText(row["job_role"]),
		ToPgText(row["work_location"]),
		importID,
	)
	return err
}

// Employee is one persisted employee record.
type Employee struct {
	StaffID          string `json:"staffId,omitempty"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	Gender           string `json:"gender,omitempty"`
	ContractType     string `json:"contractType,omitempty"`
	EmploymentStatus string `json:"employmentStatus,omitempty"`
	StartDate        string `json:"startDate,omitempty"`
	EndDate          string `json:"endDate,omitempty"`
	Department       string `json:"department,omitempty"`
	JobRole          string `json:"jobRole,omitempty"`
	WorkLocation     string `json:"workLocation,omitempty"`
}

// ListEmployees returns a page of employees ordered by last then first name.
func (s *Service) ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT staff_id, first_name, last_name, email, phone_number,
		       gender, contract_type, employment_status, start_date, end_date,
		       department, job_role, work_location
		FROM employees
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		var staffID, phone, gender, ctype, status, dept, role, loc pgtype.Text
		var start, end pgtype.Date
		if err := rows.Scan(&staffID, &e.FirstName, &e.LastName, &e.Email,
			&phone, &gender, &ctype, &status, &start, &end,
			&dept, &role, &loc); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		e.StaffID = staffID.String
		e.PhoneNumber = phone.String
		e.Gender = gender.String
		e.ContractType = ctype.String
		e.EmploymentStatus = status.String
		e.Department = dept.String
		e.JobRole = role.String
		e.WorkLocation = loc.String
		if start.Valid {
			e.StartDate = start.Time.Format(DateLayout)
		}
		if end.Valid {
			e.EndDate = end.Time.Format(DateLayout)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// emptyCanonicalRow reports whether every contract value in the row is blank.
// Blank source lines are skipped by imports rather than rejected.
func emptyCanonicalRow(row CanonicalRow) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
