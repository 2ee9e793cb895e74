package core

import (
	"strings"
	"testing"

	"github.com/staffdeck/importer/internal/schema"
)

// completeRow returns a canonical row that passes every rule.
func completeRow() CanonicalRow {
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

// ============================================================================
// ValidateRow Tests
// ============================================================================

func TestValidateRow_CompleteRowValid(t *testing.T) {
	v := ValidateRow(completeRow(), schema.Employee)
	if !v.Valid {
		t.Fatalf("complete row invalid: %s", v.Err)
	}
	if v.Err != "" {
		t.Errorf("valid verdict carries error %q", v.Err)
	}
}

func TestValidateRow_MandatoryFields(t *testing.T) {
	for _, field := range []string{"first_name", "last_name", "email", "start_date", "department", "job_role"} {
		t.Run(field, func(t *testing.T) {
			row := completeRow()
			row[field] = "   "
			v := ValidateRow(row, schema.Employee)
			if v.Valid {
				t.Fatalf("row missing %s reported valid", field)
			}
			if !strings.Contains(v.Err, field+" is required") {
				t.Errorf("error = %q, want it to contain %q", v.Err, field+" is required")
			}
		})
	}
}

func TestValidateRow_OptionalFieldsMayBeEmpty(t *testing.T) {
	row := completeRow()
	for _, field := range []string{"staff_id", "phone_number", "gender", "contract_type", "employment_status", "end_date", "work_location"} {
		row[field] = ""
	}
	if v := ValidateRow(row, schema.Employee); !v.Valid {
		t.Errorf("row with empty optional fields invalid: %s", v.Err)
	}
}

func TestValidateRow_EnumMatching(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		valid   bool
		wantErr string
	}{
		{
			name:  "mixed case with whitespace accepted",
			field: "gender", value: "  MALE ", valid: true,
		},
		{
			name:  "canonical lowercase accepted",
			field: "contract_type", value: "internship", valid: true,
		},
		{
			name:  "uppercase status accepted",
			field: "employment_status", value: "Probation", valid: true,
		},
		{
			name:  "unknown gender rejected with full enumeration",
			field: "gender", value: "dude", valid: false,
			wantErr: "gender must be one of: male, female, other",
		},
		{
			name:  "unknown contract type rejected",
			field: "contract_type", value: "gig", valid: false,
			wantErr: "contract_type must be one of: permanent, contract, temporary, internship",
		},
		{
			name:  "unknown status rejected",
			field: "employment_status", value: "retired", valid: false,
			wantErr: "employment_status must be one of: probation, confirmed, on_leave, terminated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := completeRow()
			row[tt.field] = tt.value
			v := ValidateRow(row, schema.Employee)
			if v.Valid != tt.valid {
				t.Fatalf("valid = %v, want %v (err: %s)", v.Valid, tt.valid, v.Err)
			}
			if !tt.valid && v.Err != tt.wantErr {
				t.Errorf("error = %q, want %q", v.Err, tt.wantErr)
			}
		})
	}
}

func TestValidateRow_EmailShape(t *testing.T) {
	valid := []string{
		"jane.doe@example.com",
		"a@b.co",
		"first+tag@sub.domain.org",
	}
	invalid := []string{
		"not-an-email",
		"two@@example.com",
		"@example.com",
		"jane@nodot",
		"jane doe@example.com",
		"jane@exam ple.com",
	}

	for _, email := range valid {
		row := completeRow()
		row["email"] = email
		if v := ValidateRow(row, schema.Employee); !v.Valid {
			t.Errorf("email %q rejected: %s", email, v.Err)
		}
	}

	for _, email := range invalid {
		row := completeRow()
		row["email"] = email
		v := ValidateRow(row, schema.Employee)
		if v.Valid {
			t.Errorf("email %q accepted", email)
			continue
		}
		if v.Err != "email must be a valid email address" {
			t.Errorf("email %q: error = %q, want exactly one email violation", email, v.Err)
		}
	}
}

func TestValidateRow_Dates(t *testing.T) {
	tests := []struct {
		field string
		value string
		valid bool
	}{
		{"start_date", "2024-01-15", true},
		{"end_date", "2025-12-31", true},
		{"start_date", "2024-13-40", false},
		{"start_date", "15/01/2024", false},
		{"start_date", "January 15 2024", false},
		{"end_date", "yesterday", false},
	}

	for _, tt := range tests {
		row := completeRow()
		row[tt.field] = tt.value
		v := ValidateRow(row, schema.Employee)
		if v.Valid != tt.valid {
			t.Errorf("%s=%q: valid = %v, want %v (err: %s)", tt.field, tt.value, v.Valid, tt.valid, v.Err)
		}
		if !tt.valid && !strings.Contains(v.Err, tt.field+" must be a valid date") {
			t.Errorf("%s=%q: error = %q", tt.field, tt.value, v.Err)
		}
	}
}

// TestValidateRow_AccumulatesAllViolations checks that validation never
// short-circuits: a row violating several rules reports every one of them,
// joined by "; " in rule order.
func TestValidateRow_AccumulatesAllViolations(t *testing.T) {
	row := completeRow()
	row["first_name"] = ""
	row["gender"] = "dude"
	row["email"] = "not-an-email"
	row["start_date"] = "01/02/2024"

	v := ValidateRow(row, schema.Employee)
	if v.Valid {
		t.Fatal("multi-violation row reported valid")
	}

	want := "first_name is required; " +
		"gender must be one of: male, female, other; " +
		"email must be a valid email address; " +
		"start_date must be a valid date"
	if v.Err != want {
		t.Errorf("error = %q\nwant    %q", v.Err, want)
	}
}

// ============================================================================
// CanonicalizeAndValidate Tests
// ============================================================================

func TestCanonicalizeAndValidate_ConcreteScenario(t *testing.T) {
	input := "staff_id,first_name,last_name,email,phone_number,gender,contract_type," +
		"employment_status,start_date,end_date,department,job_role,work_location\r\n" +
		"EMP001,Jane,Doe,jane.doe@example.com,+2348012345678,female,permanent," +
		"confirmed,2024-01-15,,Engineering,Software Engineer,Lagos HQ"

	results := CanonicalizeAndValidate(ParseDelimited([]byte(input)), schema.Employee)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	rr := results[0]
	if !rr.Verdict.Valid {
		t.Fatalf("row invalid: %s", rr.Verdict.Err)
	}
	if rr.Line != 2 {
		t.Errorf("line = %d, want 2", rr.Line)
	}

	want := completeRow()
	for key, wantVal := range want {
		if rr.Row[key] != wantVal {
			t.Errorf("%s = %q, want %q", key, rr.Row[key], wantVal)
		}
	}
}

func TestCanonicalizeAndValidate_EmptyInput(t *testing.T) {
	if got := CanonicalizeAndValidate(nil, schema.Employee); got != nil {
		t.Errorf("nil records should yield nil, got %v", got)
	}
	if got := CanonicalizeAndValidate([]RawRow{{"staff_id"}}, schema.Employee); got != nil {
		t.Errorf("header-only records should yield nil, got %v", got)
	}
}

func TestCanonicalizeAndValidate_LineNumbers(t *testing.T) {
	input := "first_name,last_name,email,start_date,department,job_role\n" +
		"Jane,Doe,jane@example.com,2024-01-15,Eng,Dev\n" +
		"John,,bad-email,2024-02-01,Eng,Dev\n"

	results := CanonicalizeAndValidate(ParseDelimited([]byte(input)), schema.Employee)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if !results[0].Verdict.Valid {
		t.Errorf("line 2 should be valid: %s", results[0].Verdict.Err)
	}
	if results[1].Line != 3 {
		t.Errorf("second result line = %d, want 3", results[1].Line)
	}
	wantErr := "last_name is required; email must be a valid email address"
	if results[1].Verdict.Err != wantErr {
		t.Errorf("line 3 error = %q, want %q", results[1].Verdict.Err, wantErr)
	}
}
