// Package schema defines the employee import column contract.
//
// The contract is the single source of truth shared by the parsers, the
// validator, and the template emitter: every header the importer accepts and
// every field the validator checks is expressed in terms of these keys. The
// key list and its order are fixed for interoperability with previously
// exported templates.
package schema

// FieldType represents the validation rule applied to a contract field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldEmail
	FieldDate
)

// FieldSpec defines one column of the contract.
type FieldSpec struct {
	Key        string    // Canonical column key (lowercase, underscore-separated)
	Type       FieldType // Validation rule for non-empty values
	Required   bool      // Value must be non-empty after trimming
	EnumValues []string  // Accepted values for FieldEnum (lowercase)
}

// Contract is an ordered, immutable set of field specs.
type Contract struct {
	Entity string // Display name for the record type, e.g. "Employees"
	Fields []FieldSpec
}

// Keys returns the contract column keys in order.
func (c Contract) Keys() []string {
	keys := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Find returns the spec for a key, or false if the key is not in the contract.
func (c Contract) Find(key string) (FieldSpec, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Accepted enumerations for the constrained employee fields.
var (
	GenderValues           = []string{"male", "female", "other"}
	ContractTypeValues     = []string{"permanent", "contract", "temporary", "internship"}
	EmploymentStatusValues = []string{"probation", "confirmed", "on_leave", "terminated"}
)

// Employee is the bulk-import contract for employee records. Thirteen columns
// in fixed order: identity, contact, demographic, employment, and location
// fields. gender, contract_type and employment_status are optional but
// constrained to their enumerations when present.
var Employee = Contract{
	Entity: "Employees",
	Fields: []FieldSpec{
		{Key: "staff_id", Type: FieldText},
		{Key: "first_name", Type: FieldText, Required: true},
		{Key: "last_name", Type: FieldText, Required: true},
		{Key: "email", Type: FieldEmail, Required: true},
		{Key: "phone_number", Type: FieldText},
		{Key: "gender", Type: FieldEnum, EnumValues: GenderValues},
		{Key: "contract_type", Type: FieldEnum, EnumValues: ContractTypeValues},
		{Key: "employment_status", Type: FieldEnum, EnumValues: EmploymentStatusValues},
		{Key: "start_date", Type: FieldDate, Required: true},
		{Key: "end_date", Type: FieldDate},
		{Key: "department", Type: FieldText, Required: true},
		{Key: "job_role", Type: FieldText, Required: true},
		{Key: "work_location", Type: FieldText},
	},
}
