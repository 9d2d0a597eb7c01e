package model

import (
	"fmt"
	"strings"
)

// InputField identifies one of the remote service's matchable input columns.
// The catalog is closed: only these fields can participate in matching.
type InputField string

// The complete set of matchable input fields.
const (
	FieldEmail               InputField = "EMAIL"
	FieldPersonalEmail       InputField = "PERSONAL_EMAIL"
	FieldBusinessEmail       InputField = "BUSINESS_EMAIL"
	FieldFirstName           InputField = "FIRST_NAME"
	FieldLastName            InputField = "LAST_NAME"
	FieldPhone               InputField = "PHONE"
	FieldPersonalAddress     InputField = "PERSONAL_ADDRESS"
	FieldPersonalCity        InputField = "PERSONAL_CITY"
	FieldPersonalState       InputField = "PERSONAL_STATE"
	FieldPersonalZip         InputField = "PERSONAL_ZIP"
	FieldCompanyName         InputField = "COMPANY_NAME"
	FieldCompanyDomain       InputField = "COMPANY_DOMAIN"
	FieldCompanyIndustry     InputField = "COMPANY_INDUSTRY"
	FieldSHA256PersonalEmail InputField = "SHA256_PERSONAL_EMAIL"
	FieldLinkedInURL         InputField = "LINKEDIN_URL"
	FieldUPID                InputField = "UP_ID"
)

// InputFields lists every matchable field in catalog order.
var InputFields = []InputField{
	FieldEmail,
	FieldPersonalEmail,
	FieldBusinessEmail,
	FieldFirstName,
	FieldLastName,
	FieldPhone,
	FieldPersonalAddress,
	FieldPersonalCity,
	FieldPersonalState,
	FieldPersonalZip,
	FieldCompanyName,
	FieldCompanyDomain,
	FieldCompanyIndustry,
	FieldSHA256PersonalEmail,
	FieldLinkedInURL,
	FieldUPID,
}

// Valid reports whether f is one of the catalog fields.
func (f InputField) Valid() bool {
	for _, known := range InputFields {
		if f == known {
			return true
		}
	}
	return false
}

// ParseInputField resolves a user-supplied field name, accepting any casing.
func ParseInputField(s string) (InputField, error) {
	f := InputField(strings.ToUpper(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown input field %q", s)
	}
	return f, nil
}

// ColumnMapping ties one CSV column to at most one input field. A mapping with
// an empty TargetField never participates in matching, whatever Enabled says.
type ColumnMapping struct {
	CSVColumn    string
	TargetField  InputField
	SampleValues []string
	Enabled      bool
}

// Active reports whether the mapping participates in matching.
func (m ColumnMapping) Active() bool {
	return m.Enabled && m.TargetField != ""
}

// MatchOperator selects how the remote service combines multiple enabled
// fields when matching a contact.
type MatchOperator string

const (
	// MatchAny matches a contact when any one enabled field agrees.
	MatchAny MatchOperator = "ANY"
	// MatchAll matches a contact only when every enabled field agrees.
	MatchAll MatchOperator = "ALL"
)

// Wire returns the operator's on-the-wire spelling.
func (op MatchOperator) Wire() string {
	if op == MatchAll {
		return "AND"
	}
	return "OR"
}

// ParseMatchOperator resolves a user-supplied operator, accepting both the
// local and wire spellings in any casing.
func ParseMatchOperator(s string) (MatchOperator, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ANY", "OR":
		return MatchAny, nil
	case "ALL", "AND":
		return MatchAll, nil
	default:
		return "", fmt.Errorf("unknown match operator %q (want any or all)", s)
	}
}
