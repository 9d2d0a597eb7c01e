// Package mapping implements column auto-detection and the field catalogs for
// the enrichment service: the closed set of matchable input fields and the
// purchasable output fields with their credit costs.
package mapping

import (
	"strings"

	"github.com/calebhart/enrichflow/internal/model"
)

// Category groups input fields for selection display. Grouping is purely
// cosmetic and has no effect on matching.
type Category string

const (
	CategoryEmail   Category = "Email"
	CategoryName    Category = "Name"
	CategoryPhone   Category = "Phone"
	CategoryAddress Category = "Address"
	CategoryCompany Category = "Company"
	CategorySocial  Category = "Social"
	CategoryID      Category = "ID"
	CategoryOther   Category = "Other"
)

var displayNames = map[model.InputField]string{
	model.FieldEmail:               "Email",
	model.FieldPersonalEmail:       "Personal Email",
	model.FieldBusinessEmail:       "Business Email",
	model.FieldSHA256PersonalEmail: "SHA256 Personal Email",
	model.FieldFirstName:           "First Name",
	model.FieldLastName:            "Last Name",
	model.FieldPhone:               "Phone",
	model.FieldPersonalAddress:     "Personal Address",
	model.FieldPersonalCity:        "Personal City",
	model.FieldPersonalState:       "Personal State",
	model.FieldPersonalZip:         "Personal ZIP",
	model.FieldCompanyName:         "Company Name",
	model.FieldCompanyDomain:       "Company Domain",
	model.FieldCompanyIndustry:     "Company Industry",
	model.FieldLinkedInURL:         "LinkedIn URL",
	model.FieldUPID:                "UP ID",
}

// DisplayName returns the human-readable name for an input field.
func DisplayName(f model.InputField) string {
	if name, ok := displayNames[f]; ok {
		return name
	}
	return string(f)
}

// FieldCategory derives the display category of an input field.
func FieldCategory(f model.InputField) Category {
	switch {
	case strings.Contains(string(f), "EMAIL"):
		return CategoryEmail
	case f == model.FieldFirstName || f == model.FieldLastName:
		return CategoryName
	case f == model.FieldPhone:
		return CategoryPhone
	case strings.HasPrefix(string(f), "PERSONAL_"):
		return CategoryAddress
	case strings.HasPrefix(string(f), "COMPANY_"):
		return CategoryCompany
	case f == model.FieldLinkedInURL:
		return CategorySocial
	case f == model.FieldUPID:
		return CategoryID
	default:
		return CategoryOther
	}
}
