package mapping

// OutputCategory groups purchasable output fields for display.
type OutputCategory string

const (
	OutputSystem       OutputCategory = "system"
	OutputPersonal     OutputCategory = "personal"
	OutputDemographics OutputCategory = "demographics"
	OutputContact      OutputCategory = "contact"
	OutputProfessional OutputCategory = "professional"
	OutputCompany      OutputCategory = "company"
	OutputSocial       OutputCategory = "social"
	OutputPremium      OutputCategory = "premium"
	OutputSkiptrace    OutputCategory = "skiptrace"
)

// OutputField is one purchasable enrichment output with its credit cost.
type OutputField struct {
	ID       string
	Name     string
	Note     string
	Category OutputCategory
	Cost     int
}

// OutputFields is the static price table of everything the service can
// return. Zero-cost entries are metadata that ride along with paid fields.
var OutputFields = []OutputField{
	{ID: "uuid", Name: "UUID", Cost: 0, Category: OutputSystem, Note: "System ID"},

	{ID: "first_name", Name: "First Name", Cost: 1, Category: OutputPersonal, Note: "Base field"},
	{ID: "last_name", Name: "Last Name", Cost: 1, Category: OutputPersonal, Note: "Base field"},
	{ID: "personal_address", Name: "Personal Address", Cost: 2, Category: OutputPersonal},
	{ID: "personal_city", Name: "Personal City", Cost: 1, Category: OutputPersonal},
	{ID: "personal_state", Name: "Personal State", Cost: 1, Category: OutputPersonal},
	{ID: "personal_zip", Name: "Personal ZIP", Cost: 1, Category: OutputPersonal},
	{ID: "personal_zip4", Name: "Personal ZIP+4", Cost: 1, Category: OutputPersonal},

	{ID: "age_range", Name: "Age Range", Cost: 2, Category: OutputDemographics},
	{ID: "children", Name: "Children", Cost: 2, Category: OutputDemographics},
	{ID: "gender", Name: "Gender", Cost: 2, Category: OutputDemographics},
	{ID: "homeowner", Name: "Homeowner", Cost: 2, Category: OutputDemographics},
	{ID: "married", Name: "Married", Cost: 2, Category: OutputDemographics},
	{ID: "net_worth", Name: "Net Worth", Cost: 3, Category: OutputDemographics, Note: "Premium"},
	{ID: "income_range", Name: "Income Range", Cost: 3, Category: OutputDemographics, Note: "Premium"},

	{ID: "direct_number", Name: "Direct Number", Cost: 3, Category: OutputContact, Note: "Premium"},
	{ID: "direct_number_dnc", Name: "Direct Number DNC", Cost: 0, Category: OutputContact, Note: "Metadata"},
	{ID: "mobile_phone", Name: "Mobile Phone", Cost: 5, Category: OutputContact, Note: "Premium"},
	{ID: "mobile_phone_dnc", Name: "Mobile Phone DNC", Cost: 0, Category: OutputContact, Note: "Metadata"},
	{ID: "personal_phone", Name: "Personal Phone", Cost: 3, Category: OutputContact, Note: "Premium"},
	{ID: "personal_phone_dnc", Name: "Personal Phone DNC", Cost: 0, Category: OutputContact, Note: "Metadata"},
	{ID: "valid_phones", Name: "Valid Phones", Cost: 0, Category: OutputContact, Note: "Metadata"},
	{ID: "business_email", Name: "Business Email", Cost: 1, Category: OutputContact, Note: "Base field"},
	{ID: "personal_emails", Name: "Personal Emails", Cost: 3, Category: OutputContact},
	{ID: "personal_verified_emails", Name: "Personal Verified Emails", Cost: 4, Category: OutputContact, Note: "Verified"},
	{ID: "business_verified_emails", Name: "Business Verified Emails", Cost: 2, Category: OutputContact, Note: "Verified"},
	{ID: "sha256_personal_email", Name: "SHA256 Personal Email", Cost: 0, Category: OutputContact, Note: "Hash"},
	{ID: "sha256_business_email", Name: "SHA256 Business Email", Cost: 0, Category: OutputContact, Note: "Hash"},

	{ID: "job_title", Name: "Job Title", Cost: 1, Category: OutputProfessional, Note: "Base field"},
	{ID: "headline", Name: "Headline", Cost: 1, Category: OutputProfessional},
	{ID: "department", Name: "Department", Cost: 1, Category: OutputProfessional, Note: "Base field"},
	{ID: "seniority_level", Name: "Seniority Level", Cost: 1, Category: OutputProfessional, Note: "Base field"},
	{ID: "inferred_years_experience", Name: "Years of Experience", Cost: 2, Category: OutputProfessional},
	{ID: "company_name_history", Name: "Company History", Cost: 3, Category: OutputProfessional},
	{ID: "job_title_history", Name: "Job Title History", Cost: 3, Category: OutputProfessional},
	{ID: "education_history", Name: "Education History", Cost: 3, Category: OutputProfessional},

	{ID: "company_name", Name: "Company Name", Cost: 1, Category: OutputCompany, Note: "Base field"},
	{ID: "company_address", Name: "Company Address", Cost: 1, Category: OutputCompany},
	{ID: "company_description", Name: "Company Description", Cost: 2, Category: OutputCompany},
	{ID: "company_domain", Name: "Company Domain", Cost: 1, Category: OutputCompany},
	{ID: "company_employee_count", Name: "Company Employee Count", Cost: 2, Category: OutputCompany},
	{ID: "company_linkedin_url", Name: "Company LinkedIn URL", Cost: 2, Category: OutputCompany},
	{ID: "company_phone", Name: "Company Phone", Cost: 2, Category: OutputCompany},
	{ID: "company_revenue", Name: "Company Revenue", Cost: 3, Category: OutputCompany, Note: "Premium"},
	{ID: "company_sic", Name: "Company SIC Code", Cost: 1, Category: OutputCompany},
	{ID: "company_naics", Name: "Company NAICS Code", Cost: 1, Category: OutputCompany},
	{ID: "company_city", Name: "Company City", Cost: 1, Category: OutputCompany},
	{ID: "company_state", Name: "Company State", Cost: 1, Category: OutputCompany},
	{ID: "company_zip", Name: "Company ZIP", Cost: 1, Category: OutputCompany},
	{ID: "company_industry", Name: "Company Industry", Cost: 2, Category: OutputCompany},

	{ID: "linkedin_url", Name: "LinkedIn URL", Cost: 2, Category: OutputSocial},
	{ID: "twitter_url", Name: "Twitter URL", Cost: 2, Category: OutputSocial},
	{ID: "facebook_url", Name: "Facebook URL", Cost: 2, Category: OutputSocial},
	{ID: "social_connections", Name: "Social Connections", Cost: 2, Category: OutputSocial},

	{ID: "skills", Name: "Skills", Cost: 4, Category: OutputPremium, Note: "Premium"},
	{ID: "interests", Name: "Interests", Cost: 3, Category: OutputPremium},

	{ID: "skiptrace_match_score", Name: "Skiptrace Match Score", Cost: 0, Category: OutputSkiptrace, Note: "Metadata"},
	{ID: "skiptrace_name", Name: "Skiptrace Name", Cost: 3, Category: OutputSkiptrace},
	{ID: "skiptrace_address", Name: "Skiptrace Address", Cost: 3, Category: OutputSkiptrace},
	{ID: "skiptrace_city", Name: "Skiptrace City", Cost: 3, Category: OutputSkiptrace},
	{ID: "skiptrace_state", Name: "Skiptrace State", Cost: 3, Category: OutputSkiptrace},
	{ID: "skiptrace_zip", Name: "Skiptrace ZIP", Cost: 3, Category: OutputSkiptrace},
	{ID: "skiptrace_landline_numbers", Name: "Skiptrace Landline Numbers", Cost: 5, Category: OutputSkiptrace},
	{ID: "skiptrace_wireless_numbers", Name: "Skiptrace Wireless Numbers", Cost: 5, Category: OutputSkiptrace},
	{ID: "skiptrace_credit_rating", Name: "Skiptrace Credit Rating", Cost: 4, Category: OutputSkiptrace},
	{ID: "skiptrace_dnc", Name: "Skiptrace DNC", Cost: 0, Category: OutputSkiptrace, Note: "Metadata"},
	{ID: "skiptrace_exact_age", Name: "Skiptrace Exact Age", Cost: 3, Category: OutputSkiptrace},
	{ID: "skiptrace_ip", Name: "Skiptrace IP", Cost: 3, Category: OutputSkiptrace},
	{ID: "skiptrace_b2b_address", Name: "Skiptrace B2B Address", Cost: 3, Category: OutputSkiptrace},
	{ID: "skiptrace_b2b_phone", Name: "Skiptrace B2B Phone", Cost: 5, Category: OutputSkiptrace},
	{ID: "skiptrace_b2b_website", Name: "Skiptrace B2B Website", Cost: 3, Category: OutputSkiptrace},
}

// FieldPackage is a named preselection of output fields.
type FieldPackage struct {
	ID       string
	Name     string
	FieldIDs []string // nil means every catalog field
}

// FieldPackages in ascending order of scope.
var FieldPackages = []FieldPackage{
	{
		ID:   "basic",
		Name: "Basic",
		FieldIDs: []string{
			"business_email", "first_name", "last_name", "job_title",
			"company_name", "company_domain",
		},
	},
	{
		ID:   "standard",
		Name: "Standard",
		FieldIDs: []string{
			"business_email", "first_name", "last_name", "job_title",
			"company_name", "company_domain", "seniority_level", "department",
			"personal_city", "personal_state", "linkedin_url",
		},
	},
	{
		ID:   "professional",
		Name: "Professional",
		FieldIDs: []string{
			"business_email", "first_name", "last_name", "job_title",
			"company_name", "company_domain", "seniority_level", "department",
			"personal_city", "personal_state", "linkedin_url", "direct_number",
			"company_employee_count", "company_industry", "company_revenue",
			"education_history",
		},
	},
	{
		ID:   "premium",
		Name: "Premium",
		FieldIDs: []string{
			"business_email", "first_name", "last_name", "job_title",
			"company_name", "company_domain", "seniority_level", "department",
			"personal_city", "personal_state", "linkedin_url", "direct_number",
			"company_employee_count", "company_industry", "company_revenue",
			"education_history", "mobile_phone", "skills",
			"company_name_history", "personal_emails",
		},
	},
	{ID: "complete", Name: "Complete", FieldIDs: nil},
}

var outputFieldsByID = func() map[string]OutputField {
	byID := make(map[string]OutputField, len(OutputFields))
	for _, f := range OutputFields {
		byID[f.ID] = f
	}
	return byID
}()

// OutputFieldByID looks up a purchasable field by identifier.
func OutputFieldByID(id string) (OutputField, bool) {
	f, ok := outputFieldsByID[id]
	return f, ok
}

// PackageFields resolves a package identifier to its field IDs.
func PackageFields(id string) ([]string, bool) {
	for _, pkg := range FieldPackages {
		if pkg.ID != id {
			continue
		}
		if pkg.FieldIDs == nil {
			all := make([]string, len(OutputFields))
			for i, f := range OutputFields {
				all[i] = f.ID
			}
			return all, true
		}
		return pkg.FieldIDs, true
	}
	return nil, false
}
