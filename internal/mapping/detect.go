package mapping

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/calebhart/enrichflow/internal/model"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader folds case, strips accents, and collapses runs of
// whitespace and punctuation into single underscores, so that "e-mail",
// " E Mail " and "EMAIL" all normalize identically.
func normalizeHeader(name string) string {
	folded, _, err := transform.String(stripAccents, strings.ToUpper(name))
	if err != nil {
		folded = strings.ToUpper(name)
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	return b.String()
}

// synonym maps one normalized header spelling to its canonical field.
type synonym struct {
	pattern string
	field   model.InputField
}

// Human spellings seen in real exports. Canonical spellings themselves are
// matched before this table is consulted.
var synonyms = []synonym{
	{"E_MAIL", model.FieldEmail},
	{"EMAIL_ADDRESS", model.FieldEmail},
	{"EMAIL", model.FieldEmail},
	{"WORK_EMAIL", model.FieldBusinessEmail},
	{"COMPANY_EMAIL", model.FieldBusinessEmail},
	{"PRIVATE_EMAIL", model.FieldPersonalEmail},
	{"HOME_EMAIL", model.FieldPersonalEmail},
	{"FIRSTNAME", model.FieldFirstName},
	{"FIRST", model.FieldFirstName},
	{"GIVEN_NAME", model.FieldFirstName},
	{"LASTNAME", model.FieldLastName},
	{"LAST", model.FieldLastName},
	{"SURNAME", model.FieldLastName},
	{"FAMILY_NAME", model.FieldLastName},
	{"PHONE_NUMBER", model.FieldPhone},
	{"TELEPHONE", model.FieldPhone},
	{"MOBILE_PHONE", model.FieldPhone},
	{"MOBILE", model.FieldPhone},
	{"CELL_PHONE", model.FieldPhone},
	{"CELL", model.FieldPhone},
	{"STREET_ADDRESS", model.FieldPersonalAddress},
	{"ADDRESS", model.FieldPersonalAddress},
	{"STREET", model.FieldPersonalAddress},
	{"CITY", model.FieldPersonalCity},
	{"TOWN", model.FieldPersonalCity},
	{"STATE", model.FieldPersonalState},
	{"PROVINCE", model.FieldPersonalState},
	{"ZIP_CODE", model.FieldPersonalZip},
	{"ZIPCODE", model.FieldPersonalZip},
	{"ZIP", model.FieldPersonalZip},
	{"POSTAL_CODE", model.FieldPersonalZip},
	{"POSTCODE", model.FieldPersonalZip},
	{"COMPANY", model.FieldCompanyName},
	{"ORGANIZATION", model.FieldCompanyName},
	{"ORGANISATION", model.FieldCompanyName},
	{"EMPLOYER", model.FieldCompanyName},
	{"COMPANY_WEBSITE", model.FieldCompanyDomain},
	{"DOMAIN", model.FieldCompanyDomain},
	{"WEBSITE", model.FieldCompanyDomain},
	{"INDUSTRY", model.FieldCompanyIndustry},
	{"LINKEDIN_PROFILE", model.FieldLinkedInURL},
	{"LINKEDIN", model.FieldLinkedInURL},
	{"UPID", model.FieldUPID},
}

var (
	exactSynonyms    map[string]model.InputField
	containsSynonyms []synonym
)

func init() {
	exactSynonyms = make(map[string]model.InputField, len(synonyms))
	for _, s := range synonyms {
		exactSynonyms[s.pattern] = s.field
	}
	// Canonical spellings participate in the contains fallback too, so a
	// header like "customer company_domain" still resolves.
	for _, f := range model.InputFields {
		containsSynonyms = append(containsSynonyms, synonym{string(f), f})
	}
	containsSynonyms = append(containsSynonyms, synonyms...)
	// Longest pattern first so the most specific token wins the
	// contains fallback deterministically.
	sort.SliceStable(containsSynonyms, func(i, j int) bool {
		return len(containsSynonyms[i].pattern) > len(containsSynonyms[j].pattern)
	})
}

// AutoDetect maps a CSV header to a matchable input field, or "" when the
// service has no slot for it, which is the common case. Detection tries the
// canonical spelling first, then an exact synonym, then a contains match.
// The function is pure and never fails.
func AutoDetect(columnName string) model.InputField {
	n := normalizeHeader(columnName)
	if n == "" {
		return ""
	}

	if f := model.InputField(n); f.Valid() {
		return f
	}
	if f, ok := exactSynonyms[n]; ok {
		return f
	}
	for _, s := range containsSynonyms {
		if strings.Contains(n, s.pattern) {
			return s.field
		}
	}
	return ""
}
