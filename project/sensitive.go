package project

import "strings"

// sensitiveTerms are the field-name fragments treated as sensitive by
// the validation rules and the scanner heuristics.
var sensitiveTerms = []string{
	"password",
	"email",
	"phone",
	"ssn",
	"credit_card",
}

// IsSensitiveField reports whether a database field name matches the
// sensitive-term heuristic. Matching is case-insensitive and substring
// based ("userPassword" and "credit_card_number" both match).
func IsSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, term := range sensitiveTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// SensitiveFields returns the names of all sensitive-named fields across
// the declared database models, in declaration order.
func (d DatabaseConfig) SensitiveFields() []string {
	var out []string
	for _, model := range d.Models {
		for _, field := range model.Fields {
			if IsSensitiveField(field.Name) {
				out = append(out, model.Name+"."+field.Name)
			}
		}
	}
	return out
}
