package issue

import "fmt"

// Severity represents the severity level of a finding.
type Severity string

const (
	// SeverityError indicates a finding that must be addressed.
	// Examples: hardcoded credentials, eval of user input
	SeverityError Severity = "error"

	// SeverityWarning indicates a finding that should be reviewed.
	// Examples: console logging of sensitive data, missing .gitignore
	SeverityWarning Severity = "warning"

	// SeverityInfo indicates an informational finding without direct impact.
	// Examples: style observations, best practice reminders
	SeverityInfo Severity = "info"
)

// severityWeights maps severity levels to numeric weights for ordering.
// Higher weights indicate more severe findings.
var severityWeights = map[Severity]int{
	SeverityError:   3,
	SeverityWarning: 2,
	SeverityInfo:    1,
}

// IsValid returns true if the severity level is valid.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Weight returns the numeric weight associated with the severity level.
// Returns 0 for invalid severity levels.
func (s Severity) Weight() int {
	if weight, ok := severityWeights[s]; ok {
		return weight
	}
	return 0
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity value.
// Returns an error if the string is not a valid severity level.
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return severity, nil
}

// CompareSeverity compares two severity levels.
// Returns:
//   - negative if s1 < s2
//   - zero if s1 == s2
//   - positive if s1 > s2
func CompareSeverity(s1, s2 Severity) int {
	return s1.Weight() - s2.Weight()
}

// AllSeverities returns all valid severity levels from error to info.
func AllSeverities() []Severity {
	return []Severity{SeverityError, SeverityWarning, SeverityInfo}
}
