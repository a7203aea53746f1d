package issue

import "fmt"

// ContinuityType classifies a continuity finding.
type ContinuityType string

const (
	// APIMismatch indicates a frontend call without a declared endpoint,
	// or a declared endpoint with no frontend usage.
	APIMismatch ContinuityType = "api-mismatch"

	// ComponentMissing indicates a component used in markup without a
	// discovered definition.
	ComponentMissing ContinuityType = "component-missing"

	// RouteUndefined indicates a navigation target absent from the
	// declared route set.
	RouteUndefined ContinuityType = "route-undefined"

	// AuthMismatch indicates an authentication-related call referencing
	// an endpoint that is neither declared nor flagged for auth.
	AuthMismatch ContinuityType = "auth-mismatch"
)

// IsValid returns true if the continuity type is one of the defined constants.
func (t ContinuityType) IsValid() bool {
	switch t {
	case APIMismatch, ComponentMissing, RouteUndefined, AuthMismatch:
		return true
	default:
		return false
	}
}

// String returns the string representation of the continuity type.
func (t ContinuityType) String() string {
	return string(t)
}

// ParseContinuityType parses a string into a ContinuityType value.
func ParseContinuityType(s string) (ContinuityType, error) {
	t := ContinuityType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid continuity type: %s", s)
	}
	return t, nil
}

// NotFound is the placeholder used for the missing side of a continuity
// mismatch.
const NotFound = "not found"

// ContinuityIssue represents one detected mismatch between declared and
// discovered frontend/backend facts.
type ContinuityIssue struct {
	// Type classifies the mismatch.
	Type ContinuityType `json:"type" yaml:"type"`

	// Frontend describes the frontend side: a call site location and the
	// call itself, or NotFound when the frontend side is absent.
	Frontend string `json:"frontend" yaml:"frontend"`

	// Backend describes the backend side: a declaration location, or
	// NotFound when the backend side is absent.
	Backend string `json:"backend" yaml:"backend"`

	// Message is a human-readable description of the mismatch.
	Message string `json:"message" yaml:"message"`

	// Suggestion is remediation guidance.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// String formats the issue as "type: message".
func (c ContinuityIssue) String() string {
	return fmt.Sprintf("%s: %s", c.Type, c.Message)
}
