package project

import (
	"fmt"
	"strings"
)

// HTTPMethod represents an HTTP request method on a declared endpoint.
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodDelete  HTTPMethod = "DELETE"
	MethodPatch   HTTPMethod = "PATCH"
	MethodOptions HTTPMethod = "OPTIONS"
	MethodHead    HTTPMethod = "HEAD"
)

// IsValid returns true if the method is one of the supported HTTP methods.
func (m HTTPMethod) IsValid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodOptions, MethodHead:
		return true
	default:
		return false
	}
}

// String returns the string representation of the method.
func (m HTTPMethod) String() string {
	return string(m)
}

// ParseMethod parses a string into an HTTPMethod, accepting any casing.
// Returns an error if the string is not a supported method.
func ParseMethod(s string) (HTTPMethod, error) {
	m := HTTPMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("invalid HTTP method: %s", s)
	}
	return m, nil
}

// AllMethods returns all supported HTTP methods.
func AllMethods() []HTTPMethod {
	return []HTTPMethod{
		MethodGet,
		MethodPost,
		MethodPut,
		MethodDelete,
		MethodPatch,
		MethodOptions,
		MethodHead,
	}
}

// NormalizePath canonicalizes an endpoint path for exact-match
// reconciliation: query strings and fragments are stripped, a leading
// slash is ensured, and trailing slashes are removed (except for the
// root path itself).
//
// Parameterized templates are deliberately not resolved: "/users/:id"
// and "/users/123" stay distinct strings.
func NormalizePath(path string) string {
	p := strings.TrimSpace(path)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// EndpointKey builds the (method, path) identity used for endpoint
// reconciliation and caller-side deduplication.
func EndpointKey(method HTTPMethod, path string) string {
	return string(method) + " " + NormalizePath(path)
}
