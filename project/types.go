package project

import (
	"time"

	"github.com/driftwatch/sdk/issue"
)

// ProjectContext is the root of the persisted project description.
// One instance exists per project. Required top-level sections are
// Project and Security; everything else is optional.
type ProjectContext struct {
	// Project holds basic identity information.
	Project ProjectInfo `json:"project" yaml:"project"`

	// Security holds the rule toggles and scan patterns.
	Security SecurityConfig `json:"security" yaml:"security"`

	// Authentication describes how the project authenticates users.
	Authentication AuthConfig `json:"authentication,omitempty" yaml:"authentication,omitempty"`

	// API declares the backend surface as an ordered endpoint list.
	API APIConfig `json:"api,omitempty" yaml:"api,omitempty"`

	// Database declares the persisted data models.
	Database DatabaseConfig `json:"database,omitempty" yaml:"database,omitempty"`

	// Frontend declares components and pages.
	Frontend FrontendConfig `json:"frontend,omitempty" yaml:"frontend,omitempty"`

	// Deployment describes where and how the project is deployed.
	Deployment DeploymentConfig `json:"deployment,omitempty" yaml:"deployment,omitempty"`

	// ContextMemory holds the bounded interaction log. It is mutated only
	// through the memory package.
	ContextMemory MemorySection `json:"contextMemory,omitempty" yaml:"contextMemory,omitempty"`
}

// ProjectInfo identifies the project.
type ProjectInfo struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
}

// SecurityConfig combines the boolean rule toggles with the scan
// pattern list evaluated by the scanner.
type SecurityConfig struct {
	Rules    SecurityRules     `json:"rules" yaml:"rules"`
	Patterns []SecurityPattern `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// SecurityRules is the set of named boolean security toggles.
//
// Invariant: if any database model field name matches the sensitive-term
// heuristic (see IsSensitiveField), InputSanitization must be true. The
// validate package enforces this as an error, not a warning.
type SecurityRules struct {
	EnforceHTTPS           bool `json:"enforceHttps" yaml:"enforceHttps"`
	InputSanitization      bool `json:"inputSanitization" yaml:"inputSanitization"`
	SQLInjectionPrevention bool `json:"sqlInjectionPrevention" yaml:"sqlInjectionPrevention"`
	XSSProtection          bool `json:"xssProtection" yaml:"xssProtection"`
	CSRFProtection         bool `json:"csrfProtection" yaml:"csrfProtection"`
	CORSConfiguration      bool `json:"corsConfiguration" yaml:"corsConfiguration"`
	RateLimiting           bool `json:"rateLimiting" yaml:"rateLimiting"`
	DataValidation         bool `json:"dataValidation" yaml:"dataValidation"`
}

// SecurityPattern is a named regex rule evaluated line by line against
// source files. Patterns are compiled case-insensitively by the scanner.
// Names are expected to be unique within a rule set; duplicates are not
// rejected but produce duplicate issues.
type SecurityPattern struct {
	Name     string         `json:"name" yaml:"name"`
	Pattern  string         `json:"pattern" yaml:"pattern"`
	Severity issue.Severity `json:"severity" yaml:"severity"`
	Message  string         `json:"message" yaml:"message"`
}

// AuthConfig describes the authentication setup. Type "none" (or empty)
// means the project has no authentication; continuity auth checks are
// skipped in that case.
type AuthConfig struct {
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Provider    string `json:"provider,omitempty" yaml:"provider,omitempty"`
	TokenExpiry string `json:"tokenExpiry,omitempty" yaml:"tokenExpiry,omitempty"`
}

// AuthNone is the AuthConfig type value for projects without authentication.
const AuthNone = "none"

// Enabled returns true when an authentication scheme other than "none"
// is configured.
func (a AuthConfig) Enabled() bool {
	return a.Type != "" && a.Type != AuthNone
}

// APIConfig declares the backend API surface.
type APIConfig struct {
	BaseURL   string     `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	Endpoints []Endpoint `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}

// Endpoint is one declared API operation. Its identity is (path, method);
// the declared list may legitimately contain duplicates after
// auto-discovery merges, and deduplication is the caller's concern.
type Endpoint struct {
	Path           string      `json:"path" yaml:"path"`
	Method         HTTPMethod  `json:"method" yaml:"method"`
	Description    string      `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters     []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Authentication bool        `json:"authentication,omitempty" yaml:"authentication,omitempty"`
}

// Key returns the (method, path) identity of the endpoint.
func (e Endpoint) Key() string {
	return EndpointKey(e.Method, e.Path)
}

// Parameter describes one endpoint parameter.
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DatabaseConfig declares the persisted data models.
type DatabaseConfig struct {
	Type   string  `json:"type,omitempty" yaml:"type,omitempty"`
	Models []Model `json:"models,omitempty" yaml:"models,omitempty"`
}

// Model is one declared data model.
type Model struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field is one field of a data model.
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// FrontendConfig declares the frontend layout.
type FrontendConfig struct {
	Framework  string      `json:"framework,omitempty" yaml:"framework,omitempty"`
	Components []Component `json:"components,omitempty" yaml:"components,omitempty"`
	Pages      []Page      `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Component is one declared frontend component.
type Component struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Page is one declared frontend page with its route.
type Page struct {
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Route string `json:"route,omitempty" yaml:"route,omitempty"`
}

// DeploymentConfig describes the deployment target.
type DeploymentConfig struct {
	Platform    string `json:"platform,omitempty" yaml:"platform,omitempty"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
}

// EnvProduction is the deployment environment name that triggers the
// production HTTPS validation rule.
const EnvProduction = "production"

// MemorySection is the contextMemory sub-tree: a bounded, newest-first
// interaction log plus bookkeeping. Mutation goes through the memory
// package and must be serialized by the caller; the schema itself
// defines no locking.
type MemorySection struct {
	// AIInteractions is the interaction log, most recent first.
	AIInteractions []Interaction `json:"aiInteractions,omitempty" yaml:"aiInteractions,omitempty"`

	// MaxInteractions caps the log length. Zero means the default (100).
	MaxInteractions int `json:"maxInteractions,omitempty" yaml:"maxInteractions,omitempty"`

	// LastUpdated is refreshed on every mutating call.
	LastUpdated time.Time `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
}

// DefaultMaxInteractions is the interaction log cap applied when
// MemorySection.MaxInteractions is zero.
const DefaultMaxInteractions = 100

// Cap returns the effective interaction log cap.
func (m *MemorySection) Cap() int {
	if m.MaxInteractions > 0 {
		return m.MaxInteractions
	}
	return DefaultMaxInteractions
}

// Interaction is one recorded interaction with the tool.
type Interaction struct {
	// ID uniquely identifies the interaction.
	ID string `json:"id" yaml:"id"`

	// Timestamp is when the interaction was recorded.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Action names what was done (e.g. "security-scan", "context-update").
	Action string `json:"action" yaml:"action"`

	// Context describes what the action was applied to.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	// Result summarizes the outcome.
	Result string `json:"result,omitempty" yaml:"result,omitempty"`

	// Metadata carries optional structured detail.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
