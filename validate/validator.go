package validate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/driftwatch/sdk/issue"
	"github.com/driftwatch/sdk/project"
)

// Problem is one validation finding, tied to a dotted field path.
type Problem struct {
	Field    string         `json:"field"`
	Message  string         `json:"message"`
	Severity issue.Severity `json:"severity"`
}

func (p Problem) String() string {
	return fmt.Sprintf("[%s] %s: %s", p.Severity, p.Field, p.Message)
}

func schemaProblem(field, message string) Problem {
	return Problem{Field: field, Message: message, Severity: issue.SeverityError}
}

// Result is the outcome of validating a context. Valid is true exactly
// when Errors is empty; warnings alone do not invalidate a context.
type Result struct {
	Valid    bool      `json:"valid"`
	Errors   []Problem `json:"errors,omitempty"`
	Warnings []Problem `json:"warnings,omitempty"`
}

// Validator checks a ProjectContext against the context schema and the
// business rules. Construct it once per session; the compiled schema is
// immutable and the Validator is safe for concurrent use.
type Validator struct {
	schema Schema
	logger *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// New creates a Validator with the context schema compiled in.
func New(opts ...Option) *Validator {
	v := &Validator{
		schema: contextSchema(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// contextSchema describes the persisted context document. Only the
// required spine is enforced structurally; optional sections are
// checked by the business rules instead.
func contextSchema() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Schema{
			"project": Object(map[string]Schema{
				"name": NonEmptyString(),
				"type": NonEmptyString(),
			}, "name", "type"),
			"security": Object(map[string]Schema{
				"rules": Object(nil),
			}, "rules"),
		},
		Required: []string{"project", "security"},
	}
}

// Validate checks the context and returns all findings. It is pure: the
// context is never mutated and no error path exists; a nil context
// yields a single schema error.
func (v *Validator) Validate(pc *project.ProjectContext) Result {
	if pc == nil {
		return Result{Errors: []Problem{schemaProblem("", "project context is nil")}}
	}

	errors := v.schema.Check(pc, "")
	warnings := make([]Problem, 0, 4)

	// Endpoints flagged as authenticated need a configured auth scheme.
	if !pc.Authentication.Enabled() {
		for _, e := range pc.API.Endpoints {
			if e.Authentication {
				warnings = append(warnings, Problem{
					Field:    "authentication.type",
					Message:  fmt.Sprintf("endpoint %s requires authentication but authentication type is %q", e.Key(), authType(pc)),
					Severity: issue.SeverityWarning,
				})
			}
		}
	}

	// Sensitive model fields require input sanitization.
	if sensitive := pc.Database.SensitiveFields(); len(sensitive) > 0 && !pc.Security.Rules.InputSanitization {
		errors = append(errors, Problem{
			Field:    "security.rules.inputSanitization",
			Message:  fmt.Sprintf("sensitive fields (%s) require security.rules.inputSanitization to be enabled", strings.Join(sensitive, ", ")),
			Severity: issue.SeverityError,
		})
	}

	// Production deployments must enforce HTTPS.
	if pc.Deployment.Environment == project.EnvProduction && !pc.Security.Rules.EnforceHTTPS {
		errors = append(errors, Problem{
			Field:    "security.rules.enforceHttps",
			Message:  "production deployments must enforce HTTPS",
			Severity: issue.SeverityError,
		})
	}

	result := Result{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
	if !result.Valid {
		v.logger.Debug("context validation failed", "errors", len(errors), "warnings", len(warnings))
	}
	return result
}

func authType(pc *project.ProjectContext) string {
	if pc.Authentication.Type == "" {
		return project.AuthNone
	}
	return pc.Authentication.Type
}
