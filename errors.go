package sdk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/driftwatch/sdk/store"
)

// Sentinel errors for common SDK error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrContextNotFound indicates no persisted context file exists under
	// the project root. Aliased from the store package so callers only
	// need the root import.
	ErrContextNotFound = store.ErrNotFound

	// ErrContextMalformed indicates the context file exists but could not
	// be decoded.
	ErrContextMalformed = store.ErrMalformed

	// ErrNoContext indicates an operation that needs a project context
	// was called with a nil one.
	ErrNoContext = errors.New("project context is required")

	// ErrInvalidConfig indicates the provided engine configuration is
	// invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrValidationFailed indicates the context failed validation before
	// persistence. The validation details live in the Result returned
	// alongside the error.
	ErrValidationFailed = errors.New("context validation failed")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where a resource was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to context validation.
	KindValidation = "validation"

	// KindScan represents errors that occur during security scanning.
	KindScan = "scan"

	// KindContinuity represents errors from continuity analysis.
	KindContinuity = "continuity"

	// KindPersistence represents errors loading or saving the context.
	KindPersistence = "persistence"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"
)

// SDKError is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category
// of error.
//
// SDKError implements the error interface and supports error
// unwrapping, making it compatible with errors.Is() and errors.As().
type SDKError struct {
	// Op is the operation that failed (e.g., "Engine.ScanProject").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindValidation).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	Context map[string]any
}

// Error implements the error interface, returning a formatted error
// message that includes the operation, kind, and underlying error.
func (e *SDKError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sdk: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("sdk: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("sdk: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and
// errors.As() to work correctly with wrapped errors.
func (e *SDKError) Unwrap() error {
	return e.Err
}

// Is implements error matching for SDKError, allowing comparison based
// on the underlying error or the SDKError itself.
func (e *SDKError) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*SDKError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a new SDKError with the provided context added.
func (e *SDKError) WithContext(ctx map[string]any) *SDKError {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewNotFoundError creates a new SDKError with KindNotFound.
func NewNotFoundError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindNotFound,
		Err:  err,
	}
}

// NewValidationError creates a new SDKError with KindValidation.
func NewValidationError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindValidation,
		Err:  err,
	}
}

// NewScanError creates a new SDKError with KindScan.
func NewScanError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindScan,
		Err:  err,
	}
}

// NewContinuityError creates a new SDKError with KindContinuity.
func NewContinuityError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindContinuity,
		Err:  err,
	}
}

// NewPersistenceError creates a new SDKError with KindPersistence.
func NewPersistenceError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindPersistence,
		Err:  err,
	}
}

// NewConfigurationError creates a new SDKError with KindConfiguration.
func NewConfigurationError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindConfiguration,
		Err:  err,
	}
}

// CloseWithLog attempts to close the provided resource and logs any
// error at warning level. This is intended for use in defer statements
// to ensure cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed. If
// logger is nil, slog.Default() is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
