// Package store persists the project context file.
//
// A context lives at the project root as .project-context.yaml or
// .project-context.json; YAML is preferred when both exist. Load returns
// ErrNotFound as a typed failure when no context file exists, matching
// the "missing context" error class: it is surfaced to the caller, never
// retried, and never swallowed.
package store
