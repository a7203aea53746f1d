// Package project defines the ProjectContext schema: the persisted,
// machine-readable description of a project's architecture, security
// posture, API surface, data models, frontend layout, and interaction
// history.
//
// ProjectContext is pure data. It is owned exclusively by the caller;
// the scanner, continuity, and memory engines receive a reference and
// read or mutate specific sub-trees but never persist it themselves
// (persistence lives in the store package).
//
// Partial updates go through ContextPatch and MergePatches, an explicit
// field-by-field merge with defined precedence: caller-supplied values
// win over auto-detected ones, which win over defaults.
package project
