// Package issue defines the finding types produced by the driftwatch engines.
//
// Two kinds of findings exist:
//
//   - Issue: a security scanner finding tied to a file and, usually, a line.
//     Issues are immutable values; engines only aggregate them into lists.
//   - ContinuityIssue: a detected mismatch between what the project context
//     declares and what the source tree actually contains (API calls without
//     declared endpoints, undefined routes, missing components, and so on).
//
// Both kinds share the Severity taxonomy (error, warning, info), which is
// also used by the validate package for validation results.
package issue
