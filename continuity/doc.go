// Package continuity detects drift between what a project context
// declares and what the source tree actually contains.
//
// Discovery is purely lexical: frontend API calls, backend route
// registrations, component definitions and usages, declared routes, and
// navigation targets are recognized by text patterns, not by parsing.
// The SourceFactExtractor interface isolates discovery from
// reconciliation, so a stricter parser-based extractor can be swapped
// in per language without touching the analysis.
//
// Reconciliation is bidirectional and exact-match on (method, path)
// after normalization. Parameterized path templates are not resolved:
// "/users/:id" and "/users/123" are distinct strings. This is a
// deliberate simplification for speed and language-agnosticism.
package continuity
