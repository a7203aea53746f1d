// Package memory maintains the bounded interaction log of a
// ProjectContext and derives usage insights from it: session patterns,
// a maturity score, and next-step suggestions.
//
// Memory is the only component that mutates the contextMemory sub-tree.
// Mutation is single-writer: concurrent RecordInteraction calls against
// the same ProjectContext instance must be serialized by the caller;
// the package defines no locking primitive of its own.
//
// Suggestion rules are declared as CEL conditions over a small map of
// context-completeness facts and compiled once at construction.
package memory
