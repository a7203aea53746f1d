package issue

import (
	"fmt"
	"sort"
	"time"
)

// Issue represents a single security scanner finding tied to a file.
// An Issue is immutable once produced; engines aggregate issues into
// lists but never mutate them.
type Issue struct {
	// File is the path of the file the issue was found in, relative to
	// the scanned project root.
	File string `json:"file" yaml:"file"`

	// Line is the 1-based line number of the match. Zero means the issue
	// applies to the file or project as a whole.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`

	// Rule is the name of the rule that produced the issue.
	Rule string `json:"rule" yaml:"rule"`

	// Severity indicates how serious the issue is.
	Severity Severity `json:"severity" yaml:"severity"`

	// Message is a human-readable description of the issue.
	Message string `json:"message" yaml:"message"`

	// Suggestion is remediation guidance for the issue.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// New creates an Issue for a specific line of a file.
func New(file string, line int, rule string, severity Severity, message, suggestion string) Issue {
	return Issue{
		File:       file,
		Line:       line,
		Rule:       rule,
		Severity:   severity,
		Message:    message,
		Suggestion: suggestion,
	}
}

// String formats the issue as "file:line rule [severity]: message".
func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s:%d %s [%s]: %s", i.File, i.Line, i.Rule, i.Severity, i.Message)
	}
	return fmt.Sprintf("%s %s [%s]: %s", i.File, i.Rule, i.Severity, i.Message)
}

// Key returns a stable identity for deduplication and idempotence checks.
// Two scans of an unchanged tree produce issues with identical keys.
func (i Issue) Key() string {
	return fmt.Sprintf("%s:%d:%s", i.File, i.Line, i.Rule)
}

// Report aggregates the findings of one scan run.
type Report struct {
	// ScannedAt is the timestamp the scan completed.
	ScannedAt time.Time `json:"scanned_at" yaml:"scannedAt"`

	// Root is the project root that was scanned.
	Root string `json:"root" yaml:"root"`

	// Issues holds all findings. Aggregate order is unspecified and must
	// not be relied upon.
	Issues []Issue `json:"issues" yaml:"issues"`

	// Summary counts issues per severity.
	Summary map[Severity]int `json:"summary" yaml:"summary"`
}

// NewReport builds a Report over the given issues, computing the
// per-severity summary.
func NewReport(root string, issues []Issue) *Report {
	summary := make(map[Severity]int, len(AllSeverities()))
	for _, is := range issues {
		summary[is.Severity]++
	}
	return &Report{
		ScannedAt: time.Now(),
		Root:      root,
		Issues:    issues,
		Summary:   summary,
	}
}

// Count returns the number of issues with the given severity.
func (r *Report) Count(severity Severity) int {
	return r.Summary[severity]
}

// HasErrors returns true if the report contains at least one error-level issue.
func (r *Report) HasErrors() bool {
	return r.Summary[SeverityError] > 0
}

// Sorted returns the issues ordered by descending severity, then file,
// then line. The receiver is not modified.
func (r *Report) Sorted() []Issue {
	out := make([]Issue, len(r.Issues))
	copy(out, r.Issues)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Severity != out[b].Severity {
			return out[a].Severity.Weight() > out[b].Severity.Weight()
		}
		if out[a].File != out[b].File {
			return out[a].File < out[b].File
		}
		return out[a].Line < out[b].Line
	})
	return out
}
