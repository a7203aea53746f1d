// Package scanner implements the pattern-based security scanner.
//
// A Scanner evaluates the declared SecurityPattern rule set plus a set
// of built-in heuristics against every source-like file under a project
// root. Declared patterns are compiled once, case-insensitively, and
// tested line by line; a match anywhere on a line produces one Issue
// carrying that line's 1-based index. Built-in checks (environment-file
// credentials, dependency advisories, code anti-patterns, auth bypass,
// data exposure) run unconditionally and independently, so a single
// line may trigger several issues from different checks.
//
// Scanning is best-effort and lexical: no AST is built and verdicts
// are approximate. An unreadable file is logged and skipped; it never
// aborts the scan.
//
// AutoFix repairs a small, explicit whitelist of rules and is
// idempotent: re-running it on an already-fixed file reports zero
// further fixes.
package scanner
