package scanner

import (
	"github.com/driftwatch/sdk/issue"
	"github.com/driftwatch/sdk/project"
)

// RuleName identifies a scanner rule, declared or built-in.
type RuleName string

// Rules produced by the default pattern set and the built-in checks.
const (
	RuleHardcodedAPIKey    RuleName = "hardcoded-api-key"
	RuleHardcodedSecret    RuleName = "hardcoded-secret"
	RuleHardcodedPassword  RuleName = "hardcoded-password"
	RuleInsecureHTTP       RuleName = "insecure-http"
	RuleSQLStringConcat    RuleName = "sql-string-concat"
	RuleWeakCrypto         RuleName = "weak-crypto"
	RuleDebuggerStatement  RuleName = "debugger-statement"
	RuleEnvCredential      RuleName = "env-credential"
	RuleVulnerableDep      RuleName = "vulnerable-dependency"
	RuleEvalUsage          RuleName = "eval-usage"
	RuleDocumentWrite      RuleName = "document-write"
	RuleConsoleSensitive   RuleName = "console-sensitive-log"
	RuleAuthBypass         RuleName = "auth-bypass"
	RuleHardcodedAdmin     RuleName = "hardcoded-admin-credentials"
	RuleDataExposure       RuleName = "data-exposure"
	RuleSelectStarUser     RuleName = "select-star-user"
	RuleMissingGitignore   RuleName = "missing-gitignore"
	RuleGitignoreMissesEnv RuleName = "gitignore-missing-env"
)

// FixStrategy enumerates the automatic repairs AutoFix knows how to
// perform. Any rule mapped to FixNone is reported as not fixed; the
// whitelist of fixable rules is exactly the set of rules carrying a
// strategy other than FixNone.
type FixStrategy int

const (
	// FixNone marks a rule with no automatic repair.
	FixNone FixStrategy = iota

	// FixRelocateSecret moves a hardcoded string literal into .env and
	// rewrites the assignment to read from the environment.
	FixRelocateSecret

	// FixRewriteHTTP rewrites http:// URLs on the flagged line to https://.
	FixRewriteHTTP
)

// RuleInfo carries the per-rule suggestion template and fix strategy.
type RuleInfo struct {
	Suggestion string
	Fix        FixStrategy
}

// genericSuggestion is the fallback for rules without a table entry.
const genericSuggestion = "Review this finding and apply the appropriate remediation."

// ruleTable maps rule names to their remediation guidance and automatic
// fix strategy.
var ruleTable = map[RuleName]RuleInfo{
	RuleHardcodedAPIKey:    {Suggestion: "Move the API key into an environment variable and load it at runtime.", Fix: FixRelocateSecret},
	RuleHardcodedSecret:    {Suggestion: "Move the secret into an environment variable and load it at runtime.", Fix: FixRelocateSecret},
	RuleHardcodedPassword:  {Suggestion: "Never commit passwords; use a secrets manager or environment variables.", Fix: FixRelocateSecret},
	RuleInsecureHTTP:       {Suggestion: "Use https:// for all external URLs.", Fix: FixRewriteHTTP},
	RuleSQLStringConcat:    {Suggestion: "Use parameterized queries instead of string concatenation."},
	RuleWeakCrypto:         {Suggestion: "Replace MD5/SHA-1 with a modern hash such as SHA-256 or bcrypt for passwords."},
	RuleDebuggerStatement:  {Suggestion: "Remove debugger statements before committing."},
	RuleEnvCredential:      {Suggestion: "Verify this credential is not a live secret; rotate it if it ever reached version control."},
	RuleVulnerableDep:      {Suggestion: "Upgrade or remove the flagged dependency; check its security advisories."},
	RuleEvalUsage:          {Suggestion: "Avoid eval; parse input explicitly or use safer alternatives."},
	RuleDocumentWrite:      {Suggestion: "Avoid document.write; use DOM APIs that do not enable injection."},
	RuleConsoleSensitive:   {Suggestion: "Remove sensitive values from log statements."},
	RuleAuthBypass:         {Suggestion: "Remove conditional authentication bypasses; enforce checks unconditionally."},
	RuleHardcodedAdmin:     {Suggestion: "Remove hardcoded admin credentials; authenticate against a user store."},
	RuleDataExposure:       {Suggestion: "Strip credential fields from API responses before serialization."},
	RuleSelectStarUser:     {Suggestion: "Select only the columns you need; never return password columns."},
	RuleMissingGitignore:   {Suggestion: "Add a .gitignore excluding build output, dependencies, and .env files."},
	RuleGitignoreMissesEnv: {Suggestion: "Add .env to .gitignore so local credentials stay out of version control."},
}

// SuggestionFor returns the remediation guidance for a rule, falling
// back to generic review text for unknown rules.
func SuggestionFor(rule RuleName) string {
	if info, ok := ruleTable[rule]; ok && info.Suggestion != "" {
		return info.Suggestion
	}
	return genericSuggestion
}

// FixFor returns the automatic fix strategy for a rule. FixNone means
// the rule is not on the AutoFix whitelist.
func FixFor(rule RuleName) FixStrategy {
	return ruleTable[rule].Fix
}

// DefaultPatterns returns the built-in SecurityPattern set applied when
// a project declares no patterns of its own. Patterns are compiled
// case-insensitively by the scanner.
func DefaultPatterns() []project.SecurityPattern {
	return []project.SecurityPattern{
		{
			Name:     string(RuleHardcodedAPIKey),
			Pattern:  `api[_-]?key\w*\s*[:=]\s*["'][^"']{8,}["']`,
			Severity: issue.SeverityError,
			Message:  "Hardcoded API key detected",
		},
		{
			Name:     string(RuleHardcodedSecret),
			Pattern:  `(secret|token)\w*\s*[:=]\s*["'][^"']{8,}["']`,
			Severity: issue.SeverityError,
			Message:  "Hardcoded secret detected",
		},
		{
			Name:     string(RuleHardcodedPassword),
			Pattern:  `password\s*[:=]\s*["'][^"']+["']`,
			Severity: issue.SeverityError,
			Message:  "Hardcoded password detected",
		},
		{
			Name:     string(RuleInsecureHTTP),
			Pattern:  `["'` + "`" + `]http://[^"'` + "`" + `\s]+`,
			Severity: issue.SeverityWarning,
			Message:  "Insecure http:// URL",
		},
		{
			Name:     string(RuleSQLStringConcat),
			Pattern:  `(select|insert|update|delete)[^;]*["']\s*\+`,
			Severity: issue.SeverityError,
			Message:  "SQL query built by string concatenation",
		},
		{
			Name:     string(RuleWeakCrypto),
			Pattern:  `\b(md5|sha1)\s*\(`,
			Severity: issue.SeverityWarning,
			Message:  "Weak cryptographic hash",
		},
		{
			Name:     string(RuleDebuggerStatement),
			Pattern:  `^\s*debugger\s*;?\s*$`,
			Severity: issue.SeverityInfo,
			Message:  "Debugger statement left in source",
		},
	}
}
