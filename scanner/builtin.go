package scanner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/driftwatch/sdk/issue"
)

// credentialKeyTerms mark environment keys that are expected to hold
// secrets.
var credentialKeyTerms = []string{"key", "secret", "token"}

// placeholderTerms mark values that are clearly not live credentials.
var placeholderTerms = []string{
	"your",
	"changeme",
	"change_me",
	"example",
	"placeholder",
	"xxx",
	"<",
	"todo",
}

// flaggedPackages is the static dependency advisory list checked inside
// package.json.
var flaggedPackages = map[string]string{
	"event-stream":           "compromised release injected credential-stealing code",
	"flatmap-stream":         "malicious package used in the event-stream attack",
	"eslint-scope":           "compromised release exfiltrated npm tokens",
	"getcookies":             "contained a hidden backdoor",
	"ua-parser-js":           "compromised releases shipped cryptominers",
	"coa":                    "compromised release shipped malware",
	"rc":                     "compromised release shipped malware",
	"node-ipc":               "shipped destructive protest code",
	"left-pad":               "historically unpublished; pin or inline",
	"bootstrap-sass":         "compromised release contained a backdoor",
	"electron-native-notify": "used in a targeted supply-chain attack",
}

// minCredentialLength filters short, obviously non-secret env values.
const minCredentialLength = 10

// envCredentialIssues flags suspicious KEY=value assignments in .env
// style files: keys containing key/secret/token whose values are long
// enough to be real and not an obvious placeholder.
func (s *Scanner) envCredentialIssues(rel, content string, lines []string) []issue.Issue {
	vars, err := godotenv.Unmarshal(content)
	if err != nil {
		s.logger.Warn("skipping malformed env file", "file", rel, "error", err)
		return nil
	}

	var issues []issue.Issue
	for key, value := range vars {
		if !credentialKey(key) {
			continue
		}
		if len(value) <= minCredentialLength || placeholderValue(value) {
			continue
		}
		issues = append(issues, newIssue(rel, lineOfKey(lines, key), RuleEnvCredential, issue.SeverityWarning,
			fmt.Sprintf("Environment file assigns a credential-like value to %s", key)))
	}
	return issues
}

func credentialKey(key string) bool {
	lower := strings.ToLower(key)
	for _, term := range credentialKeyTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func placeholderValue(value string) bool {
	lower := strings.ToLower(value)
	for _, term := range placeholderTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// lineOfKey locates the 1-based line declaring an env key. Returns 0
// when the declaration cannot be located (e.g. export prefixes).
func lineOfKey(lines []string, key string) int {
	for i, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "export "))
		if strings.HasPrefix(trimmed, key+"=") {
			return i + 1
		}
	}
	return 0
}

// packageManifest is the subset of package.json the advisory check needs.
type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// dependencyIssues checks package.json dependencies against the static
// advisory list. Malformed JSON degrades gracefully: the check is
// skipped with a log line, per the error handling contract.
func (s *Scanner) dependencyIssues(rel, content string) []issue.Issue {
	var manifest packageManifest
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		s.logger.Warn("skipping dependency check, package.json malformed", "file", rel, "error", err)
		return nil
	}

	var issues []issue.Issue
	check := func(deps map[string]string) {
		for name := range deps {
			if reason, ok := flaggedPackages[name]; ok {
				issues = append(issues, newIssue(rel, 0, RuleVulnerableDep, issue.SeverityError,
					fmt.Sprintf("Dependency %q is on the advisory list: %s", name, reason)))
			}
		}
	}
	check(manifest.Dependencies)
	check(manifest.DevDependencies)
	return issues
}

var sensitiveLogKeywords = []string{"password", "secret", "token", "apikey", "api_key", "credential"}

// codeAntiPatternIssues flags dangerous constructs on a single line:
// eval, document.write, and console.log of sensitive values.
func codeAntiPatternIssues(rel string, line int, text string) []issue.Issue {
	var issues []issue.Issue
	lower := strings.ToLower(text)

	if strings.Contains(lower, "eval(") {
		issues = append(issues, newIssue(rel, line, RuleEvalUsage, issue.SeverityError,
			"eval() executes arbitrary code"))
	}
	if strings.Contains(lower, "document.write(") {
		issues = append(issues, newIssue(rel, line, RuleDocumentWrite, issue.SeverityWarning,
			"document.write enables markup injection"))
	}
	if strings.Contains(lower, "console.log") {
		for _, keyword := range sensitiveLogKeywords {
			if strings.Contains(lower, keyword) {
				issues = append(issues, newIssue(rel, line, RuleConsoleSensitive, issue.SeverityWarning,
					"console.log statement references a sensitive value"))
				break
			}
		}
	}
	return issues
}

var adminPasswordRe = regexp.MustCompile(`(?i)password\s*[:=]+\s*["'][^"']+["']`)

// authBypassIssues flags conditional authentication bypasses and
// hardcoded admin credentials.
func authBypassIssues(rel string, line int, text string) []issue.Issue {
	var issues []issue.Issue
	lower := strings.ToLower(text)

	if strings.Contains(lower, "if (") && strings.Contains(lower, "||") &&
		(strings.Contains(lower, "admin") || strings.Contains(lower, "bypass")) {
		issues = append(issues, newIssue(rel, line, RuleAuthBypass, issue.SeverityError,
			"Conditional looks like an authentication bypass"))
	}
	if strings.Contains(lower, "admin") && adminPasswordRe.MatchString(text) {
		issues = append(issues, newIssue(rel, line, RuleHardcodedAdmin, issue.SeverityError,
			"Hardcoded admin credential pair"))
	}
	return issues
}

// dataExposureIssues flags API responses and queries that leak
// credential columns.
func dataExposureIssues(rel string, line int, text string) []issue.Issue {
	var issues []issue.Issue
	lower := strings.ToLower(text)

	if strings.Contains(lower, "res.json") && strings.Contains(lower, "user") &&
		(strings.Contains(lower, "password") || strings.Contains(lower, "secret")) {
		issues = append(issues, newIssue(rel, line, RuleDataExposure, issue.SeverityError,
			"Response serializes a user object together with credential fields"))
	}
	if strings.Contains(lower, "select *") && strings.Contains(lower, "user") {
		issues = append(issues, newIssue(rel, line, RuleSelectStarUser, issue.SeverityWarning,
			"SELECT * on a user table returns credential columns"))
	}
	return issues
}
