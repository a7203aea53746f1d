package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/driftwatch/sdk/issue"
	"github.com/driftwatch/sdk/project"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newScanner(t *testing.T, opts ...Option) *Scanner {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func issuesByRule(issues []issue.Issue, rule RuleName) []issue.Issue {
	var out []issue.Issue
	for _, is := range issues {
		if is.Rule == string(rule) {
			out = append(out, is)
		}
	}
	return out
}

func TestScanFileHardcodedAPIKey(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "config.js", "const port = 3000;\nconst apiKey = \"sk_live_abcdef1234567890\";\n")

	issues, err := newScanner(t).ScanFile(context.Background(), root, "config.js")
	if err != nil {
		t.Fatal(err)
	}

	found := issuesByRule(issues, RuleHardcodedAPIKey)
	if len(found) != 1 {
		t.Fatalf("expected exactly one hardcoded-api-key issue, got %d (%v)", len(found), issues)
	}
	if found[0].Line != 2 {
		t.Errorf("Line = %d, want 2", found[0].Line)
	}
	if found[0].Severity != issue.SeverityError {
		t.Errorf("Severity = %s, want error", found[0].Severity)
	}
	if found[0].Suggestion == "" {
		t.Error("issue should carry a suggestion")
	}
}

func TestDeclaredPatternPerLine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", "FORBIDDEN call\nclean line\nforbidden again\n")

	s := newScanner(t, WithPatterns([]project.SecurityPattern{{
		Name:     "no-forbidden",
		Pattern:  `forbidden`,
		Severity: issue.SeverityWarning,
		Message:  "forbidden call",
	}}))

	issues, err := s.ScanFile(context.Background(), root, "app.js")
	if err != nil {
		t.Fatal(err)
	}

	// Matching is case-insensitive; every matching line yields exactly
	// one issue with its 1-based line number.
	found := issuesByRule(issues, "no-forbidden")
	if len(found) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(found))
	}
	if found[0].Line != 1 || found[1].Line != 3 {
		t.Errorf("lines = %d, %d; want 1, 3", found[0].Line, found[1].Line)
	}
	for _, is := range found {
		if is.Severity != issue.SeverityWarning || is.Message != "forbidden call" {
			t.Errorf("issue carries wrong severity or message: %+v", is)
		}
	}
}

func TestInvalidPatternSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", "var debug = true;\n")

	s := newScanner(t, WithPatterns([]project.SecurityPattern{
		{Name: "broken", Pattern: `([`, Severity: issue.SeverityError, Message: "broken"},
		{Name: "debug-flag", Pattern: `debug`, Severity: issue.SeverityInfo, Message: "debug flag"},
	}))

	issues, err := s.ScanFile(context.Background(), root, "app.js")
	if err != nil {
		t.Fatal(err)
	}
	if len(issuesByRule(issues, "broken")) != 0 {
		t.Error("broken pattern should have been skipped")
	}
	if len(issuesByRule(issues, "debug-flag")) != 1 {
		t.Error("valid pattern should still apply after a broken one is skipped")
	}
}

func TestScanProjectMissingGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.js", "const x = 1;\n")

	issues, err := newScanner(t).ScanProject(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	found := issuesByRule(issues, RuleMissingGitignore)
	if len(found) != 1 {
		t.Fatalf("expected exactly one missing-gitignore issue, got %d", len(found))
	}
	if found[0].Severity != issue.SeverityWarning {
		t.Errorf("Severity = %s, want warning", found[0].Severity)
	}
}

func TestScanProjectGitignoreWithoutEnv(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "node_modules/\ndist/\n")
	writeFile(t, root, "index.js", "const x = 1;\n")

	issues, err := newScanner(t).ScanProject(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	if len(issuesByRule(issues, RuleGitignoreMissesEnv)) != 1 {
		t.Error("expected a gitignore-missing-env issue")
	}
	if len(issuesByRule(issues, RuleMissingGitignore)) != 0 {
		t.Error("missing-gitignore should not fire when the file exists")
	}
}

func TestScanProjectGitignoreCoversEnv(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "# deps\nnode_modules/\n.env\n")
	writeFile(t, root, "index.js", "const x = 1;\n")

	issues, err := newScanner(t).ScanProject(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(issuesByRule(issues, RuleGitignoreMissesEnv)) != 0 {
		t.Error("gitignore-missing-env should not fire when .env is excluded")
	}
}

func TestEnvCredentialCheck(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".env", "PORT=3000\nAPI_KEY=sk_live_abcdef1234567890\nDB_TOKEN=your-token-here\n")

	issues, err := newScanner(t).ScanFile(context.Background(), root, ".env")
	if err != nil {
		t.Fatal(err)
	}

	found := issuesByRule(issues, RuleEnvCredential)
	if len(found) != 1 {
		t.Fatalf("expected one env-credential issue, got %d (%v)", len(found), found)
	}
	if found[0].Line != 2 {
		t.Errorf("Line = %d, want 2", found[0].Line)
	}
}

func TestDependencyAdvisories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{
  "dependencies": {"express": "^4.18.0", "event-stream": "3.3.6"},
  "devDependencies": {"flatmap-stream": "0.1.1"}
}`)

	issues, err := newScanner(t).ScanFile(context.Background(), root, "package.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(issuesByRule(issues, RuleVulnerableDep)) != 2 {
		t.Errorf("expected 2 vulnerable-dependency issues, got %d", len(issuesByRule(issues, RuleVulnerableDep)))
	}
}

func TestDependencyCheckMalformedManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", "{not valid json")

	issues, err := newScanner(t).ScanFile(context.Background(), root, "package.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(issuesByRule(issues, RuleVulnerableDep)) != 0 {
		t.Error("malformed package.json should skip the dependency check, not error")
	}
}

func TestBuiltinAntiPatterns(t *testing.T) {
	tests := []struct {
		name string
		line string
		rule RuleName
	}{
		{"eval usage", "eval(userInput);", RuleEvalUsage},
		{"document write", "document.write(html);", RuleDocumentWrite},
		{"sensitive console log", "console.log('password', password);", RuleConsoleSensitive},
		{"auth bypass", "if (user.isAdmin || bypassAuth) { next(); }", RuleAuthBypass},
		{"hardcoded admin", `login("admin", password = "hunter22");`, RuleHardcodedAdmin},
		{"data exposure", "res.json({ user, password: user.password });", RuleDataExposure},
		{"select star on users", `db.query("SELECT * FROM users");`, RuleSelectStarUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, "app.js", tt.line+"\n")

			issues, err := newScanner(t).ScanFile(context.Background(), root, "app.js")
			if err != nil {
				t.Fatal(err)
			}
			found := issuesByRule(issues, tt.rule)
			if len(found) != 1 {
				t.Fatalf("expected one %s issue, got %d (%v)", tt.rule, len(found), issues)
			}
			if found[0].Line != 1 {
				t.Errorf("Line = %d, want 1", found[0].Line)
			}
		})
	}
}

// One line can legitimately trigger several independent checks.
func TestMultipleIssuesOnOneLine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", "eval(console.log(password));\n")

	issues, err := newScanner(t).ScanFile(context.Background(), root, "app.js")
	if err != nil {
		t.Fatal(err)
	}
	if len(issuesByRule(issues, RuleEvalUsage)) != 1 || len(issuesByRule(issues, RuleConsoleSensitive)) != 1 {
		t.Errorf("expected both eval-usage and console-sensitive-log, got %v", issues)
	}
}

func TestScanProjectIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", ".env\n")
	writeFile(t, root, "config.js", "const apiKey = \"sk_live_abcdef1234567890\";\nconst url = \"http://api.example.com\";\n")
	writeFile(t, root, "server.js", "eval(input);\n")

	s := newScanner(t)
	ctx := context.Background()

	first, err := s.ScanProject(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.ScanProject(ctx, root)
	if err != nil {
		t.Fatal(err)
	}

	keys := func(issues []issue.Issue) []string {
		out := make([]string, len(issues))
		for i, is := range issues {
			out[i] = is.Key()
		}
		sort.Strings(out)
		return out
	}

	a, b := keys(first), keys(second)
	if len(a) == 0 {
		t.Fatal("expected the scan to find issues")
	}
	if len(a) != len(b) {
		t.Fatalf("issue counts differ between runs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("issue sets differ: %q vs %q", a[i], b[i])
		}
	}
}
