package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestAutoFixRewritesHTTP(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "api.js", "const base = \"http://api.example.com\";\nconst name = \"shop\";\n")

	s := newScanner(t)
	ctx := context.Background()

	issues, err := s.ScanFile(ctx, root, "api.js")
	if err != nil {
		t.Fatal(err)
	}

	fixed, err := s.AutoFix(ctx, root, issues)
	if err != nil {
		t.Fatal(err)
	}
	if len(fixed) != 1 || fixed[0].Rule != string(RuleInsecureHTTP) {
		t.Fatalf("expected one insecure-http fix, got %v", fixed)
	}

	content := readFile(t, root, "api.js")
	if !strings.Contains(content, "https://api.example.com") {
		t.Errorf("URL not rewritten: %q", content)
	}
	if strings.Contains(content, "\"http://") {
		t.Errorf("insecure URL still present: %q", content)
	}
}

func TestAutoFixRelocatesSecret(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "config.js", "const apiKey = \"sk_live_abcdef1234567890\";\n")

	s := newScanner(t)
	ctx := context.Background()

	issues, err := s.ScanFile(ctx, root, "config.js")
	if err != nil {
		t.Fatal(err)
	}

	fixed, err := s.AutoFix(ctx, root, issues)
	if err != nil {
		t.Fatal(err)
	}
	if len(fixed) != 1 {
		t.Fatalf("expected one fix, got %v", fixed)
	}

	content := readFile(t, root, "config.js")
	if !strings.Contains(content, "process.env.API_KEY") {
		t.Errorf("assignment not rewritten: %q", content)
	}
	if strings.Contains(content, "sk_live_abcdef1234567890") {
		t.Errorf("secret still in source: %q", content)
	}

	env := readFile(t, root, ".env")
	if !strings.Contains(env, "API_KEY=sk_live_abcdef1234567890") {
		t.Errorf("secret not moved to .env: %q", env)
	}
}

// Running AutoFix again over an already-fixed tree fixes nothing
// further and leaves .env untouched.
func TestAutoFixIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "config.js", "const apiKey = \"sk_live_abcdef1234567890\";\nconst base = \"http://api.example.com\";\n")

	s := newScanner(t)
	ctx := context.Background()

	issues, err := s.ScanFile(ctx, root, "config.js")
	if err != nil {
		t.Fatal(err)
	}

	first, err := s.AutoFix(ctx, root, issues)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 fixes on the first run, got %d", len(first))
	}
	envAfterFirst := readFile(t, root, ".env")

	second, err := s.AutoFix(ctx, root, issues)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 0 {
		t.Errorf("second run should fix nothing, fixed %v", second)
	}
	if env := readFile(t, root, ".env"); env != envAfterFirst {
		t.Errorf(".env changed on the second run:\nfirst: %q\nsecond: %q", envAfterFirst, env)
	}
}

func TestAutoFixIgnoresUnfixableRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", "eval(input);\n")

	s := newScanner(t)
	ctx := context.Background()

	issues, err := s.ScanFile(ctx, root, "app.js")
	if err != nil {
		t.Fatal(err)
	}

	fixed, err := s.AutoFix(ctx, root, issues)
	if err != nil {
		t.Fatal(err)
	}
	if len(fixed) != 0 {
		t.Errorf("eval-usage is not fixable, got %v", fixed)
	}
	if content := readFile(t, root, "app.js"); content != "eval(input);\n" {
		t.Errorf("file should be untouched, got %q", content)
	}
}
