package scanner

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/driftwatch/sdk/issue"
)

// secretAssignRe captures `name = "literal"` shaped assignments,
// including object-literal `name: "literal"` forms.
var secretAssignRe = regexp.MustCompile(`(?i)([A-Za-z_][A-Za-z0-9_]*)\s*[:=]\s*(["'])([^"']+)(["'])`)

// AutoFix attempts to repair the given issues in place, returning the
// subset it actually fixed. Only rules whose strategy is not FixNone
// are acted on; everything else is reported as not fixed by omission.
//
// AutoFix is idempotent: re-running it over an already-fixed file
// reports zero further fixes for that issue, because each strategy
// detects the fixed form before rewriting.
func (s *Scanner) AutoFix(ctx context.Context, root string, issues []issue.Issue) ([]issue.Issue, error) {
	byFile := make(map[string][]issue.Issue)
	for _, is := range issues {
		if FixFor(RuleName(is.Rule)) == FixNone || is.Line <= 0 {
			continue
		}
		byFile[is.File] = append(byFile[is.File], is)
	}

	var fixed []issue.Issue
	envAdds := make(map[string]string)

	for file, fileIssues := range byFile {
		content, err := s.src.ReadText(ctx, root, file)
		if err != nil {
			s.logger.Warn("autofix skipping unreadable file", "file", file, "error", err)
			continue
		}
		lines := strings.Split(content, "\n")
		changed := false

		for _, is := range fileIssues {
			idx := is.Line - 1
			if idx < 0 || idx >= len(lines) {
				continue
			}
			var ok bool
			switch FixFor(RuleName(is.Rule)) {
			case FixRewriteHTTP:
				lines[idx], ok = rewriteHTTP(lines[idx])
			case FixRelocateSecret:
				var key, value string
				lines[idx], key, value, ok = relocateSecret(lines[idx])
				if ok {
					envAdds[key] = value
				}
			}
			if ok {
				changed = true
				fixed = append(fixed, is)
			}
		}

		if changed {
			if err := s.src.WriteText(ctx, root, file, strings.Join(lines, "\n")); err != nil {
				return fixed, fmt.Errorf("scanner: autofix %s: %w", file, err)
			}
		}
	}

	if len(envAdds) > 0 {
		if err := s.appendEnv(ctx, root, envAdds); err != nil {
			return fixed, err
		}
	}
	return fixed, nil
}

// rewriteHTTP rewrites http:// URLs on a line to https://. Returns the
// original line and false when nothing is left to rewrite.
func rewriteHTTP(line string) (string, bool) {
	if !strings.Contains(line, "http://") {
		return line, false
	}
	return strings.ReplaceAll(line, "http://", "https://"), true
}

// relocateSecret replaces the string literal of a credential assignment
// with a process.env read and reports the env key and moved value. A
// line already reading from process.env is left untouched.
func relocateSecret(line string) (rewritten, envKey, value string, ok bool) {
	if strings.Contains(line, "process.env.") {
		return line, "", "", false
	}
	m := secretAssignRe.FindStringSubmatch(line)
	if m == nil {
		return line, "", "", false
	}
	name, quote, literal := m[1], m[2], m[3]
	envKey = envKeyFor(name)
	rewritten = strings.Replace(line, quote+literal+m[4], "process.env."+envKey, 1)
	return rewritten, envKey, literal, true
}

// appendEnv appends relocated secrets to .env, skipping keys already
// declared there so repeated fixes do not duplicate entries.
func (s *Scanner) appendEnv(ctx context.Context, root string, adds map[string]string) error {
	existing := ""
	if ok, err := s.src.Exists(ctx, root, ".env"); err == nil && ok {
		if content, err := s.src.ReadText(ctx, root, ".env"); err == nil {
			existing = content
		}
	}

	var sb strings.Builder
	sb.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		sb.WriteString("\n")
	}
	wrote := false
	for key, value := range adds {
		if envDeclares(existing, key) {
			continue
		}
		sb.WriteString(key + "=" + value + "\n")
		wrote = true
	}
	if !wrote {
		return nil
	}
	if err := s.src.WriteText(ctx, root, ".env", sb.String()); err != nil {
		return fmt.Errorf("scanner: autofix .env: %w", err)
	}
	return nil
}

func envDeclares(content, key string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), key+"=") {
			return true
		}
	}
	return false
}

// envKeyFor converts an identifier to an UPPER_SNAKE env key:
// "apiKey" becomes "API_KEY".
func envKeyFor(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(name[i-1])
			if prev != '_' && (prev < 'A' || prev > 'Z') {
				sb.WriteRune('_')
			}
		}
		sb.WriteRune(r)
	}
	return strings.ToUpper(sb.String())
}
