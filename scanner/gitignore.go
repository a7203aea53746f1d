package scanner

import (
	"context"
	"strings"

	"github.com/driftwatch/sdk/issue"
)

// projectChecks runs the whole-project checks that are not tied to an
// enumerated source file: .gitignore presence and .env exclusion.
func (s *Scanner) projectChecks(ctx context.Context, root string) []issue.Issue {
	exists, err := s.src.Exists(ctx, root, ".gitignore")
	if err != nil {
		s.logger.Warn("gitignore check failed", "root", root, "error", err)
		return nil
	}
	if !exists {
		return []issue.Issue{newIssue(".gitignore", 0, RuleMissingGitignore, issue.SeverityWarning,
			"Project has no .gitignore")}
	}

	content, err := s.src.ReadText(ctx, root, ".gitignore")
	if err != nil {
		s.logger.Warn("gitignore unreadable", "root", root, "error", err)
		return nil
	}
	if !gitignoreExcludesEnv(content) {
		return []issue.Issue{newIssue(".gitignore", 0, RuleGitignoreMissesEnv, issue.SeverityError,
			".gitignore does not exclude .env files")}
	}
	return nil
}

// gitignoreExcludesEnv reports whether any non-comment entry covers
// .env files.
func gitignoreExcludesEnv(content string) bool {
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry := strings.TrimPrefix(strings.TrimSuffix(line, "/"), "/")
		if entry == ".env" || entry == ".env*" || entry == "*.env" || strings.HasPrefix(entry, ".env.") {
			return true
		}
	}
	return false
}
