package memory

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// maxSuggestions caps GenerateSuggestions output.
const maxSuggestions = 5

// suggestionRule pairs a CEL condition over the completeness facts with
// the suggestion emitted when the condition holds. Rules are evaluated
// in declaration order.
type suggestionRule struct {
	name      string
	condition string
	message   string
}

var suggestionRules = []suggestionRule{
	{
		name:      "declare-endpoints",
		condition: `endpoints == 0`,
		message:   "Declare your API endpoints so continuity checks can reconcile frontend calls.",
	},
	{
		name:      "configure-auth",
		condition: `!authConfigured`,
		message:   "Configure an authentication scheme; the context currently declares none.",
	},
	{
		name:      "enforce-https",
		condition: `!httpsEnforced`,
		message:   "Enable enforceHttps in the security rules.",
	},
	{
		name:      "add-components",
		condition: `components == 0`,
		message:   "Add your frontend components to the context to enable component continuity checks.",
	},
	{
		name:      "model-database",
		condition: `models == 0`,
		message:   "Declare your database models so sensitive fields get validated.",
	},
}

// actionSuggestions maps the most frequent interaction action to one
// usage-derived suggestion.
var actionSuggestions = map[string]string{
	"security-scan":    "You scan often; add automated security scanning to CI.",
	"security-fix":     "You fix findings often; add automated security scanning to CI to catch them earlier.",
	"continuity-check": "You check continuity often; run it as a pre-commit hook.",
	"context-update":   "You update the context often; schedule updateContextFromCode after merges.",
}

// suggestionEngine holds the compiled CEL programs for the rule set.
// It is built once per Memory and immutable afterwards.
type suggestionEngine struct {
	programs []cel.Program
}

func newSuggestionEngine() (*suggestionEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("endpoints", cel.IntType),
		cel.Variable("authConfigured", cel.BoolType),
		cel.Variable("httpsEnforced", cel.BoolType),
		cel.Variable("models", cel.IntType),
		cel.Variable("components", cel.IntType),
		cel.Variable("platform", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("memory: build suggestion env: %w", err)
	}

	engine := &suggestionEngine{programs: make([]cel.Program, 0, len(suggestionRules))}
	for _, rule := range suggestionRules {
		ast, issues := env.Compile(rule.condition)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("memory: compile suggestion rule %s: %w", rule.name, issues.Err())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("memory: program suggestion rule %s: %w", rule.name, err)
		}
		engine.programs = append(engine.programs, prg)
	}
	return engine, nil
}

// facts builds the completeness-fact map the rule conditions see.
func (m *Memory) facts() map[string]any {
	return map[string]any{
		"endpoints":      len(m.pc.API.Endpoints),
		"authConfigured": m.pc.Authentication.Enabled(),
		"httpsEnforced":  m.pc.Security.Rules.EnforceHTTPS,
		"models":         len(m.pc.Database.Models),
		"components":     len(m.pc.Frontend.Components),
		"platform":       m.pc.Deployment.Platform,
	}
}

// GenerateSuggestions evaluates the rule list against the context and
// appends at most one usage-derived suggestion, capped at five entries
// in evaluation order.
func (m *Memory) GenerateSuggestions() []string {
	facts := m.facts()
	suggestions := make([]string, 0, maxSuggestions)

	for i, rule := range suggestionRules {
		if len(suggestions) == maxSuggestions {
			return suggestions
		}
		out, _, err := m.engine.programs[i].Eval(facts)
		if err != nil {
			m.logger.Warn("suggestion rule failed", "rule", rule.name, "error", err)
			continue
		}
		if hit, ok := out.Value().(bool); ok && hit {
			suggestions = append(suggestions, rule.message)
		}
	}

	if len(suggestions) < maxSuggestions {
		patterns := m.AnalyzeInteractionPatterns()
		if msg, ok := actionSuggestions[patterns.MostCommonAction]; ok {
			suggestions = append(suggestions, msg)
		}
	}
	return suggestions
}
