package memory

import (
	"fmt"
	"strings"
	"time"
)

// MaturityLevel buckets the maturity score.
type MaturityLevel string

const (
	MaturityInitial    MaturityLevel = "initial"
	MaturityEarly      MaturityLevel = "early"
	MaturityDeveloping MaturityLevel = "developing"
	MaturityMature     MaturityLevel = "mature"
)

// Maturity score cutoffs: scores below 25 are initial, below 50 early,
// below 80 developing, and 80 or above mature.
const (
	cutoffEarly      = 25
	cutoffDeveloping = 50
	cutoffMature     = 80
)

// UsagePatterns summarizes how the tool has been used against this
// context.
type UsagePatterns struct {
	// TotalInteractions is the current log length.
	TotalInteractions int `json:"total_interactions"`

	// ActionCounts maps each action to its occurrence count.
	ActionCounts map[string]int `json:"action_counts"`

	// MostCommonAction is the action with the highest count; empty when
	// the log is empty.
	MostCommonAction string `json:"most_common_action,omitempty"`

	// SessionCount is the number of sessions: runs of consecutive
	// interactions (in stored order) separated by gaps of at most 30
	// minutes.
	SessionCount int `json:"session_count"`

	// AverageSessionLength is the mean session size in interactions.
	AverageSessionLength float64 `json:"average_session_length"`
}

// LearningInsights combines maturity, usage patterns, and suggestions.
type LearningInsights struct {
	MaturityScore   int           `json:"maturity_score"`
	MaturityLevel   MaturityLevel `json:"maturity_level"`
	Patterns        UsagePatterns `json:"patterns"`
	Suggestions     []string      `json:"suggestions"`
	LastInteraction time.Time     `json:"last_interaction,omitempty"`
	SensitiveFields []string      `json:"sensitive_fields,omitempty"`
}

// AnalyzeInteractionPatterns derives usage patterns from the current log.
func (m *Memory) AnalyzeInteractionPatterns() UsagePatterns {
	interactions := m.pc.ContextMemory.AIInteractions
	patterns := UsagePatterns{
		TotalInteractions: len(interactions),
		ActionCounts:      make(map[string]int, 8),
	}
	if len(interactions) == 0 {
		return patterns
	}

	best := 0
	for _, it := range interactions {
		patterns.ActionCounts[it.Action]++
		if patterns.ActionCounts[it.Action] > best {
			best = patterns.ActionCounts[it.Action]
			patterns.MostCommonAction = it.Action
		}
	}

	// Sessions: the log is newest-first, so consecutive entries within
	// the gap belong together.
	sessions := 1
	for i := 1; i < len(interactions); i++ {
		gap := interactions[i-1].Timestamp.Sub(interactions[i].Timestamp)
		if gap > sessionGap {
			sessions++
		}
	}
	patterns.SessionCount = sessions
	patterns.AverageSessionLength = float64(len(interactions)) / float64(sessions)
	return patterns
}

// MaturityScore computes the weighted completeness score over six
// facets. The score is monotonic: completing any facet never lowers it.
func (m *Memory) MaturityScore() int {
	score := 0
	if len(m.pc.API.Endpoints) > 0 {
		score += 20
	}
	if m.pc.Authentication.Enabled() {
		score += 20
	}
	if m.pc.Security.Rules.EnforceHTTPS {
		score += 15
	}
	if len(m.pc.Database.Models) > 0 {
		score += 15
	}
	if len(m.pc.Frontend.Components) > 0 {
		score += 15
	}
	if m.pc.Deployment.Platform != "" {
		score += 15
	}
	return score
}

// MaturityLevel maps the maturity score to its bucket.
func (m *Memory) MaturityLevel() MaturityLevel {
	return levelFor(m.MaturityScore())
}

func levelFor(score int) MaturityLevel {
	switch {
	case score >= cutoffMature:
		return MaturityMature
	case score >= cutoffDeveloping:
		return MaturityDeveloping
	case score >= cutoffEarly:
		return MaturityEarly
	default:
		return MaturityInitial
	}
}

// GetLearningInsights assembles the full insight view.
func (m *Memory) GetLearningInsights() LearningInsights {
	insights := LearningInsights{
		MaturityScore:   m.MaturityScore(),
		MaturityLevel:   m.MaturityLevel(),
		Patterns:        m.AnalyzeInteractionPatterns(),
		Suggestions:     m.GenerateSuggestions(),
		SensitiveFields: m.pc.Database.SensitiveFields(),
	}
	if log := m.pc.ContextMemory.AIInteractions; len(log) > 0 {
		insights.LastInteraction = log[0].Timestamp
	}
	return insights
}

// GetContextSummary renders a short human-readable summary of the
// context and its usage.
func (m *Memory) GetContextSummary() string {
	pc := m.pc
	patterns := m.AnalyzeInteractionPatterns()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Project %s (%s)\n", pc.Project.Name, pc.Project.Type)
	fmt.Fprintf(&sb, "Maturity: %s (%d/100)\n", m.MaturityLevel(), m.MaturityScore())
	fmt.Fprintf(&sb, "Endpoints: %d, models: %d, components: %d\n",
		len(pc.API.Endpoints), len(pc.Database.Models), len(pc.Frontend.Components))
	auth := pc.Authentication.Type
	if auth == "" {
		auth = "none"
	}
	fmt.Fprintf(&sb, "Authentication: %s\n", auth)
	fmt.Fprintf(&sb, "Interactions: %d across %d sessions", patterns.TotalInteractions, patterns.SessionCount)
	if patterns.MostCommonAction != "" {
		fmt.Fprintf(&sb, " (most common: %s)", patterns.MostCommonAction)
	}
	return sb.String()
}
