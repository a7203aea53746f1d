package memory

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/driftwatch/sdk/project"
)

// Common errors returned by memory operations.
var (
	// ErrNoContext is returned when a Memory is constructed without a
	// project context.
	ErrNoContext = errors.New("memory: project context is required")

	// ErrEmptyAction is returned when RecordInteraction is called with
	// an empty action.
	ErrEmptyAction = errors.New("memory: action is required")
)

// sessionGap is the maximum time between consecutive interactions that
// still belong to the same session.
const sessionGap = 30 * time.Minute

// Memory wraps the contextMemory section of one ProjectContext.
//
// All mutating methods must be treated as single-writer operations:
// callers serialize concurrent access to the same context instance.
type Memory struct {
	pc     *project.ProjectContext
	logger *slog.Logger
	mirror Mirror
	engine *suggestionEngine

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// Option configures a Memory.
type Option func(*Memory)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Memory) { m.logger = logger }
}

// WithMirror mirrors every recorded interaction to an external store.
// Mirror failures are logged, never surfaced: the in-context log is the
// source of truth.
func WithMirror(mirror Mirror) Option {
	return func(m *Memory) { m.mirror = mirror }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// New creates a Memory over the given context and compiles the
// suggestion rule set.
func New(pc *project.ProjectContext, opts ...Option) (*Memory, error) {
	if pc == nil {
		return nil, ErrNoContext
	}
	m := &Memory{
		pc:     pc,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	engine, err := newSuggestionEngine()
	if err != nil {
		return nil, err
	}
	m.engine = engine
	return m, nil
}

// RecordInteraction appends an interaction at the front of the log,
// truncates the log to its cap, and refreshes lastUpdated. Returns the
// stored interaction.
func (m *Memory) RecordInteraction(ctx context.Context, action, actionContext, result string, metadata map[string]any) (project.Interaction, error) {
	if action == "" {
		return project.Interaction{}, ErrEmptyAction
	}

	now := m.now()
	interaction := project.Interaction{
		ID:        uuid.New().String(),
		Timestamp: now,
		Action:    action,
		Context:   actionContext,
		Result:    result,
		Metadata:  metadata,
	}

	section := &m.pc.ContextMemory
	section.AIInteractions = append([]project.Interaction{interaction}, section.AIInteractions...)
	if limit := section.Cap(); len(section.AIInteractions) > limit {
		section.AIInteractions = section.AIInteractions[:limit]
	}
	section.LastUpdated = now

	if m.mirror != nil {
		if err := m.mirror.Record(ctx, m.pc.Project.Name, interaction, section.Cap()); err != nil {
			m.logger.Warn("interaction mirror failed", "action", action, "error", err)
		}
	}
	return interaction, nil
}

// Interactions returns the current log, most recent first. The returned
// slice is a copy.
func (m *Memory) Interactions() []project.Interaction {
	return append([]project.Interaction(nil), m.pc.ContextMemory.AIInteractions...)
}

// GetInteractionsByAction returns all interactions with the given
// action, most recent first.
func (m *Memory) GetInteractionsByAction(action string) []project.Interaction {
	var out []project.Interaction
	for _, it := range m.pc.ContextMemory.AIInteractions {
		if it.Action == action {
			out = append(out, it)
		}
	}
	return out
}

// GetInteractionsByTimeRange returns all interactions with from <=
// timestamp < to, most recent first.
func (m *Memory) GetInteractionsByTimeRange(from, to time.Time) []project.Interaction {
	var out []project.Interaction
	for _, it := range m.pc.ContextMemory.AIInteractions {
		if !it.Timestamp.Before(from) && it.Timestamp.Before(to) {
			out = append(out, it)
		}
	}
	return out
}

// CleanupOldInteractions removes interactions strictly older than
// daysToKeep days and returns how many were removed. LastUpdated is
// refreshed only when something was actually removed.
func (m *Memory) CleanupOldInteractions(daysToKeep int) int {
	cutoff := m.now().AddDate(0, 0, -daysToKeep)
	section := &m.pc.ContextMemory

	kept := section.AIInteractions[:0:0]
	for _, it := range section.AIInteractions {
		if !it.Timestamp.Before(cutoff) {
			kept = append(kept, it)
		}
	}

	removed := len(section.AIInteractions) - len(kept)
	if removed > 0 {
		section.AIInteractions = kept
		section.LastUpdated = m.now()
	}
	return removed
}
