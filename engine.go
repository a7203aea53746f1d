package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/viant/afs"

	"github.com/driftwatch/sdk/continuity"
	"github.com/driftwatch/sdk/issue"
	"github.com/driftwatch/sdk/memory"
	"github.com/driftwatch/sdk/policy"
	"github.com/driftwatch/sdk/project"
	"github.com/driftwatch/sdk/scanner"
	"github.com/driftwatch/sdk/source"
	"github.com/driftwatch/sdk/store"
	"github.com/driftwatch/sdk/validate"
)

// Engine is the main SDK entry point. It wires the file service,
// scanner, continuity analyzer, context memory, validator, and
// persistence into one facade.
//
// The Engine itself is safe for concurrent use; a single
// ProjectContext instance must not be mutated from multiple goroutines
// (see the memory package for the single-writer contract).
type Engine struct {
	logger    *slog.Logger
	src       *source.Service
	store     *store.Store
	validator *validate.Validator
	analyzer  *continuity.Analyzer

	registry    policy.Registry
	sharedRules []string
	mirror      memory.Mirror

	cfg engineConfig

	// memories caches one Memory per context so the compiled suggestion
	// rules are reused across calls.
	mu       sync.Mutex
	memories map[*project.ProjectContext]*memory.Memory
}

// NewEngine creates an Engine with the provided options.
//
// Example:
//
//	engine, err := sdk.NewEngine(
//	    sdk.WithLogger(logger),
//	    sdk.WithScanConcurrency(4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
func NewEngine(opts ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	if cfg.fs == nil {
		cfg.fs = afs.New()
	}

	src := source.New(
		source.WithFS(cfg.fs),
		source.WithLogger(cfg.logger),
	)

	analyzerOpts := []continuity.Option{
		continuity.WithSource(src),
		continuity.WithLogger(cfg.logger),
		continuity.WithConcurrency(cfg.concurrency),
	}
	if cfg.tracerProvider != nil {
		analyzerOpts = append(analyzerOpts, continuity.WithTracerProvider(cfg.tracerProvider))
	}

	e := &Engine{
		logger:      cfg.logger,
		src:         src,
		store:       store.New(store.WithFS(cfg.fs)),
		validator:   validate.New(validate.WithLogger(cfg.logger)),
		analyzer:    continuity.New(analyzerOpts...),
		registry:    cfg.registry,
		sharedRules: cfg.sharedRules,
		mirror:      cfg.mirror,
		cfg:         *cfg,
		memories:    make(map[*project.ProjectContext]*memory.Memory),
	}
	return e, nil
}

// LoadContext loads the persisted context from root. Returns an error
// matching ErrContextNotFound when no context file exists.
func (e *Engine) LoadContext(ctx context.Context, root string) (*project.ProjectContext, error) {
	pc, err := e.store.Load(ctx, root)
	if err != nil {
		return nil, NewPersistenceError("Engine.LoadContext", err)
	}
	return pc, nil
}

// SaveContext validates the context and persists it to root. When
// validation reports errors nothing is written and the returned error
// matches ErrValidationFailed; the Result carries the details either
// way.
func (e *Engine) SaveContext(ctx context.Context, root string, pc *project.ProjectContext) (validate.Result, error) {
	if pc == nil {
		return validate.Result{}, NewValidationError("Engine.SaveContext", ErrNoContext)
	}

	result := e.validator.Validate(pc)
	if !result.Valid {
		return result, NewValidationError("Engine.SaveContext", ErrValidationFailed).
			WithContext(map[string]any{"errors": len(result.Errors)})
	}

	if err := e.store.Save(ctx, root, pc); err != nil {
		return result, NewPersistenceError("Engine.SaveContext", err)
	}
	return result, nil
}

// Validate checks the context against the schema and business rules
// without persisting anything.
func (e *Engine) Validate(pc *project.ProjectContext) validate.Result {
	return e.validator.Validate(pc)
}

// ScanProject scans the tree under root with the context's declared
// patterns, any shared rule sets, and the built-in heuristics. A nil
// context scans with the default pattern set only.
func (e *Engine) ScanProject(ctx context.Context, root string, pc *project.ProjectContext) ([]issue.Issue, error) {
	s, err := e.buildScanner(ctx, pc)
	if err != nil {
		return nil, NewScanError("Engine.ScanProject", err)
	}
	issues, err := s.ScanProject(ctx, root)
	if err != nil {
		return nil, NewScanError("Engine.ScanProject", err)
	}
	return issues, nil
}

// ScanFile scans a single file under root.
func (e *Engine) ScanFile(ctx context.Context, root, rel string, pc *project.ProjectContext) ([]issue.Issue, error) {
	s, err := e.buildScanner(ctx, pc)
	if err != nil {
		return nil, NewScanError("Engine.ScanFile", err)
	}
	issues, err := s.ScanFile(ctx, root, rel)
	if err != nil {
		return nil, NewScanError("Engine.ScanFile", err)
	}
	return issues, nil
}

// AutoFix repairs the fixable subset of issues in place and returns the
// issues that were actually fixed. Re-running AutoFix over an
// already-fixed tree fixes nothing further.
func (e *Engine) AutoFix(ctx context.Context, root string, issues []issue.Issue) ([]issue.Issue, error) {
	s, err := e.buildScanner(ctx, nil)
	if err != nil {
		return nil, NewScanError("Engine.AutoFix", err)
	}
	fixed, err := s.AutoFix(ctx, root, issues)
	if err != nil {
		return fixed, NewScanError("Engine.AutoFix", err)
	}
	return fixed, nil
}

// CheckContinuity reconciles the source tree under root against the
// declared context in both directions.
func (e *Engine) CheckContinuity(ctx context.Context, root string, pc *project.ProjectContext) ([]issue.ContinuityIssue, error) {
	if pc == nil {
		return nil, NewContinuityError("Engine.CheckContinuity", ErrNoContext)
	}
	issues, err := e.analyzer.CheckContinuity(ctx, root, pc)
	if err != nil {
		return nil, NewContinuityError("Engine.CheckContinuity", err)
	}
	return issues, nil
}

// UpdateContextFromCode discovers endpoints, components, and pages from
// the source tree and folds them into the context. Overrides, when
// given, take precedence over discovered values; the merged patch is
// returned.
func (e *Engine) UpdateContextFromCode(ctx context.Context, root string, pc *project.ProjectContext, overrides *project.ContextPatch) (*project.ContextPatch, error) {
	if pc == nil {
		return nil, NewContinuityError("Engine.UpdateContextFromCode", ErrNoContext)
	}

	discovered, err := e.analyzer.UpdateContextFromCode(ctx, root)
	if err != nil {
		return nil, NewContinuityError("Engine.UpdateContextFromCode", err)
	}

	merged := project.MergePatches(discovered, overrides)
	merged.Apply(pc)
	return merged, nil
}

// Memory returns the context-memory view of pc, creating it on first
// use. The same Memory instance is returned for the same context.
func (e *Engine) Memory(pc *project.ProjectContext) (*memory.Memory, error) {
	if pc == nil {
		return nil, ErrNoContext
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if m, ok := e.memories[pc]; ok {
		return m, nil
	}

	memOpts := []memory.Option{memory.WithLogger(e.logger)}
	if e.mirror != nil {
		memOpts = append(memOpts, memory.WithMirror(e.mirror))
	}
	m, err := memory.New(pc, memOpts...)
	if err != nil {
		return nil, fmt.Errorf("create context memory: %w", err)
	}
	e.memories[pc] = m
	return m, nil
}

// RecordInteraction appends an interaction to the context's bounded log.
func (e *Engine) RecordInteraction(ctx context.Context, pc *project.ProjectContext, action, actionContext, result string, metadata map[string]any) (project.Interaction, error) {
	m, err := e.Memory(pc)
	if err != nil {
		return project.Interaction{}, err
	}
	return m.RecordInteraction(ctx, action, actionContext, result, metadata)
}

// GetContextSummary renders a short human-readable summary of the
// context and its usage.
func (e *Engine) GetContextSummary(pc *project.ProjectContext) (string, error) {
	m, err := e.Memory(pc)
	if err != nil {
		return "", err
	}
	return m.GetContextSummary(), nil
}

// GetLearningInsights derives maturity, usage patterns, and suggestions
// from the context.
func (e *Engine) GetLearningInsights(pc *project.ProjectContext) (memory.LearningInsights, error) {
	m, err := e.Memory(pc)
	if err != nil {
		return memory.LearningInsights{}, err
	}
	return m.GetLearningInsights(), nil
}

// Close releases the engine's external connections (rule registry and
// interaction mirror). The Engine must not be used afterwards.
func (e *Engine) Close() error {
	CloseWithLog(e.registry, e.logger, "rule registry")
	CloseWithLog(e.mirror, e.logger, "interaction mirror")
	return nil
}

// buildScanner assembles a Scanner for one scan call. Patterns are
// layered: the context's own patterns win over shared rule sets, which
// win over the built-in defaults.
func (e *Engine) buildScanner(ctx context.Context, pc *project.ProjectContext) (*scanner.Scanner, error) {
	var patterns []project.SecurityPattern
	if pc != nil {
		patterns = pc.Security.Patterns
	}

	if e.registry != nil {
		for _, name := range e.sharedRules {
			rs, err := e.registry.Fetch(ctx, name)
			if err != nil {
				e.logger.Warn("skipping shared rule set", "name", name, "error", err)
				continue
			}
			patterns = policy.MergePatterns(patterns, rs.Patterns)
		}
	}
	patterns = policy.MergePatterns(patterns, scanner.DefaultPatterns())

	scanOpts := []scanner.Option{
		scanner.WithSource(e.src),
		scanner.WithLogger(e.logger),
		scanner.WithPatterns(patterns),
		scanner.WithConcurrency(e.cfg.concurrency),
	}
	if e.cfg.tracerProvider != nil {
		scanOpts = append(scanOpts, scanner.WithTracerProvider(e.cfg.tracerProvider))
	}
	if e.cfg.meterProvider != nil {
		scanOpts = append(scanOpts, scanner.WithMeterProvider(e.cfg.meterProvider))
	}
	return scanner.New(scanOpts...)
}
