package continuity

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/driftwatch/sdk/issue"
	"github.com/driftwatch/sdk/project"
	"github.com/driftwatch/sdk/source"
)

// Analyzer reconciles discovered source facts against a declared
// ProjectContext. An Analyzer is stateless per invocation; it reads the
// context but never mutates it (merges go through ContextPatch).
type Analyzer struct {
	src         *source.Service
	logger      *slog.Logger
	extractor   SourceFactExtractor
	concurrency int
	tracer      trace.Tracer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSource sets the file service. Defaults to source.New().
func WithSource(src *source.Service) Option {
	return func(a *Analyzer) { a.src = src }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithExtractor replaces the lexical extractor, e.g. with a
// parser-backed implementation for a specific language.
func WithExtractor(extractor SourceFactExtractor) Option {
	return func(a *Analyzer) { a.extractor = extractor }
}

// WithConcurrency bounds parallel file reads.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) { a.concurrency = n }
}

// WithTracerProvider enables span creation for continuity checks.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Analyzer) { a.tracer = tp.Tracer("driftwatch/continuity") }
}

// New creates an Analyzer with the lexical extractor.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:    slog.Default(),
		extractor: NewLexicalExtractor(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.src == nil {
		a.src = source.New(source.WithLogger(a.logger))
	}
	return a
}

// CheckContinuity discovers facts under root and reconciles them
// against the declared context in both directions, returning every
// mismatch found.
func (a *Analyzer) CheckContinuity(ctx context.Context, root string, pc *project.ProjectContext) ([]issue.ContinuityIssue, error) {
	var span trace.Span
	if a.tracer != nil {
		ctx, span = a.tracer.Start(ctx, "continuity.check",
			trace.WithAttributes(attribute.String("scan.root", root)))
		defer span.End()
	}

	files, err := a.src.ReadTree(ctx, root, a.concurrency)
	if err != nil {
		return nil, fmt.Errorf("continuity: check %s: %w", root, err)
	}
	facts := a.extractor.Extract(files)

	var issues []issue.ContinuityIssue
	issues = append(issues, reconcileAPI(facts, pc)...)
	issues = append(issues, reconcileComponents(facts, pc)...)
	issues = append(issues, reconcileRoutes(facts, pc)...)
	if pc.Authentication.Enabled() {
		issues = append(issues, reconcileAuth(facts, pc)...)
	}

	if span != nil {
		span.SetAttributes(attribute.Int("continuity.issues", len(issues)))
	}
	return issues, nil
}

// reconcileAPI matches frontend calls against the union of declared
// endpoints and discovered backend routes, in both directions. Matching
// is exact on (method, path) after normalization; path templates are
// not resolved.
func reconcileAPI(facts *Facts, pc *project.ProjectContext) []issue.ContinuityIssue {
	declared := make(map[string]string) // key -> backend description
	for _, e := range pc.API.Endpoints {
		if _, ok := declared[e.Key()]; !ok {
			declared[e.Key()] = string(e.Method) + " " + project.NormalizePath(e.Path) + " (declared in project context)"
		}
	}
	for _, r := range facts.Routes {
		if _, ok := declared[r.Key()]; !ok {
			declared[r.Key()] = string(r.Method) + " " + project.NormalizePath(r.Path) + " (" + r.File + ":" + strconv.Itoa(r.Line) + ")"
		}
	}

	used := make(map[string]bool, len(facts.Calls))
	var issues []issue.ContinuityIssue
	reported := make(map[string]bool)

	for _, call := range facts.Calls {
		key := call.Key()
		used[key] = true
		if _, ok := declared[key]; ok {
			continue
		}
		if reported[key] {
			continue
		}
		reported[key] = true
		issues = append(issues, issue.ContinuityIssue{
			Type:       issue.APIMismatch,
			Frontend:   call.Location(),
			Backend:    issue.NotFound,
			Message:    fmt.Sprintf("Frontend calls %s %s but no matching endpoint is declared", call.Method, project.NormalizePath(call.Path)),
			Suggestion: "Declare the endpoint in the project context or remove the call.",
		})
	}

	for _, e := range pc.API.Endpoints {
		key := e.Key()
		if used[key] || reported[key] {
			continue
		}
		reported[key] = true
		issues = append(issues, issue.ContinuityIssue{
			Type:       issue.APIMismatch,
			Frontend:   issue.NotFound,
			Backend:    declared[key],
			Message:    fmt.Sprintf("Endpoint %s %s is declared but never called from the frontend", e.Method, project.NormalizePath(e.Path)),
			Suggestion: "Wire the endpoint into the frontend or remove the declaration.",
		})
	}

	return issues
}

// reconcileComponents flags component usages that have neither a
// discovered definition nor a declared component. Matching is purely
// name-based; no import or scope resolution happens.
func reconcileComponents(facts *Facts, pc *project.ProjectContext) []issue.ContinuityIssue {
	defined := make(map[string]bool)
	for _, def := range facts.ComponentDefs {
		defined[def.Name] = true
	}
	for _, c := range pc.Frontend.Components {
		defined[c.Name] = true
	}

	var issues []issue.ContinuityIssue
	reported := make(map[string]bool)
	for _, use := range facts.ComponentUses {
		if defined[use.Name] || reported[use.Name] {
			continue
		}
		reported[use.Name] = true
		issues = append(issues, issue.ContinuityIssue{
			Type:       issue.ComponentMissing,
			Frontend:   use.File + ":" + strconv.Itoa(use.Line) + " <" + use.Name + ">",
			Backend:    issue.NotFound,
			Message:    fmt.Sprintf("Component %s is used but no definition was found", use.Name),
			Suggestion: "Define the component or fix the tag name.",
		})
	}
	return issues
}

// reconcileRoutes flags navigation targets absent from the declared
// route set (router configuration, file-system conventions, and
// declared pages).
func reconcileRoutes(facts *Facts, pc *project.ProjectContext) []issue.ContinuityIssue {
	declared := make(map[string]bool)
	for _, route := range facts.RoutePaths {
		declared[project.NormalizePath(route)] = true
	}
	for _, page := range pc.Frontend.Pages {
		if page.Route != "" {
			declared[project.NormalizePath(page.Route)] = true
		}
	}

	var issues []issue.ContinuityIssue
	reported := make(map[string]bool)
	for _, nav := range facts.NavTargets {
		route := project.NormalizePath(nav.Route)
		if declared[route] || reported[route] {
			continue
		}
		reported[route] = true
		issues = append(issues, issue.ContinuityIssue{
			Type:       issue.RouteUndefined,
			Frontend:   nav.File + ":" + strconv.Itoa(nav.Line) + " navigate('" + nav.Route + "')",
			Backend:    issue.NotFound,
			Message:    fmt.Sprintf("Navigation targets %s but no such route is defined", route),
			Suggestion: "Add the route to the router configuration or fix the navigation target.",
		})
	}
	return issues
}

// reconcileAuth flags auth-related calls referencing endpoints that are
// neither declared nor flagged for authentication. Runs only when the
// context configures an auth type other than "none".
func reconcileAuth(facts *Facts, pc *project.ProjectContext) []issue.ContinuityIssue {
	declared := make(map[string]bool)
	for _, e := range pc.API.Endpoints {
		p := project.NormalizePath(e.Path)
		if e.Authentication || containsAuth(p) {
			declared[p] = true
		}
	}
	for _, r := range facts.Routes {
		declared[project.NormalizePath(r.Path)] = true
	}

	var issues []issue.ContinuityIssue
	reported := make(map[string]bool)
	for _, call := range facts.AuthCalls {
		p := project.NormalizePath(call.Path)
		if declared[p] || reported[p] {
			continue
		}
		reported[p] = true
		issues = append(issues, issue.ContinuityIssue{
			Type:       issue.AuthMismatch,
			Frontend:   call.File + ":" + strconv.Itoa(call.Line),
			Backend:    issue.NotFound,
			Message:    fmt.Sprintf("Auth call references %s but no matching auth endpoint is declared", p),
			Suggestion: "Declare the auth endpoint or align the call with the configured authentication flow.",
		})
	}
	return issues
}

func containsAuth(path string) bool {
	return strings.Contains(strings.ToLower(path), "auth")
}
