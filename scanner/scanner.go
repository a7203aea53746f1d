package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/driftwatch/sdk/issue"
	"github.com/driftwatch/sdk/project"
	"github.com/driftwatch/sdk/source"
)

// compiledPattern is a declared SecurityPattern with its regex compiled
// case-insensitively.
type compiledPattern struct {
	name     string
	re       *regexp.Regexp
	severity issue.Severity
	message  string
}

// Scanner evaluates security patterns and built-in heuristics against a
// project tree. A Scanner is stateless between scans: the same files
// always yield the same issues.
type Scanner struct {
	src         *source.Service
	logger      *slog.Logger
	patterns    []compiledPattern
	concurrency int

	tracer  trace.Tracer
	metrics *scanMetrics
}

// Option configures a Scanner.
type Option func(*options)

type options struct {
	src         *source.Service
	logger      *slog.Logger
	patterns    []project.SecurityPattern
	concurrency int
	tracerProv  trace.TracerProvider
	meterProv   metric.MeterProvider
}

// WithSource sets the file service. Defaults to source.New().
func WithSource(src *source.Service) Option {
	return func(o *options) { o.src = src }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPatterns replaces the default SecurityPattern set.
func WithPatterns(patterns []project.SecurityPattern) Option {
	return func(o *options) { o.patterns = patterns }
}

// WithConcurrency bounds parallel file reads during a scan.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithTracerProvider enables span creation for scans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProv = tp }
}

// WithMeterProvider enables scan metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProv = mp }
}

// New creates a Scanner. Patterns that fail to compile are logged and
// skipped so that one malformed rule degrades the scan instead of
// blocking it.
func New(opts ...Option) (*Scanner, error) {
	o := &options{
		logger:   slog.Default(),
		patterns: DefaultPatterns(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.src == nil {
		o.src = source.New(source.WithLogger(o.logger))
	}

	s := &Scanner{
		src:         o.src,
		logger:      o.logger,
		concurrency: o.concurrency,
	}

	for _, p := range o.patterns {
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			s.logger.Warn("skipping invalid security pattern", "rule", p.Name, "error", err)
			continue
		}
		s.patterns = append(s.patterns, compiledPattern{
			name:     p.Name,
			re:       re,
			severity: p.Severity,
			message:  p.Message,
		})
	}

	if o.tracerProv != nil {
		s.tracer = o.tracerProv.Tracer("driftwatch/scanner")
	}
	if o.meterProv != nil {
		metrics, err := newScanMetrics(o.meterProv.Meter("driftwatch/scanner"))
		if err != nil {
			return nil, fmt.Errorf("scanner: init metrics: %w", err)
		}
		s.metrics = metrics
	}

	return s, nil
}

// ScanProject scans every source-like file under root plus the
// project-level checks, returning all issues found. Issue content is
// deterministic for an unchanged tree; aggregate order is not part of
// the contract.
func (s *Scanner) ScanProject(ctx context.Context, root string) ([]issue.Issue, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "scanner.project", root)

	files, err := s.src.ReadTree(ctx, root, s.concurrency)
	if err != nil {
		s.endSpan(span, err)
		return nil, fmt.Errorf("scanner: scan %s: %w", root, err)
	}

	var issues []issue.Issue
	for _, f := range files {
		issues = append(issues, s.scanContent(f.Rel, f.Content)...)
	}
	issues = append(issues, s.projectChecks(ctx, root)...)

	s.recordScan(ctx, span, len(files), issues, time.Since(start))
	return issues, nil
}

// ScanFile scans a single file under root.
func (s *Scanner) ScanFile(ctx context.Context, root, rel string) ([]issue.Issue, error) {
	content, err := s.src.ReadText(ctx, root, rel)
	if err != nil {
		return nil, fmt.Errorf("scanner: scan file %s: %w", rel, err)
	}
	return s.scanContent(rel, content), nil
}

// scanContent runs the declared patterns and built-in checks over one
// file's text. Every check is independent and order-insensitive; a
// single line may produce issues from several checks.
func (s *Scanner) scanContent(rel, content string) []issue.Issue {
	lines := strings.Split(content, "\n")
	var issues []issue.Issue

	for _, p := range s.patterns {
		for i, line := range lines {
			if p.re.MatchString(line) {
				issues = append(issues, issue.New(rel, i+1, p.name, p.severity, p.message, SuggestionFor(RuleName(p.name))))
			}
		}
	}

	base := path.Base(rel)
	switch {
	case strings.HasPrefix(base, ".env"):
		issues = append(issues, s.envCredentialIssues(rel, content, lines)...)
	case base == "package.json":
		issues = append(issues, s.dependencyIssues(rel, content)...)
	}

	for i, line := range lines {
		issues = append(issues, codeAntiPatternIssues(rel, i+1, line)...)
		issues = append(issues, authBypassIssues(rel, i+1, line)...)
		issues = append(issues, dataExposureIssues(rel, i+1, line)...)
	}

	return issues
}

func newIssue(rel string, line int, rule RuleName, severity issue.Severity, message string) issue.Issue {
	return issue.New(rel, line, string(rule), severity, message, SuggestionFor(rule))
}
