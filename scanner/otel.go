package scanner

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/driftwatch/sdk/issue"
)

// scanMetrics holds the metric instruments recorded per scan. They are
// created once in New and reused for every scan.
type scanMetrics struct {
	// filesCounter counts files read per scan.
	filesCounter metric.Int64Counter

	// issuesCounter counts issues produced, attributed by severity.
	issuesCounter metric.Int64Counter

	// durationHistogram records scan duration in milliseconds.
	durationHistogram metric.Float64Histogram
}

func newScanMetrics(meter metric.Meter) (*scanMetrics, error) {
	m := &scanMetrics{}
	var err error

	m.filesCounter, err = meter.Int64Counter(
		"scan.files",
		metric.WithDescription("Number of files read per scan"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create files counter: %w", err)
	}

	m.issuesCounter, err = meter.Int64Counter(
		"scan.issues",
		metric.WithDescription("Number of issues produced, by severity"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create issues counter: %w", err)
	}

	m.durationHistogram, err = meter.Float64Histogram(
		"scan.duration",
		metric.WithDescription("Scan duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return m, nil
}

// startSpan begins a scan span when a tracer is configured. Returns a
// nil span otherwise; callers pass it back through endSpan/recordScan,
// which are nil-safe.
func (s *Scanner) startSpan(ctx context.Context, name, root string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, nil
	}
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("scan.root", root)))
	return ctx, span
}

func (s *Scanner) endSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

// recordScan finishes the span and records metrics for one completed
// scan. Skips silently when observability is not configured.
func (s *Scanner) recordScan(ctx context.Context, span trace.Span, files int, issues []issue.Issue, elapsed time.Duration) {
	counts := make(map[issue.Severity]int)
	for _, is := range issues {
		counts[is.Severity]++
	}

	if span != nil {
		span.SetAttributes(
			attribute.Int("scan.files", files),
			attribute.Int("scan.issues", len(issues)),
			attribute.Int("scan.errors", counts[issue.SeverityError]),
			attribute.Float64("scan.duration_ms", float64(elapsed.Milliseconds())),
		)
		span.End()
	}

	if s.metrics == nil {
		return
	}
	s.metrics.filesCounter.Add(ctx, int64(files))
	for severity, n := range counts {
		s.metrics.issuesCounter.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("severity", severity.String()),
		))
	}
	s.metrics.durationHistogram.Record(ctx, float64(elapsed.Milliseconds()))
}
