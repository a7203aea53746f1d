package sdk

import (
	"log/slog"

	"github.com/viant/afs"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/driftwatch/sdk/memory"
	"github.com/driftwatch/sdk/policy"
)

// EngineOption configures the Engine.
type EngineOption func(*engineConfig)

// engineConfig holds configuration for the Engine instance.
type engineConfig struct {
	logger         *slog.Logger
	fs             afs.Service
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	registry       policy.Registry
	mirror         memory.Mirror
	concurrency    int
	sharedRules    []string
}

// WithLogger sets a custom logger for the engine.
// If not provided, a JSON logger writing to stdout is created.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithFileSystem sets the afs service used for all file access. This is
// how tests substitute the in-memory file system.
func WithFileSystem(fs afs.Service) EngineOption {
	return func(c *engineConfig) {
		c.fs = fs
	}
}

// WithTracerProvider sets an OpenTelemetry tracer provider for scan and
// continuity spans. Without it, span creation is a no-op.
func WithTracerProvider(tp trace.TracerProvider) EngineOption {
	return func(c *engineConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets an OpenTelemetry meter provider for scan
// metrics. Without it, metric recording is a no-op.
func WithMeterProvider(mp metric.MeterProvider) EngineOption {
	return func(c *engineConfig) {
		c.meterProvider = mp
	}
}

// WithRuleRegistry connects the engine to a shared security rule-set
// registry. Scans fold the configured shared rule sets into the
// project's own patterns.
func WithRuleRegistry(registry policy.Registry) EngineOption {
	return func(c *engineConfig) {
		c.registry = registry
	}
}

// WithSharedRuleSets names the registry rule sets to fold into every
// scan. Ignored without WithRuleRegistry.
func WithSharedRuleSets(names ...string) EngineOption {
	return func(c *engineConfig) {
		c.sharedRules = names
	}
}

// WithInteractionMirror mirrors recorded interactions to an external
// store (typically Redis). Mirror failures are logged, never surfaced.
func WithInteractionMirror(mirror memory.Mirror) EngineOption {
	return func(c *engineConfig) {
		c.mirror = mirror
	}
}

// WithScanConcurrency bounds the number of files read in parallel
// during scans and continuity analysis.
func WithScanConcurrency(n int) EngineOption {
	return func(c *engineConfig) {
		c.concurrency = n
	}
}
