package core

import "context"

// Metric names recorded by Core.
const (
	MetricDecisions         = "devauth_decisions_total"
	MetricCacheLookups      = "devauth_cache_lookups_total"
	MetricAuthorityChecks   = "devauth_authority_checks_total"
	MetricAuthorityDuration = "devauth_authority_check_duration_seconds"
)

// SpanAuthorityCheck is the name of the span wrapping an authority round trip.
const SpanAuthorityCheck = "devauth.authority.check"

// Metrics receives counters and observations from Core.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
}

// Tracer starts spans around authority checks.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span is a started trace span.
type Span interface {
	SetAttribute(key string, value any)
	End()
}

type noopMetrics struct{}

func (noopMetrics) IncCounter(string, map[string]string)                {}
func (noopMetrics) ObserveHistogram(string, float64, map[string]string) {}

type noopTracer struct{}

func (noopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) SetAttribute(string, any) {}
func (noopSpan) End()                     {}
