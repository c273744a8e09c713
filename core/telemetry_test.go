package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu      sync.Mutex
	entries []logCall
}

type logCall struct {
	level string
	msg   string
	args  []any
}

func (l *recordingLogger) log(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logCall{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.log("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("error", msg, args) }

func (l *recordingLogger) calls(level string) []logCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logCall
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

func (l *recordingLogger) all() []logCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logCall(nil), l.entries...)
}

type recordingMetrics struct {
	mu       sync.Mutex
	counters map[string][]map[string]string
	observed map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{counters: map[string][]map[string]string{}, observed: map[string]int{}}
}

func (m *recordingMetrics) IncCounter(name string, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] = append(m.counters[name], tags)
}

func (m *recordingMetrics) ObserveHistogram(name string, _ float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed[name]++
}

type recordingTracer struct {
	spans []*recordingSpan
}

type recordingSpan struct {
	name  string
	attrs map[string]any
	ended bool
}

func (s *recordingSpan) SetAttribute(key string, value any) { s.attrs[key] = value }
func (s *recordingSpan) End()                               { s.ended = true }

func (t *recordingTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	span := &recordingSpan{name: name, attrs: map[string]any{}}
	t.spans = append(t.spans, span)
	return ctx, span
}

func Test_Telemetry(t *testing.T) {
	clock := newClock()
	metrics := newRecordingMetrics()
	tracer := &recordingTracer{}
	checker := &fakeChecker{verdict: acceptFor(10 * time.Second)}
	gate := newCore(t, checker, newMapStore(),
		WithClock(clock.Now),
		WithMetrics(metrics),
		WithTracer(tracer),
	)
	ctx := context.Background()

	gate.Authorize(ctx, Request{Path: "/v1/acct1", Token: "tok1"})
	gate.Authorize(ctx, Request{Path: "/v1/acct1", Token: "tok1"})
	clock.Advance(time.Minute)
	gate.Authorize(ctx, Request{Path: "/v1/acct1", Token: "tok1"})
	gate.Authorize(ctx, Request{Path: "/v1"})

	assert.Equal(t, []map[string]string{
		{"result": "miss"},
		{"result": "hit"},
		{"result": "stale"},
	}, metrics.counters[MetricCacheLookups])

	assert.Equal(t, []map[string]string{
		{"decision": "proceed"},
		{"decision": "proceed"},
		{"decision": "proceed"},
		{"decision": "bad_request"},
	}, metrics.counters[MetricDecisions])

	assert.Len(t, metrics.counters[MetricAuthorityChecks], 2)
	assert.Equal(t, 2, metrics.observed[MetricAuthorityDuration])

	require.Len(t, tracer.spans, 2)
	for _, span := range tracer.spans {
		assert.Equal(t, SpanAuthorityCheck, span.name)
		assert.True(t, span.ended)
		assert.Equal(t, "accepted", span.attrs["devauth.verdict"])
		assert.Equal(t, "acct1", span.attrs["devauth.account"])
	}
}

func Test_DecisionString(t *testing.T) {
	assert.Equal(t, "proceed", Proceed.String())
	assert.Equal(t, "bad_request", BadRequest.String())
	assert.Equal(t, "unauthorized", Unauthorized.String())
	assert.Equal(t, "unknown", Decision(42).String())
}
