// Package telemetry defines the logging, tracing, and metrics interfaces
// used throughout the run engine. Components accept these interfaces rather
// than calling a concrete logging package directly, so the same component
// code runs unchanged against the no-op implementation (tests, local
// development) and the clue/OpenTelemetry-backed implementation
// (production).
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type (
	// Logger emits structured, leveled log messages. Implementations must be
	// safe for concurrent use: the run engine logs from the executor's
	// dispatch goroutines as well as the controlling goroutine.
	Logger interface {
		Debug(ctx context.Context, msg string, keyvals ...any)
		Info(ctx context.Context, msg string, keyvals ...any)
		Warn(ctx context.Context, msg string, keyvals ...any)
		Error(ctx context.Context, msg string, keyvals ...any)
	}

	// Metrics records counters, timers, and gauges for operational
	// dashboards. Implementations must be safe for concurrent use.
	Metrics interface {
		IncCounter(name string, value float64, tags ...string)
		RecordTimer(name string, d time.Duration, tags ...string)
		RecordGauge(name string, value float64, tags ...string)
	}

	// Tracer starts spans for distributed tracing. Span is the minimal
	// surface components need; callers that need the full OTel API can type
	// assert the returned context's span via trace.SpanFromContext.
	Tracer interface {
		Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
	}

	// Span is the subset of trace.Span used by run-engine components.
	Span interface {
		End(opts ...trace.SpanEndOption)
		AddEvent(name string, keyvals ...any)
		SetStatus(code codes.Code, description string)
		RecordError(err error, opts ...trace.EventOption)
	}
)
