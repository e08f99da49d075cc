// Package context carries request-scoped tracing identifiers through the
// call chain so log lines from the same request correlate.
package context

import (
	"context"
)

// TraceContext holds the identifiers stamped on a request at the edge.
// RequestID echoes the caller's X-Request-ID when one was supplied.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type traceContextKey struct{}

// WithTrace attaches trace identifiers to ctx.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns the trace identifiers carried by ctx, or nil when the
// request entered outside the HTTP edge (scheduler runs, seeding).
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}
