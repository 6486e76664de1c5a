package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Attribute keys shared by every request-scoped log line.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
)

type loggerKey struct{}

var fallback atomic.Pointer[slog.Logger]

func init() {
	fallback.Store(slog.Default())
}

// SetDefault installs logger as the fallback for contexts without one
// and as the slog default.
func SetDefault(logger *slog.Logger) {
	fallback.Store(logger)
	slog.SetDefault(logger)
}

// FromContext returns the request logger, or the default logger when ctx
// is nil or carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	return fallback.Load()
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// With returns a context whose logger carries the extra attributes.
func With(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithRequestID tags the context logger with the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyRequestID, id))
}

// WithCorrelationID tags the context logger with the correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyCorrelationID, id))
}

// WithTraceID tags the context logger with the OpenTelemetry trace ID.
func WithTraceID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyTraceID, id))
}
