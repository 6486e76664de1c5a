// Package middleware provides the gin middleware chain: request and
// correlation IDs, request logging, panic recovery, timeouts and header auth.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-reader/internal/platform/logging"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID is the header name for correlation ID.
	// A browser session may reuse one correlation ID across quote and speech calls.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key for the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// maxIDLength bounds caller-supplied IDs before they reach logs and upstream headers.
const maxIDLength = 128

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// trackedID describes one propagated identifier.
type trackedID struct {
	header string
	ginKey string
	ctxKey idKey
	logger func(context.Context, string) context.Context
}

var (
	requestIDSpec = trackedID{
		header: HeaderRequestID,
		ginKey: ContextKeyRequestID,
		ctxKey: requestIDKey,
		logger: logging.WithRequestID,
	}
	correlationIDSpec = trackedID{
		header: HeaderCorrelationID,
		ginKey: ContextKeyCorrelationID,
		ctxKey: correlationIDKey,
		logger: logging.WithCorrelationID,
	}
)

// RequestID returns middleware that extracts or generates a request ID.
// The ID is echoed in the response, attached to the request logger and
// forwarded by the outbound client to Cloud TTS.
func RequestID() gin.HandlerFunc {
	return requestIDSpec.middleware()
}

// CorrelationID returns middleware that propagates or starts a correlation ID.
func CorrelationID() gin.HandlerFunc {
	return correlationIDSpec.middleware()
}

func (t trackedID) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(t.header)
		if id == "" || len(id) > maxIDLength {
			id = uuid.NewString()
		}

		c.Set(t.ginKey, id)
		c.Header(t.header, id)

		ctx := context.WithValue(c.Request.Context(), t.ctxKey, id)
		c.Request = c.Request.WithContext(t.logger(ctx, id))

		c.Next()
	}
}

// GetRequestID returns the request ID or "" if the middleware did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID or "" if the middleware did not run.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// RequestIDFromContext returns the request ID stored by RequestID.
// Client adapters use it to propagate the ID upstream.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation ID stored by CorrelationID.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, correlationIDKey)
}

// ContextWithRequestID stores a request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores a correlation ID in the context.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func idFromContext(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
