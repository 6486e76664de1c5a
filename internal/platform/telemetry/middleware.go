package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-reader/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-reader/telemetry"

	// TraceIDHeader is set on responses that belong to a sampled trace.
	TraceIDHeader = "X-Trace-ID"

	// TraceIDKey is the gin context key holding the current trace ID.
	TraceIDKey = "trace_id"
)

// Metrics holds HTTP server metrics.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server metrics.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// TracingMiddleware starts a server span per request via otelgin.
// It must run before Middleware so the span exists when IDs are read.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// unmatchedRoute labels requests no route matched, keeping the
// http.route attribute bounded.
const unmatchedRoute = "unmatched"

// Middleware exposes the trace ID (response header, gin context, request
// logger) and records request metrics.
func Middleware() gin.HandlerFunc {
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		start := time.Now()

		span := trace.SpanFromContext(c.Request.Context())
		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID := sc.TraceID().String()

			c.Header(TraceIDHeader, traceID)
			c.Set(TraceIDKey, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(c.Request.Context(), traceID))
		}

		if metrics == nil {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}

		route := attribute.String("http.route", path)
		method := attribute.String("http.method", c.Request.Method)

		metrics.activeRequests.Add(c.Request.Context(), 1, metric.WithAttributes(method, route))
		defer metrics.activeRequests.Add(c.Request.Context(), -1, metric.WithAttributes(method, route))

		c.Next()

		attrs := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
		metrics.requestDuration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
		metrics.requestTotal.Add(c.Request.Context(), 1, attrs)
	}
}
