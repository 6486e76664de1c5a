package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})

	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestZeroProviderShutdown(t *testing.T) {
	var p Provider
	assert.NoError(t, p.Shutdown(context.Background()))
}

func newTracedEngine(handler gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(TracingMiddleware("quote-reader-test"), Middleware())
	engine.POST("/api/quotes", handler)

	return engine
}

func TestMiddleware_ExposesTraceID(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	var ginTraceID string

	engine := newTracedEngine(func(c *gin.Context) {
		ginTraceID = c.GetString(TraceIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/quotes", http.NoBody))

	header := w.Header().Get(TraceIDHeader)
	assert.Len(t, header, 32)
	assert.Equal(t, header, ginTraceID)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, header, spans[0].SpanContext().TraceID().String())
}

func TestMiddleware_NoopTracer(t *testing.T) {
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(noop.NewTracerProvider())
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	engine := newTracedEngine(func(c *gin.Context) {
		_, ok := c.Get(TraceIDKey)
		assert.False(t, ok)
		c.Status(http.StatusAccepted)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/quotes", http.NoBody))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, w.Header().Get(TraceIDHeader))
}

func TestNewMetrics(t *testing.T) {
	m, err := NewMetrics()

	require.NoError(t, err)
	assert.NotNil(t, m.requestDuration)
	assert.NotNil(t, m.requestTotal)
	assert.NotNil(t, m.activeRequests)
}
