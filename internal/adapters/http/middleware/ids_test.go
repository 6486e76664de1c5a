package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIDContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(nil)) //nolint:staticcheck // nil context is handled

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "corr-1", CorrelationIDFromContext(ctx))
}

func TestIDMiddleware_StoresIDOnRequestContext(t *testing.T) {
	var fromCtx, fromGin string

	router := gin.New()
	router.Use(RequestID(), CorrelationID())
	router.GET("/", func(c *gin.Context) {
		fromCtx = RequestIDFromContext(c.Request.Context())
		fromGin = GetRequestID(c)
		assert.Equal(t, "session-7", CorrelationIDFromContext(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(HeaderRequestID, "abc")
	req.Header.Set(HeaderCorrelationID, "session-7")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc", fromCtx)
	assert.Equal(t, "abc", fromGin)
	assert.Equal(t, "session-7", w.Header().Get(HeaderCorrelationID))
}
