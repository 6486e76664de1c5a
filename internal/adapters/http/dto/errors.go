// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-reader/internal/domain"
	"github.com/jsamuelsen/quote-reader/internal/platform/logging"
)

// Error codes returned in ErrorDetail.Code.
const (
	ErrorCodeNotFound     = "NOT_FOUND"
	ErrorCodeValidation   = "VALIDATION_ERROR"
	ErrorCodeBadRequest   = "BAD_REQUEST"
	ErrorCodeForbidden    = "FORBIDDEN"
	ErrorCodeUnauthorized = "UNAUTHORIZED"
	ErrorCodeUnavailable  = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout      = "TIMEOUT"
	ErrorCodeInternal     = "INTERNAL_ERROR"
)

// traceIDKey is the gin context key set by the telemetry middleware.
const traceIDKey = "trace_id"

// ErrorResponse is the envelope for every API error.
//
//	{"error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}, "traceId": "..."}
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes a single error.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// NewErrorResponse creates an error response without details.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewErrorResponseWithDetails creates an error response with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace ID and returns the same response.
func (r *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	r.TraceID = traceID

	return r
}

// HTTPStatusFromCode maps an error code to its HTTP status.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps a domain error to an HTTP status and error response.
// Unknown errors become 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		resp := NewErrorResponse(ErrorCodeValidation, validationErr.Message)
		if validationErr.Field != "" {
			resp.Error.Details = map[string]string{validationErr.Field: validationErr.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsValidation(err):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, err.Error())

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(ErrorCodeForbidden, err.Error())

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable,
			"service temporarily unavailable")

	case errors.Is(err, ErrBinding):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeBadRequest, "request body is not valid JSON")

	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, NewErrorResponseWithDetails(ErrorCodeValidation,
			"request validation failed", ValidationErrors(err))

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal,
			"an internal error occurred")
	}
}

// GetTraceID returns the trace ID set by the telemetry middleware,
// falling back to the X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(traceIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if c.Request != nil {
		return c.Request.Header.Get("X-Request-ID")
	}

	return ""
}

// HandleError writes the error response for err.
// 5xx errors are logged with their cause; the client only sees a generic message.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.WithTraceID(GetTraceID(c))

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			"error", err,
			"status", status,
		)
	}

	c.JSON(status, resp)
}

// AbortWithError aborts the handler chain with the error response for err.
func AbortWithError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	c.AbortWithStatusJSON(status, resp.WithTraceID(GetTraceID(c)))
}

// AbortWithErrorCode aborts the handler chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
