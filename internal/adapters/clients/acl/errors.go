package acl

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/jsamuelsen/quote-reader/internal/adapters/clients"
	"github.com/jsamuelsen/quote-reader/internal/domain"
)

// maxErrorBody bounds how much of an error body is read.
const maxErrorBody = 64 << 10

// ErrorResponse is the Google API error envelope:
//
//	{"error": {"code": 403, "message": "...", "status": "PERMISSION_DENIED"}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information from Google APIs.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Canonical Google API status values that map to domain errors.
const (
	StatusNotFound          = "NOT_FOUND"
	StatusInvalidArgument   = "INVALID_ARGUMENT"
	StatusPermissionDenied  = "PERMISSION_DENIED"
	StatusUnauthenticated   = "UNAUTHENTICATED"
	StatusResourceExhausted = "RESOURCE_EXHAUSTED"
)

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty or cannot be parsed.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return nil
	}

	var errResp ErrorResponse
	if err := sonic.Unmarshal(raw, &errResp); err != nil {
		return nil
	}

	if errResp.Error.Message == "" && errResp.Error.Status == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError maps an HTTP response or client error to a domain error.
// resp may be nil when clientErr is set. A 2xx response maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var errResp *ErrorResponse
	if resp.Body != nil {
		errResp = ParseErrorResponse(resp.Body)
	}

	if errResp != nil && errResp.Error.Status != "" {
		return MapStatus(errResp.Error.Status, errResp.Error.Message, serviceName, operation, resp.StatusCode)
	}

	return mapStatusCode(resp.StatusCode, errResp, serviceName, operation)
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

func mapStatusCode(status int, errResp *ErrorResponse, serviceName, operation string) error {
	message := defaultMessageForStatus(status, operation)
	if errResp != nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewNotFoundError(serviceName, "")

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.NewValidationError("", message)

	case http.StatusForbidden:
		return domain.NewForbiddenError(operation, message)

	case http.StatusUnauthorized:
		return domain.NewForbiddenError(operation, "authentication required")

	case http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")

	default:
		if status >= http.StatusInternalServerError {
			return domain.NewUnavailableError(serviceName, message)
		}

		return domain.NewValidationError("", message)
	}
}

func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusUnauthorized:
		return "authentication required"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}

// MapStatus maps a canonical Google status string to a domain error.
// Unknown statuses fall back to the HTTP status code mapping.
func MapStatus(status, message, serviceName, operation string, httpStatus int) error {
	switch status {
	case StatusNotFound:
		return domain.NewNotFoundError(serviceName, "")
	case StatusInvalidArgument:
		return domain.NewValidationError("", message)
	case StatusPermissionDenied:
		return domain.NewForbiddenError(operation, message)
	case StatusUnauthenticated:
		return domain.NewForbiddenError(operation, "authentication required")
	case StatusResourceExhausted:
		return domain.NewUnavailableError(serviceName, "quota exceeded: "+message)
	default:
		return mapStatusCode(httpStatus, &ErrorResponse{Error: ErrorDetail{Message: message}}, serviceName, operation)
	}
}
