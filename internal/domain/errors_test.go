package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrValidation,
		ErrForbidden,
		ErrUnavailable,
		ErrMalformedResponse,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			entity:      "voice",
			id:          "Aoede",
			expectedMsg: `voice with id "Aoede" not found`,
		},
		{
			name:        "with entity only",
			entity:      "model",
			expectedMsg: "model not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		message     string
		expectedMsg string
	}{
		{
			name:        "with field",
			field:       "subject",
			message:     "Subject cannot be empty",
			expectedMsg: "validation failed for subject: Subject cannot be empty",
		},
		{
			name:        "without field",
			message:     "general validation error",
			expectedMsg: "validation failed: general validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrValidation)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
			assert.Equal(t, tt.message, validation.Message)
		})
	}
}

func TestForbiddenError(t *testing.T) {
	assert.Equal(t, `operation "save settings" forbidden: missing subject`,
		NewForbiddenError("save settings", "missing subject").Error())
	assert.Equal(t, `operation "save settings" forbidden`,
		NewForbiddenError("save settings", "").Error())
	assert.ErrorIs(t, NewForbiddenError("x", ""), ErrForbidden)
}

func TestUnavailableError(t *testing.T) {
	tests := []struct {
		name        string
		service     string
		reason      string
		expectedMsg string
	}{
		{
			name:        "with reason",
			service:     "language-model",
			reason:      "no choices returned",
			expectedMsg: `service "language-model" unavailable: no choices returned`,
		},
		{
			name:        "without reason",
			service:     "speech",
			expectedMsg: `service "speech" unavailable`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUnavailableError(tt.service, tt.reason)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrUnavailable)

			var unavailable *UnavailableError
			require.ErrorAs(t, err, &unavailable)
			assert.Equal(t, tt.service, unavailable.Service)
		})
	}
}

func TestParseError(t *testing.T) {
	t.Run("syntax error keeps cause", func(t *testing.T) {
		cause := errors.New("unexpected token")
		err := newSyntaxError(cause)

		assert.Equal(t, "syntax error: response is not valid JSON: unexpected token", err.Error())
		require.ErrorIs(t, err, ErrMalformedResponse)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, ParseErrorSyntax, parseErr.Kind)
		assert.Equal(t, cause, parseErr.Cause)
	})

	t.Run("structure error formats reason", func(t *testing.T) {
		err := newStructureError("element %d is missing %q", 2, "context")

		assert.Equal(t, `structure error: element 2 is missing "context"`, err.Error())

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, ParseErrorStructure, parseErr.Kind)
	})
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound with NotFoundError", NewNotFoundError("voice", "x"), IsNotFound, true},
		{"IsNotFound with wrapped", fmt.Errorf("wrapped: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound with other error", ErrValidation, IsNotFound, false},
		{"IsNotFound with nil", nil, IsNotFound, false},

		{"IsValidation with ValidationError", NewValidationError("subject", "empty"), IsValidation, true},
		{"IsValidation with wrapped", fmt.Errorf("wrapped: %w", ErrValidation), IsValidation, true},
		{"IsValidation with other error", ErrNotFound, IsValidation, false},

		{"IsForbidden with ForbiddenError", NewForbiddenError("save", ""), IsForbidden, true},
		{"IsForbidden with other error", ErrNotFound, IsForbidden, false},

		{"IsUnavailable with UnavailableError", NewUnavailableError("llm", "timeout"), IsUnavailable, true},
		{"IsUnavailable with wrapped", fmt.Errorf("wrapped: %w", ErrUnavailable), IsUnavailable, true},
		{"IsUnavailable with nil", nil, IsUnavailable, false},

		{"IsMalformedResponse with ParseError", newStructureError("empty"), IsMalformedResponse, true},
		{"IsMalformedResponse with other error", ErrUnavailable, IsMalformedResponse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	original := NewValidationError("subject", "Subject cannot be empty")
	wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", original))

	assert.True(t, IsValidation(wrapped))

	var validation *ValidationError
	require.ErrorAs(t, wrapped, &validation)
	assert.Equal(t, "subject", validation.Field)
}
