package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		setup    func() *AppError
		expected string
	}{
		{
			name: "ErrorWithoutCause",
			setup: func() *AppError {
				return New(ValidationError, "test validation error")
			},
			expected: "VALIDATION_ERROR: test validation error",
		},
		{
			name: "ErrorWithCause",
			setup: func() *AppError {
				cause := fmt.Errorf("connection refused")
				return Wrap(NetworkError, "fetching from Open-Meteo for 1,2", cause)
			},
			expected: "NETWORK_ERROR: fetching from Open-Meteo for 1,2 (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup()
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("original error")
	err := NewDecodeError("bad body", cause)
	assert.Equal(t, cause, err.Unwrap())
	assert.Nil(t, NewNotFoundError("missing").Unwrap())
}

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  string
	}{
		{ErrorTypeValidation, "VALIDATION_ERROR"},
		{ErrorTypeNotFound, "NOT_FOUND_ERROR"},
		{ErrorTypeNetwork, "NETWORK_ERROR"},
		{ErrorTypeUpstream, "UPSTREAM_ERROR"},
		{ErrorTypeDecode, "DECODE_ERROR"},
		{ErrorTypeExternalAPI, "EXTERNAL_API_ERROR"},
		{ErrorTypeDatabase, "DATABASE_ERROR"},
		{ErrorTypeConfiguration, "CONFIGURATION_ERROR"},
		{ErrorTypeUnknown, "UNKNOWN_ERROR"},
		{ErrorType(99), "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.errorType.String())
		})
	}
}

func TestTypeOf_WrappedChain(t *testing.T) {
	inner := NewUpstreamError("fetching from Pirate Weather for 1,2: forbidden", nil)
	wrapped := fmt.Errorf("get forecast: %w", inner)

	assert.Equal(t, ErrorTypeUpstream, TypeOf(wrapped))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(fmt.Errorf("plain")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(nil))
}

func TestIsFetchError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Network", NewNetworkError("n", nil), true},
		{"Upstream", NewUpstreamError("u", nil), true},
		{"Decode", NewDecodeError("d", nil), true},
		{"WrappedDecode", fmt.Errorf("wrap: %w", NewDecodeError("d", nil)), true},
		{"Validation", NewValidationError("v"), false},
		{"ExternalAPI", NewExternalAPIError("redis", nil), false},
		{"Plain", fmt.Errorf("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFetchError(tt.err))
		})
	}
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError("v")))
	assert.True(t, IsNotFoundError(NewNotFoundError("n")))
	assert.True(t, IsExternalAPIError(NewExternalAPIError("e", nil)))
	assert.True(t, IsDatabaseError(NewDatabaseError("d", nil)))
	assert.True(t, IsConfigurationError(NewConfigurationError("c", nil)))
	assert.False(t, IsNotFoundError(NewValidationError("v")))
}
