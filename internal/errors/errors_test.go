package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/vaultkv/internal/errors"
	"github.com/systmms/vaultkv/pkg/kv"
)

// TestUserErrorFormatting verifies UserError displays properly
func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Operation failed",
		Details:    "Connection timeout",
		Suggestion: "Check network connectivity",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "Operation failed")
	assert.Contains(t, errMsg, "Connection timeout")
	assert.Contains(t, errMsg, "Check network connectivity")
	assert.Contains(t, errMsg, "💡")
}

// TestConfigErrorFormatting verifies ConfigError displays with context
func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "address",
		Value:      "invalid-url",
		Message:    "Invalid URL format",
		Suggestion: "Use format: https://hostname:port",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "address")
	assert.Contains(t, errMsg, "invalid-url")
	assert.Contains(t, errMsg, "Invalid URL format")
	assert.Contains(t, errMsg, "https://hostname:port")
}

// TestStoreErrorSuggestions verifies failure classes map to actionable advice
func TestStoreErrorSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		err                error
		expectedSuggestion string
	}{
		{
			name:               "missing_token",
			err:                kv.AuthError{Message: "client handle has no token"},
			expectedSuggestion: "vaultkv login",
		},
		{
			name:               "not_found",
			err:                kv.NotFoundError{Path: "kv/foo"},
			expectedSuggestion: "vaultkv ls",
		},
		{
			name:               "redirect_loop",
			err:                kv.RedirectError{Method: "GET", URL: "https://standby:8200/v1/kv/foo", Budget: 2},
			expectedSuggestion: "active node",
		},
		{
			name:               "permission_denied",
			err:                kv.APIError{StatusCode: 403, Message: "permission denied"},
			expectedSuggestion: "policy",
		},
		{
			name:               "rate_limited",
			err:                kv.APIError{StatusCode: 429, Message: "throttled"},
			expectedSuggestion: "rate limiting",
		},
		{
			name:               "service_down",
			err:                kv.APIError{StatusCode: 503, Message: "sealed"},
			expectedSuggestion: "seal status",
		},
		{
			name:               "connection_refused",
			err:                fmt.Errorf("GET kv/foo: dial tcp: connection refused"),
			expectedSuggestion: "VAULT_ADDR",
		},
		{
			name:               "bad_certificate",
			err:                fmt.Errorf("GET kv/foo: x509: certificate signed by unknown authority"),
			expectedSuggestion: "ca_cert",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			storeErr := errors.StoreError("read", "kv/foo", tt.err)
			assert.Contains(t, storeErr.Error(), tt.expectedSuggestion)
		})
	}
}

// TestStoreErrorUnwrapsToCause verifies the typed cause survives wrapping
func TestStoreErrorUnwrapsToCause(t *testing.T) {
	t.Parallel()

	cause := kv.NotFoundError{Path: "kv/foo"}
	wrapped := errors.StoreError("read", "kv/foo", cause)

	assert.True(t, kv.IsNotFound(wrapped))
	var userErr errors.UserError
	assert.True(t, stderrors.As(wrapped, &userErr))
}

// TestSimplifyError verifies error simplification for common cases
func TestSimplifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		inputError    error
		expectedInMsg string
	}{
		{
			name:          "yaml_error",
			inputError:    fmt.Errorf("yaml: line 5: mapping values are not allowed"),
			expectedInMsg: "Invalid YAML",
		},
		{
			name:          "permission_denied",
			inputError:    fmt.Errorf("permission denied"),
			expectedInMsg: "Permission denied",
		},
		{
			name:          "file_not_found",
			inputError:    fmt.Errorf("no such file or directory"),
			expectedInMsg: "not found",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			simplified := errors.SimplifyError(tt.inputError)
			assert.Contains(t, simplified.Error(), tt.expectedInMsg)
		})
	}
}

// TestSimplifyStoreError verifies typed store failures gain a suggestion
func TestSimplifyStoreError(t *testing.T) {
	t.Parallel()

	simplified := errors.SimplifyError(kv.AuthError{Message: "client handle has no token"})
	assert.Contains(t, simplified.Error(), "vaultkv login")
	assert.Contains(t, simplified.Error(), "client handle has no token")

	// Failures with no advice pass through untouched.
	plain := kv.APIError{StatusCode: 400, Message: "bad request"}
	assert.Equal(t, error(plain), errors.SimplifyError(plain))
}

// TestSimplifyErrorKeepsUserErrors verifies already-friendly errors pass through
func TestSimplifyErrorKeepsUserErrors(t *testing.T) {
	t.Parallel()

	userErr := errors.UserError{Message: "already friendly"}
	assert.Equal(t, error(userErr), errors.SimplifyError(userErr))

	configErr := errors.ConfigError{Message: "already friendly"}
	assert.Equal(t, error(configErr), errors.SimplifyError(configErr))
}

// TestUserErrorUnwrap verifies error unwrapping works correctly
func TestUserErrorUnwrap(t *testing.T) {
	t.Parallel()

	baseErr := fmt.Errorf("base error")
	userErr := errors.UserError{
		Message: "wrapped error",
		Err:     baseErr,
	}

	unwrapped := userErr.Unwrap()
	assert.Equal(t, baseErr, unwrapped)
}

// TestNilErrorHandling verifies nil errors are handled gracefully
func TestNilErrorHandling(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.SimplifyError(nil))
}
