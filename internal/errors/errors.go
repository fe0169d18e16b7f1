package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/vaultkv/pkg/kv"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// StoreError enhances a secret-store failure with context and a suggestion
// derived from the failure class.
func StoreError(operation, path string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("%s %s failed", operation, path),
		Suggestion: getStoreSuggestion(err),
		Err:        err,
	}
}

// getStoreSuggestion returns helpful suggestions based on the failure class
func getStoreSuggestion(err error) string {
	var authErr kv.AuthError
	if errors.As(err, &authErr) {
		return "Run 'vaultkv login' or set VAULT_TOKEN"
	}

	if kv.IsNotFound(err) {
		return "Verify the path. Use 'vaultkv ls <parent>' to see what exists"
	}

	var redirectErr kv.RedirectError
	if errors.As(err, &redirectErr) {
		return "The service keeps redirecting. Point the address at the active node, not a standby"
	}

	var apiErr kv.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 403:
			return "Your token lacks a policy for this path, or has expired. Re-run 'vaultkv login'"
		case 429:
			return "The service is rate limiting. Wait a moment and try again"
		case 500, 502, 503:
			return "The service is unhealthy. Check its seal status and logs"
		}
		return ""
	}

	errStr := err.Error()
	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check the service address (VAULT_ADDR or the address config field)"
	}
	if strings.Contains(errStr, "certificate") {
		return "TLS verification failed. Set tls.ca_cert to the service's CA bundle"
	}

	return ""
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	// Already a user-friendly error
	if _, ok := err.(UserError); ok {
		return err
	}
	if _, ok := err.(ConfigError); ok {
		return err
	}

	// Typed store failures read fine on their own; attach a suggestion when
	// one applies.
	var vErr kv.ValidationError
	var authErr kv.AuthError
	var apiErr kv.APIError
	var redirectErr kv.RedirectError
	if errors.As(err, &vErr) || errors.As(err, &authErr) ||
		errors.As(err, &apiErr) || errors.As(err, &redirectErr) || kv.IsNotFound(err) {
		if suggestion := getStoreSuggestion(err); suggestion != "" {
			return UserError{Message: err.Error(), Suggestion: suggestion, Err: err}
		}
		return err
	}

	// Simplify common technical errors
	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	// Return original error if we can't simplify it
	return err
}
