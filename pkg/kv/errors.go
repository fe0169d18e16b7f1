package kv

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError indicates a malformed request that was rejected before
// any backend activity, such as an empty path.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return "validation failed: " + e.Message
}

// AuthError indicates the client handle carries no usable credential. It is
// raised locally, before any network activity.
type AuthError struct {
	Message string
}

// Error implements the error interface.
func (e AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// APIError is a classified failure from the secret store service. It
// carries the HTTP status and the individual error strings the service
// reported, joined into Message for display.
type APIError struct {
	// StatusCode is the HTTP status the service answered with.
	StatusCode int

	// Errors holds the individual error strings from the response body,
	// when the body carried a recognizable errors list.
	Errors []string

	// Message is the joined error strings, or a dump of the raw body when
	// no errors list was present.
	Message string
}

// Error implements the error interface.
func (e APIError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// NotFoundError indicates the target path holds no secret. Both backends
// return it with their own wording; callers should match it with IsNotFound
// rather than comparing messages.
type NotFoundError struct {
	// Path is the path that held no secret.
	Path string

	// Message is the backend-specific wording. When empty, a generic
	// message is rendered from Path.
	Message string
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "no secret at path " + e.Path
}

// RedirectError indicates the service kept redirecting past the fixed
// redirect budget. It is fatal; the request that would exceed the budget is
// never issued.
type RedirectError struct {
	Method string
	URL    string
	Budget int
}

// Error implements the error interface.
func (e RedirectError) Error() string {
	return fmt.Sprintf("%s %s: redirect budget of %d exhausted", e.Method, e.URL, e.Budget)
}

// IsNotFound reports whether err, at any depth of wrapping, is a
// NotFoundError from either backend.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// JoinErrorStrings renders a service errors list the way APIError.Message
// expects it.
func JoinErrorStrings(msgs []string) string {
	return strings.Join(msgs, ", ")
}
