package vaultapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/systmms/vaultkv/pkg/kv"
)

// errorBody is the failure shape the service emits for >=400 responses.
type errorBody struct {
	Errors []string `json:"errors"`
}

// classify converts an HTTP failure into the typed taxonomy. A 404 becomes
// a NotFoundError; any other status with a recognizable errors list (or a
// raw body as a last resort) becomes an APIError. Classification never
// invents detail: whatever the body carried is preserved.
func classify(status int, body []byte, path string) error {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		parsed.Errors = nil
	}

	message := kv.JoinErrorStrings(parsed.Errors)
	if len(parsed.Errors) == 0 {
		message = strings.TrimSpace(string(body))
	}

	if status == http.StatusNotFound {
		wording := "service returned 404 Not Found for " + path
		if message != "" {
			wording += ": " + message
		}
		return kv.NotFoundError{Path: path, Message: wording}
	}

	return kv.APIError{
		StatusCode: status,
		Errors:     parsed.Errors,
		Message:    message,
	}
}
