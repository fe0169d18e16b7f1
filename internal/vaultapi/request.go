package vaultapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/systmms/vaultkv/internal/logging"
	"github.com/systmms/vaultkv/pkg/kv"
)

// redirectBudget is the maximum number of redirect hops the pipeline
// follows before failing. It bounds latency and breaks redirect cycles.
const redirectBudget = 2

// request describes one call through the pipeline.
type request struct {
	method string
	path   string
	body   any         // serialized to JSON when non-nil
	list   bool        // sets the ?list=true query flag
	header http.Header // per-call headers; never override the auth header
}

// execute runs the pipeline: validate, attach auth, serialize, issue,
// follow redirects within budget, classify failures, normalize successes.
// The returned map is the normalized response envelope; it is nil for
// bodyless successes such as 204.
func (c *Client) execute(ctx context.Context, req request) (map[string]any, error) {
	if strings.Trim(req.path, kv.Separator) == "" {
		return nil, kv.ValidationError{Message: "path must be a non-empty string"}
	}

	// The token is read once; a concurrent swap of the cell does not
	// affect this request.
	token, ok := c.token.Token()
	if !ok {
		return nil, kv.AuthError{Message: "client handle has no token"}
	}

	var body []byte
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode request body: %w", req.method, req.path, err)
		}
		body = data
	}

	target := c.buildURL(req.path, req.list)
	originalURL := target

	for hop := 0; ; hop++ {
		httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bodyReader(body))
		if err != nil {
			return nil, fmt.Errorf("%s %s: build request: %w", req.method, req.path, err)
		}

		// Defaults first, then per-call headers, then auth: callers can
		// shadow defaults but never the token header.
		for k, values := range c.headers {
			for _, v := range values {
				httpReq.Header.Add(k, v)
			}
		}
		for k, values := range req.header {
			for _, v := range values {
				httpReq.Header.Set(k, v)
			}
		}
		if body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if c.namespace != "" {
			httpReq.Header.Set("X-Vault-Namespace", c.namespace)
		}
		httpReq.Header.Set("X-Vault-Token", token)

		c.logger.Debug("%s %s (hop %d, token %s)", req.method, target, hop, logging.Secret(token))

		resp, err := c.transport.Do(httpReq)
		if err != nil {
			// Connection-level failure with no status or body to
			// classify: pass it through with operation context only.
			return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
		}

		if resp.StatusCode == http.StatusSeeOther || resp.StatusCode == http.StatusTemporaryRedirect {
			location := resp.Header.Get("Location")
			drain(resp.Body)
			if location == "" {
				return nil, kv.APIError{
					StatusCode: resp.StatusCode,
					Message:    "redirect response without a Location header",
				}
			}
			if hop+1 > redirectBudget {
				return nil, kv.RedirectError{
					Method: req.method,
					URL:    originalURL,
					Budget: redirectBudget,
				}
			}
			target = location
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		closeErr := resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%s %s: read response body: %w", req.method, req.path, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("%s %s: close response body: %w", req.method, req.path, closeErr)
		}

		if resp.StatusCode >= 400 {
			return nil, classify(resp.StatusCode, respBody, req.path)
		}

		if len(bytes.TrimSpace(respBody)) == 0 {
			return nil, nil
		}

		var envelope map[string]any
		if err := json.Unmarshal(respBody, &envelope); err != nil {
			return nil, fmt.Errorf("%s %s: decode response body: %w", req.method, req.path, err)
		}
		return normalizeEnvelope(envelope), nil
	}
}

func (c *Client) buildURL(path string, list bool) string {
	u := c.baseURL + "/v1/" + strings.Trim(path, kv.Separator)
	if list {
		u += "?list=true"
	}
	return u
}

func bodyReader(body []byte) io.Reader {
	if body == nil {
		return nil
	}
	// A fresh reader per hop so redirects can re-send the body.
	return bytes.NewReader(body)
}

func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
