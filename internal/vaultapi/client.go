// Package vaultapi implements the kv.Store contract against a live KV v1
// service over HTTP. It owns the request pipeline: auth header injection,
// JSON body handling, bounded redirect following, response-envelope
// normalization, and error classification.
package vaultapi

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/systmms/vaultkv/internal/logging"
	"github.com/systmms/vaultkv/internal/secure"
)

// DefaultTimeout bounds a single request, including followed redirects,
// when the default transport is used.
const DefaultTimeout = 30 * time.Second

// Doer issues a single HTTP request. *http.Client satisfies it; tests
// substitute request-asserting stubs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a handle on one KV v1 service. Handles are created once and
// reused; the token cell may be swapped by the authentication flow at any
// time without invalidating the handle. Client is safe for concurrent use.
type Client struct {
	baseURL   string
	namespace string
	token     *secure.TokenCell
	transport Doer
	logger    *logging.Logger
	headers   http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithTransport overrides the transport the pipeline issues calls on.
func WithTransport(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.transport = d
		}
	}
}

// WithLogger overrides the client's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNamespace sets the X-Vault-Namespace header on every request.
func WithNamespace(namespace string) Option {
	return func(c *Client) {
		c.namespace = namespace
	}
}

// WithHeaders adds default headers to every request. The auth header cannot
// be overridden this way.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, values := range h {
			for _, v := range values {
				c.headers.Add(k, v)
			}
		}
	}
}

// New creates a client for the service at address. The token cell is shared
// by reference; the caller (or the login flow) populates and refreshes it.
func New(address string, token *secure.TokenCell, opts ...Option) (*Client, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("vaultapi: service address is required")
	}
	parsed, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("vaultapi: invalid service address: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("vaultapi: service address must be http or https, got %q", address)
	}
	if token == nil {
		token = secure.NewTokenCell()
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(address, "/"),
		token:     token,
		transport: &http.Client{Timeout: DefaultTimeout, CheckRedirect: noFollow},
		logger:    logging.New(false, false),
		headers:   make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address returns the configured service address.
func (c *Client) Address() string {
	return c.baseURL
}

// TLSOptions configures transport-level TLS for NewHTTPClient.
type TLSOptions struct {
	CACertFile     string
	ClientCertFile string
	ClientKeyFile  string
	SkipVerify     bool
}

// noFollow disables the transport's own redirect handling. The pipeline
// follows redirects itself so it can enforce the hop budget and keep the
// auth header on re-issued requests.
func noFollow(req *http.Request, via []*http.Request) error {
	return http.ErrUseLastResponse
}

// NewHTTPClient builds an *http.Client for use as the transport, applying
// the TLS knobs from configuration. A zero TLSOptions yields a plain client.
func NewHTTPClient(timeout time.Duration, opts TLSOptions) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout, CheckRedirect: noFollow}

	if !opts.SkipVerify && opts.CACertFile == "" && opts.ClientCertFile == "" {
		return client, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: opts.SkipVerify,
	}

	if opts.CACertFile != "" {
		pem, err := os.ReadFile(opts.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("vaultapi: read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("vaultapi: no certificates found in %s", opts.CACertFile)
		}
		tlsConfig.RootCAs = pool
	}

	if opts.ClientCertFile != "" {
		cert, err := tls.LoadX509KeyPair(opts.ClientCertFile, opts.ClientKeyFile)
		if err != nil {
			return nil, fmt.Errorf("vaultapi: load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	client.Transport = &http.Transport{TLSClientConfig: tlsConfig}
	return client, nil
}
