// Package config loads the vaultkv.yaml client configuration: service
// address, namespace, TLS material, and token-resolution preferences.
// Environment variables override the file so the tool works with the same
// variables the official clients honor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	vkerrors "github.com/systmms/vaultkv/internal/errors"
	"github.com/systmms/vaultkv/internal/logging"
	"github.com/systmms/vaultkv/pkg/kv"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = "vaultkv.yaml"

// DefaultTimeoutMs bounds one request when the file does not say otherwise.
const DefaultTimeoutMs = 30000

// Definition represents the vaultkv.yaml structure
type Definition struct {
	Version   int        `yaml:"version" json:"version"`
	Address   string     `yaml:"address,omitempty" json:"address,omitempty"`
	Namespace string     `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	TimeoutMs int        `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`
	TLS       TLSConfig  `yaml:"tls,omitempty" json:"tls,omitempty"`
	Auth      AuthConfig `yaml:"auth,omitempty" json:"auth,omitempty"`
}

// TLSConfig carries the transport-level TLS knobs.
type TLSConfig struct {
	CACert     string `yaml:"ca_cert,omitempty" json:"ca_cert,omitempty"`
	ClientCert string `yaml:"client_cert,omitempty" json:"client_cert,omitempty"`
	ClientKey  string `yaml:"client_key,omitempty" json:"client_key,omitempty"`
	SkipVerify bool   `yaml:"skip_verify,omitempty" json:"skip_verify,omitempty"`
}

// AuthConfig controls where the client finds its token when no flag or
// environment variable supplies one.
type AuthConfig struct {
	// UseKeyring enables the OS keyring as a token source and as the
	// destination of the login command. Defaults to true.
	UseKeyring *bool `yaml:"use_keyring,omitempty" json:"use_keyring,omitempty"`
}

// Config wraps a loaded Definition together with its source path and the
// process-wide pieces the commands share.
type Config struct {
	Path       string
	Definition *Definition
	Logger     *logging.Logger

	// Flag overrides layered above both the file and the environment.
	AddressOverride string
	MemFixture      string

	// Store, when non-nil, is the backend commands run against. The
	// in-memory mode populates it so one process keeps one tree.
	Store kv.Store
}

// schema is the JSON-schema contract for vaultkv.yaml, embedded so the
// binary validates configuration without a schemas directory on disk.
const schema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["version"],
	"additionalProperties": false,
	"properties": {
		"version": {"type": "integer", "enum": [0]},
		"address": {"type": "string"},
		"namespace": {"type": "string"},
		"timeout_ms": {"type": "integer", "minimum": 1},
		"tls": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"ca_cert": {"type": "string"},
				"client_cert": {"type": "string"},
				"client_key": {"type": "string"},
				"skip_verify": {"type": "boolean"}
			}
		},
		"auth": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"use_keyring": {"type": "boolean"}
			}
		}
	}
}`

// Load reads and parses the vaultkv.yaml file. A missing file is not an
// error when the path is the default: the environment alone can carry a
// full configuration.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if c.Path == DefaultPath {
				c.Definition = &Definition{}
				c.applyOverrides()
				return nil
			}
			return vkerrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Create a vaultkv.yaml with at least 'version: 0' and 'address'",
			}
		}
		return vkerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return vkerrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	if err := validate(def); err != nil {
		return err
	}

	c.Definition = &def
	c.applyOverrides()
	return nil
}

// applyOverrides layers the environment over the file, then explicit flags
// over both.
func (c *Config) applyOverrides() {
	c.applyEnvironment()
	if c.AddressOverride != "" {
		c.Definition.Address = c.AddressOverride
	}
}

// validate checks the parsed definition against the embedded schema.
func validate(def Definition) error {
	jsonData, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return vkerrors.ConfigError{
			Message:    "configuration does not match the expected shape:\n  - " + strings.Join(messages, "\n  - "),
			Suggestion: "Compare your vaultkv.yaml against the documented fields",
		}
	}

	if def.Version != 0 {
		return vkerrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your vaultkv.yaml file",
		}
	}
	return nil
}

// applyEnvironment layers the standard environment variables over the file.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("VAULT_ADDR"); v != "" {
		c.Definition.Address = v
	}
	if v := os.Getenv("VAULT_NAMESPACE"); v != "" {
		c.Definition.Namespace = v
	}
	if v := os.Getenv("VAULT_CACERT"); v != "" {
		c.Definition.TLS.CACert = v
	}
	if v := os.Getenv("VAULT_CLIENT_CERT"); v != "" {
		c.Definition.TLS.ClientCert = v
	}
	if v := os.Getenv("VAULT_CLIENT_KEY"); v != "" {
		c.Definition.TLS.ClientKey = v
	}
	if v := os.Getenv("VAULT_SKIP_VERIFY"); v == "1" || strings.EqualFold(v, "true") {
		c.Definition.TLS.SkipVerify = true
	}
}

// GetTimeoutMs returns the configured request timeout, applying the default.
func (d *Definition) GetTimeoutMs() int {
	if d.TimeoutMs <= 0 {
		return DefaultTimeoutMs
	}
	return d.TimeoutMs
}

// KeyringEnabled reports whether the OS keyring participates in token
// resolution. Unset means enabled.
func (d *Definition) KeyringEnabled() bool {
	if d.Auth.UseKeyring == nil {
		return true
	}
	return *d.Auth.UseKeyring
}

// RequireAddress returns the service address or a ConfigError naming the
// ways to supply one.
func (d *Definition) RequireAddress() (string, error) {
	if d.Address == "" {
		return "", vkerrors.ConfigError{
			Field:      "address",
			Message:    "no service address configured",
			Suggestion: "Set 'address' in vaultkv.yaml, export VAULT_ADDR, or pass --address",
		}
	}
	return d.Address, nil
}
