package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/vaultkv/internal/config"
	vkerrors "github.com/systmms/vaultkv/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaultkv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	cfg := config.Config{Path: writeConfig(t, `
version: 0
address: https://vault.example.com:8200
namespace: team-a
timeout_ms: 5000
tls:
  ca_cert: /etc/ssl/vault-ca.pem
  skip_verify: false
auth:
  use_keyring: false
`)}
	require.NoError(t, cfg.Load())

	def := cfg.Definition
	assert.Equal(t, "https://vault.example.com:8200", def.Address)
	assert.Equal(t, "team-a", def.Namespace)
	assert.Equal(t, 5000, def.GetTimeoutMs())
	assert.Equal(t, "/etc/ssl/vault-ca.pem", def.TLS.CACert)
	assert.False(t, def.KeyringEnabled())
}

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Config{Path: writeConfig(t, "version: 0\n")}
	require.NoError(t, cfg.Load())

	assert.Equal(t, config.DefaultTimeoutMs, cfg.Definition.GetTimeoutMs())
	assert.True(t, cfg.Definition.KeyringEnabled(), "keyring defaults to enabled")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	cfg := config.Config{Path: filepath.Join(t.TempDir(), "nope.yaml")}
	err := cfg.Load()

	var configErr vkerrors.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "path", configErr.Field)
}

func TestLoad_MissingDefaultFileUsesEnvironment(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("VAULT_ADDR", "https://env.example.com:8200")

	cfg := config.Config{Path: config.DefaultPath}
	require.NoError(t, cfg.Load())
	assert.Equal(t, "https://env.example.com:8200", cfg.Definition.Address)
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfg := config.Config{Path: writeConfig(t, "version: [unclosed\n")}
	err := cfg.Load()

	var configErr vkerrors.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, err.Error(), "YAML")
}

func TestLoad_SchemaRejectsUnknownFields(t *testing.T) {
	cfg := config.Config{Path: writeConfig(t, `
version: 0
adress: https://typo.example.com:8200
`)}
	err := cfg.Load()

	var configErr vkerrors.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, err.Error(), "adress")
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	cfg := config.Config{Path: writeConfig(t, "version: 7\n")}
	err := cfg.Load()

	var configErr vkerrors.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, err.Error(), "version")
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("VAULT_ADDR", "https://env.example.com:8200")
	t.Setenv("VAULT_NAMESPACE", "env-ns")
	t.Setenv("VAULT_SKIP_VERIFY", "true")

	cfg := config.Config{Path: writeConfig(t, `
version: 0
address: https://file.example.com:8200
namespace: file-ns
`)}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "https://env.example.com:8200", cfg.Definition.Address)
	assert.Equal(t, "env-ns", cfg.Definition.Namespace)
	assert.True(t, cfg.Definition.TLS.SkipVerify)
}

func TestRequireAddress(t *testing.T) {
	def := &config.Definition{}
	_, err := def.RequireAddress()

	var configErr vkerrors.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, err.Error(), "VAULT_ADDR")

	def.Address = "https://vault.example.com:8200"
	addr, err := def.RequireAddress()
	require.NoError(t, err)
	assert.Equal(t, "https://vault.example.com:8200", addr)
}
