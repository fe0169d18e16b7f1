package commands

import (
	"os"
	"time"

	"github.com/systmms/vaultkv/internal/config"
	vkerrors "github.com/systmms/vaultkv/internal/errors"
	"github.com/systmms/vaultkv/internal/logging"
	"github.com/systmms/vaultkv/internal/memstore"
	"github.com/systmms/vaultkv/internal/secure"
	"github.com/systmms/vaultkv/internal/tokenstore"
	"github.com/systmms/vaultkv/internal/vaultapi"
	"github.com/systmms/vaultkv/pkg/kv"
)

// newStore builds the backend the data commands run against: the in-memory
// store when --mem names a fixture, the live client otherwise. The result
// is cached on the config so one process keeps one backend.
func newStore(cfg *config.Config) (kv.Store, error) {
	if cfg.Store != nil {
		return cfg.Store, nil
	}

	var (
		store kv.Store
		err   error
	)
	if cfg.MemFixture != "" {
		store, err = newMemStore(cfg)
	} else {
		store, err = newLiveClient(cfg)
	}
	if err != nil {
		return nil, err
	}
	cfg.Store = store
	return store, nil
}

func newMemStore(cfg *config.Config) (*memstore.Store, error) {
	data, err := os.ReadFile(cfg.MemFixture)
	if err != nil {
		return nil, vkerrors.UserError{
			Message:    "Failed to read in-memory fixture",
			Details:    err.Error(),
			Suggestion: "Point --mem at a YAML file with a 'secrets:' mapping of paths to fields",
			Err:        err,
		}
	}

	store := memstore.New()
	if err := store.SeedFromYAML(data); err != nil {
		return nil, vkerrors.UserError{
			Message:    "Failed to parse in-memory fixture",
			Details:    err.Error(),
			Suggestion: "Check the fixture's YAML syntax",
			Err:        err,
		}
	}
	return store, nil
}

// newLiveClient wires configuration, transport, and token resolution into a
// ready client handle.
func newLiveClient(cfg *config.Config) (*vaultapi.Client, error) {
	def := cfg.Definition
	address, err := def.RequireAddress()
	if err != nil {
		return nil, err
	}

	cell := secure.NewTokenCell()
	token, source, err := resolveToken(cfg, address)
	if err != nil {
		return nil, err
	}
	if token != "" {
		cell.Set(token)
		logger(cfg).Debug("using token from %s", source)
	}

	transport, err := vaultapi.NewHTTPClient(
		time.Duration(def.GetTimeoutMs())*time.Millisecond,
		vaultapi.TLSOptions{
			CACertFile:     def.TLS.CACert,
			ClientCertFile: def.TLS.ClientCert,
			ClientKeyFile:  def.TLS.ClientKey,
			SkipVerify:     def.TLS.SkipVerify,
		},
	)
	if err != nil {
		return nil, err
	}

	return vaultapi.New(address, cell,
		vaultapi.WithTransport(transport),
		vaultapi.WithLogger(logger(cfg)),
		vaultapi.WithNamespace(def.Namespace),
	)
}

// resolveToken finds a token for address: VAULT_TOKEN wins, then the OS
// keyring when enabled. An empty token is not an error here; the pipeline
// reports the missing credential when a request is attempted.
func resolveToken(cfg *config.Config, address string) (token, source string, err error) {
	if env := os.Getenv("VAULT_TOKEN"); env != "" {
		return env, "VAULT_TOKEN", nil
	}

	if cfg.Definition.KeyringEnabled() {
		stored, err := tokenstore.Load(address)
		if err == nil {
			return stored, "keyring", nil
		}
		if err != tokenstore.ErrNoToken {
			logger(cfg).Warn("keyring lookup failed: %v", err)
		}
	}
	return "", "", nil
}

func logger(cfg *config.Config) *logging.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logging.New(false, true)
}
