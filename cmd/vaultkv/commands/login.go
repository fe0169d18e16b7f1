package commands

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultkv/internal/config"
	vkerrors "github.com/systmms/vaultkv/internal/errors"
	"github.com/systmms/vaultkv/internal/secure"
	"github.com/systmms/vaultkv/internal/tokenstore"
	"github.com/systmms/vaultkv/internal/vaultapi"
)

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var (
		tokenStdin bool
		noVerify   bool
		forget     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a service token for later commands",
		Long: `Verify a token against the service and store it in the OS keyring,
so later commands authenticate without VAULT_TOKEN in the environment.

The token comes from --token-stdin or the VAULT_TOKEN variable. Tokens are
stored per service address.

Examples:
  # Paste a token without leaving it in shell history
  vaultkv login --token-stdin < token.txt

  # Persist the token currently in the environment
  VAULT_TOKEN=s.xyz vaultkv login

  # Drop the stored token for the configured address
  vaultkv login --forget`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			address, err := cfg.Definition.RequireAddress()
			if err != nil {
				return err
			}

			if forget {
				if err := tokenstore.Forget(address); err != nil {
					return err
				}
				logger(cfg).Info("forgot stored token for %s", address)
				return nil
			}

			token, err := readLoginToken(tokenStdin)
			if err != nil {
				return err
			}

			if !noVerify {
				if err := verifyToken(cmd, cfg, address, token); err != nil {
					return err
				}
			}

			if !cfg.Definition.KeyringEnabled() {
				return vkerrors.ConfigError{
					Field:      "auth.use_keyring",
					Value:      false,
					Message:    "keyring storage is disabled",
					Suggestion: "Remove 'use_keyring: false' from vaultkv.yaml, or keep using VAULT_TOKEN",
				}
			}
			if err := tokenstore.Save(address, token); err != nil {
				return err
			}

			logger(cfg).Info("stored token for %s", address)
			return nil
		},
	}

	cmd.Flags().BoolVar(&tokenStdin, "token-stdin", false, "Read the token from standard input")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip the token lookup check before storing")
	cmd.Flags().BoolVar(&forget, "forget", false, "Remove the stored token for this address")

	return cmd
}

func readLoginToken(fromStdin bool) (string, error) {
	if fromStdin {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", vkerrors.UserError{
				Message:    "Failed to read token from standard input",
				Details:    err.Error(),
				Suggestion: "Pipe or paste the token followed by a newline",
			}
		}
		token := strings.TrimSpace(line)
		if token == "" {
			return "", vkerrors.UserError{
				Message:    "Empty token on standard input",
				Suggestion: "Pipe the token into 'vaultkv login --token-stdin'",
			}
		}
		return token, nil
	}

	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		return token, nil
	}
	return "", vkerrors.UserError{
		Message:    "No token supplied",
		Suggestion: "Use --token-stdin or export VAULT_TOKEN",
	}
}

// verifyToken performs a self-lookup with the candidate token before it is
// persisted, so a typo fails here rather than on the next read.
func verifyToken(cmd *cobra.Command, cfg *config.Config, address, token string) error {
	cell := secure.NewTokenCell()
	cell.Set(token)

	client, err := vaultapi.New(address, cell, vaultapi.WithLogger(logger(cfg)))
	if err != nil {
		return err
	}

	envelope, err := client.LookupSelf(cmd.Context())
	if err != nil {
		return vkerrors.UserError{
			Message:    "Token verification failed",
			Details:    err.Error(),
			Suggestion: "Check the token and the service address, or use --no-verify to store it anyway",
			Err:        err,
		}
	}

	if data, ok := envelope["data"].(map[string]any); ok {
		if name, ok := data["display_name"].(string); ok && name != "" {
			logger(cfg).Info("token verified (display name: %s)", name)
			return nil
		}
	}
	logger(cfg).Info("token verified")
	return nil
}
