package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultkv/internal/config"
	vkerrors "github.com/systmms/vaultkv/internal/errors"
	"github.com/systmms/vaultkv/pkg/kv"
)

func NewPutCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <path> <field>=<value> [<field>=<value>...]",
		Short: "Write a secret",
		Long: `Write a secret at a path, replacing whatever was stored there.

Fields are given as name=value pairs. A name:=value pair parses the value
as JSON, for numbers, booleans, and structured values.

Examples:
  vaultkv put kv/app/creds api_key=xyz
  vaultkv put kv/app/limits retries:=3 enabled:=true
  vaultkv put kv/app/endpoints urls:='["a","b"]'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			secret, err := parseFields(args[1:])
			if err != nil {
				return err
			}

			if err := cfg.Load(); err != nil {
				return err
			}

			store, err := newStore(cfg)
			if err != nil {
				return err
			}

			if _, err := store.Write(cmd.Context(), path, secret); err != nil {
				return vkerrors.StoreError("write", path, err)
			}

			logger(cfg).Info("wrote %d field(s) to %s", len(secret), path)
			return nil
		},
	}

	return cmd
}

// parseFields turns name=value and name:=json pairs into a secret.
func parseFields(pairs []string) (kv.Secret, error) {
	secret := make(kv.Secret, len(pairs))
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, vkerrors.UserError{
				Message:    fmt.Sprintf("Invalid field pair: %q", pair),
				Suggestion: "Use <field>=<value> for strings or <field>:=<json> for typed values",
			}
		}

		if strings.HasSuffix(name, ":") {
			name = strings.TrimSuffix(name, ":")
			var typed any
			if err := json.Unmarshal([]byte(value), &typed); err != nil {
				return nil, vkerrors.UserError{
					Message:    fmt.Sprintf("Field '%s' has invalid JSON value: %q", name, value),
					Suggestion: "Quote JSON values in the shell, e.g. urls:='[\"a\"]'",
				}
			}
			secret[name] = typed
			continue
		}
		secret[name] = value
	}
	return secret, nil
}
