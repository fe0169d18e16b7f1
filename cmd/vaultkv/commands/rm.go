package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/vaultkv/internal/config"
	vkerrors "github.com/systmms/vaultkv/internal/errors"
)

func NewRmCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a secret",
		Long: `Delete the secret at a path. Deeper paths below it are untouched,
and deleting a path that holds nothing succeeds quietly.

Examples:
  vaultkv rm kv/app/creds`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if err := cfg.Load(); err != nil {
				return err
			}

			store, err := newStore(cfg)
			if err != nil {
				return err
			}

			if _, err := store.Delete(cmd.Context(), path); err != nil {
				return vkerrors.StoreError("delete", path, err)
			}

			logger(cfg).Info("deleted %s", path)
			return nil
		},
	}

	return cmd
}
