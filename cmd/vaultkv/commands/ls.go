package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultkv/internal/config"
	vkerrors "github.com/systmms/vaultkv/internal/errors"
)

func NewLsCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ls <path>",
		Short: "List the immediate children of a path",
		Long: `List the keys directly under a path. Children that only contain
deeper paths carry a trailing slash; children holding a secret do not.

Examples:
  vaultkv ls kv/app
  vaultkv ls kv/app --json
  vaultkv ls kv/app --mem fixtures.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			store, err := newStore(cfg)
			if err != nil {
				return err
			}

			names, err := store.List(cmd.Context(), args[0])
			if err != nil {
				return vkerrors.StoreError("list", args[0], err)
			}

			if jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				return encoder.Encode(names)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as a JSON array")

	return cmd
}
