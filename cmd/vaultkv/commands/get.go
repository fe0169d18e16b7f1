package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultkv/internal/config"
	vkerrors "github.com/systmms/vaultkv/internal/errors"
	"github.com/systmms/vaultkv/pkg/kv"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var (
		field        string
		jsonOutput   bool
		defaultValue string
	)

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Read a secret",
		Long: `Read the secret at a path and print it, or a single field of it.

With --field, only that field's raw value is printed, making the command
suitable for scripting. With --default, an absent secret or field prints
the default instead of failing.

Examples:
  # Whole secret as JSON
  vaultkv get kv/app/creds

  # One field, raw
  vaultkv get kv/app/creds --field api_key

  # Use in scripts with a fallback
  export API_KEY=$(vaultkv get kv/app/creds --field api_key --default "")`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			hasDefault := cmd.Flags().Changed("default")

			if err := cfg.Load(); err != nil {
				return err
			}

			store, err := newStore(cfg)
			if err != nil {
				return err
			}

			var opts []kv.ReadOption
			if hasDefault {
				opts = append(opts, kv.WithFallback(kv.Secret{}))
			}

			secret, err := store.Read(cmd.Context(), path, opts...)
			if err != nil {
				return vkerrors.StoreError("read", path, err)
			}

			if field == "" {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(secret); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				return nil
			}

			value, exists := secret[field]
			if !exists {
				if hasDefault {
					fmt.Print(defaultValue)
					return nil
				}
				available := make([]string, 0, len(secret))
				for name := range secret {
					available = append(available, name)
				}
				sort.Strings(available)

				suggestion := fmt.Sprintf("Check the secret at '%s' for available fields", path)
				if len(available) > 0 {
					suggestion = fmt.Sprintf("Available fields: %v", available)
				}
				return vkerrors.UserError{
					Message:    fmt.Sprintf("Field '%s' not found in secret at '%s'", field, path),
					Suggestion: suggestion,
				}
			}

			if jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				if err := encoder.Encode(value); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				return nil
			}

			// Raw value output (default for --field)
			fmt.Print(value)
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "Print only this field of the secret")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the field as JSON instead of raw")
	cmd.Flags().StringVar(&defaultValue, "default", "", "Value to print when the secret or field is absent")

	return cmd
}
