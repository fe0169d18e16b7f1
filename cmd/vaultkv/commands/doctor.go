package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultkv/internal/config"
	"github.com/systmms/vaultkv/internal/tokenstore"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and service connectivity",
		Long: `Verify that the client is ready to talk to the service.

This command checks:
- Configuration file validity
- Service address resolution
- Token availability (environment and keyring)
- Service reachability and token validity`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger(cfg)

			log.Info("Checking vaultkv configuration...")
			if err := cfg.Load(); err != nil {
				log.Error("Configuration error: %v", err)
				return fmt.Errorf("failed to load config: %w", err)
			}
			log.Info("configuration loaded from %s", cfg.Path)

			address, err := cfg.Definition.RequireAddress()
			if err != nil {
				log.Error("No service address configured")
				return err
			}
			log.Info("service address: %s", address)

			// Report where a token would come from without printing it.
			switch {
			case os.Getenv("VAULT_TOKEN") != "":
				log.Info("token source: VAULT_TOKEN environment variable")
			case cfg.Definition.KeyringEnabled():
				if _, err := tokenstore.Load(address); err == nil {
					log.Info("token source: OS keyring")
				} else {
					log.Warn("no token found; run 'vaultkv login' or export VAULT_TOKEN")
				}
			default:
				log.Warn("keyring disabled and VAULT_TOKEN unset; commands will fail to authenticate")
			}

			client, err := newLiveClient(cfg)
			if err != nil {
				return err
			}

			envelope, err := client.LookupSelf(cmd.Context())
			if err != nil {
				log.Error("service check failed: %v", err)
				return err
			}

			if data, ok := envelope["data"].(map[string]any); ok {
				if name, ok := data["display_name"].(string); ok && name != "" {
					log.Info("service reachable, token valid (display name: %s)", name)
					return nil
				}
			}
			log.Info("service reachable, token valid")
			return nil
		},
	}

	return cmd
}
