package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"github.com/systmms/vaultkv/cmd/vaultkv/commands"
	"github.com/systmms/vaultkv/internal/config"
	"github.com/systmms/vaultkv/internal/errors"
	"github.com/systmms/vaultkv/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", errors.SimplifyError(err))
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		noColor    bool
		debug      bool
		address    string
		memFixture string
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "vaultkv",
		Short: "Path-addressed secret storage client",
		Long: `vaultkv reads and writes secrets in a path-addressed KV store,
against a live service or an in-memory backend for offline work.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)

			// Update config with parsed values
			cfg.Path = configFile
			cfg.Logger = logger
			cfg.AddressOverride = address
			cfg.MemFixture = memFixture
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&address, "address", "", "Service address (overrides config and VAULT_ADDR)")
	rootCmd.PersistentFlags().StringVar(&memFixture, "mem", "", "Run against an in-memory store seeded from this YAML fixture")

	// Add commands
	rootCmd.AddCommand(
		commands.NewLsCommand(cfg),
		commands.NewGetCommand(cfg),
		commands.NewPutCommand(cfg),
		commands.NewRmCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewDoctorCommand(cfg),
	)

	return rootCmd.Execute()
}
