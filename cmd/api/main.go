package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/carelink/backend/internal/infrastructure/observability"
	"github.com/carelink/backend/pkg/config"
	"github.com/carelink/backend/pkg/secrets"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "carelink-api",
		Short:        "CareLink healthcare appointment API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	return rootCmd
}

// loadConfig pulls secrets from Vault when enabled, reads configuration and
// installs the global logger
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	vaultCfg := secrets.LoadVaultConfigFromEnv()
	var vaultResult *secrets.VaultResult
	if vaultCfg.Enabled {
		result, err := secrets.ApplyVaultSecrets(context.Background(), vaultCfg)
		if err != nil {
			return nil, err
		}
		vaultResult = &result
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	if vaultResult != nil {
		log.Info().
			Str("path", vaultResult.Path).
			Int("loaded", vaultResult.Loaded).
			Int("skipped", vaultResult.Skipped).
			Msg("secrets loaded from vault")
	}
	return cfg, nil
}
