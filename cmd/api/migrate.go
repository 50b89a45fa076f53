package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
				cfg.Database.MigrationsDir = dir
			}

			pgClient, err := postgres.NewClient(&cfg.Database)
			if err != nil {
				return err
			}
			defer pgClient.Close()

			count, err := runMigrations(cmd.Context(), pgClient, cfg.Database.MigrationsDir)
			if err != nil {
				return err
			}
			log.Info().Int("applied", count).Msg("migrations complete")
			return nil
		},
	}
	cmd.Flags().String("dir", "", "Path to migrations directory (defaults to DB_MIGRATIONS_DIR)")
	return cmd
}

func runMigrations(ctx context.Context, pgClient *postgres.Client, dir string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	migrator := postgres.NewMigrator(pgClient.DB(), os.DirFS(dir))
	count, err := migrator.Up(ctx)
	if err != nil {
		return count, fmt.Errorf("migration failed: %w", err)
	}
	return count, nil
}
