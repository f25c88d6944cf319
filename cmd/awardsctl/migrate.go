package main

import (
	"github.com/spf13/cobra"

	"awardsreport/internal/platform/config"
	"awardsreport/internal/platform/logger"
	"awardsreport/internal/platform/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromEnv()
			if err := postgres.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
				return err
			}
			logger.New().Info("migrations applied", "dir", cfg.MigrationsDir)
			return nil
		},
	}
}
