package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandflow/brandflow/internal/config"
	"github.com/brandflow/brandflow/internal/repository"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", repository.MigrateUp),
		migrateSubcommand("down", "Roll back the most recent migration", repository.MigrateDown),
		migrateSubcommand("status", "Print the state of each migration", repository.MigrateStatus),
	)
	return cmd
}

func migrateSubcommand(use, short string, run func(ctx context.Context, databaseURL string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadMigration()
			if err != nil {
				return err
			}
			logger := initLogger("info", "text")

			if err := run(cmd.Context(), cfg.DatabaseURL); err != nil {
				return fmt.Errorf("migrate %s: %s", use, sanitizeError(err, cfg.DatabaseURL))
			}
			logger.Info("migrate command finished", "command", use)
			return nil
		},
	}
}
