package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/trainerhub/internal/pkg/logger"
	"github.com/devilmonastery/trainerhub/migrations"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	var forceVersion int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Apply pending PostgreSQL migrations, or force the recorded version to recover from a dirty state",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithCommand(slog.Default(), "migrate")
			app, err := newApp(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer app.Close()

			if forceVersion >= 0 {
				log.Info("force setting migration version", "version", forceVersion)
				if err := app.db.ForceMigrationVersion(migrations.FS, forceVersion); err != nil {
					return fmt.Errorf("failed to force migration version: %w", err)
				}
				return nil
			}

			if err := app.db.RunMigrations(migrations.FS); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	}

	cmd.Flags().IntVar(&forceVersion, "force", -1, "Force migration version (use to fix dirty migration state)")

	return cmd
}
