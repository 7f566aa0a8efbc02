package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"coparent-api/internal/config"
	"coparent-api/internal/infrastructure/database"
	"coparent-api/internal/infrastructure/logger"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
		Long:  `Apply, roll back or inspect the SQL migrations embedded in the API binary.`,
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
				if err := database.Migrate(ctx, db, log); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "schema up to date")
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long:  `Roll back the last N migrations. Rolling back everything drops all message data and requires --all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			all, _ := cmd.Flags().GetBool("all")
			if all {
				steps = 0
			} else if steps < 1 {
				return fmt.Errorf("--steps must be at least 1, or pass --all")
			}
			return withDatabase(cmd, func(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
				if err := database.Rollback(ctx, db, steps, log); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "rollback complete")
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	downCmd.Flags().Bool("all", false, "Roll back every migration")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the applied migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
				version, dirty, err := database.MigrationStatus(ctx, db)
				if err != nil {
					return err
				}
				if dirty {
					printFailure(cmd.OutOrStdout(), "version %d (dirty)", version)
					return nil
				}
				printSuccess(cmd.OutOrStdout(), "version %d", version)
				return nil
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, statusCmd)
	return migrateCmd
}

func withDatabase(cmd *cobra.Command, fn func(ctx context.Context, db *gorm.DB, log zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.Component(logger.New(cfg), "migrate")

	db, err := database.Connect(database.ConfigFromEnv(cfg), log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}()

	return fn(cmd.Context(), db, log)
}
