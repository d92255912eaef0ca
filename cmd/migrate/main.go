package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"quiz-forge/internal/config"
	"quiz-forge/internal/database"
	"quiz-forge/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var dir string
	var timeout time.Duration

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert quiz-forge database migrations",
	}
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "database/migrations", "directory holding *.up.sql and *.down.sql files")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall deadline")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), dir, timeout, func(ctx context.Context, m *database.Migrator) error {
				n, err := m.Up(ctx)
				if err != nil {
					return err
				}
				logger.Get().Info("Migrations applied", zap.Int("count", n))
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), dir, timeout, func(ctx context.Context, m *database.Migrator) error {
				version, err := m.Down(ctx)
				if err != nil {
					return err
				}
				if version == "" {
					logger.Get().Info("Nothing to revert")
					return nil
				}
				logger.Get().Info("Migration reverted", zap.String("version", version))
				return nil
			})
		},
	}

	rootCmd.AddCommand(upCmd, downCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func withMigrator(parent context.Context, dir string, timeout time.Duration, fn func(context.Context, *database.Migrator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.DB.Enabled() {
		return fmt.Errorf("db.host is not configured")
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN(), logger.Get())
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, database.NewMigrator(db.DB, dir, logger.Get()))
}
