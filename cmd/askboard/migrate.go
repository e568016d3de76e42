// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/askboard/askboard/internal/config"
	"github.com/askboard/askboard/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, and inspect schema migrations on the PostgreSQL database.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					cmd.Println("Migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Down(); err != nil {
						return err
					}
					cmd.Println("Migrations rolled back")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations (negative rolls back)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("MIGRATION_INVALID_STEPS").Wrapf(err, "parsing step count %q", args[0])
				}
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Steps(n); err != nil {
						return err
					}
					cmd.Printf("Applied %d migration step(s)\n", n)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current migration version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					if version == 0 {
						cmd.Println("No migrations applied")
						return nil
					}
					cmd.Printf("Version: %d (dirty: %t)\n", version, dirty)
					return nil
				})
			},
		},
	)

	return cmd
}

// withMigrator opens a migrator against the configured database, runs fn,
// and closes it.
func withMigrator(_ *cobra.Command, fn func(*store.Migrator) error) error {
	databaseURL := os.Getenv(config.EnvDatabaseURL)
	if databaseURL == "" {
		return oops.Code("CONFIG_MISSING_DATABASE_URL").
			Errorf("%s environment variable is required", config.EnvDatabaseURL)
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("error closing migrator", "error", closeErr)
		}
	}()

	return fn(migrator)
}
