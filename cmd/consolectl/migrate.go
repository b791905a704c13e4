package main

import (
	"errors"
	"fmt"

	"github.com/SscSPs/fitment_console/pkg/database"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}
	cmd.PersistentFlags().StringVar(&source, "source", database.DefaultMigrationsPath, "migration source URL")

	run := func(direction database.MigrationDirection) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("PGSQL_URL is not set")
			}
			if err := database.Migrate(cfg.DatabaseURL, source, direction, newLogger()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete\n", direction)
			return nil
		}
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  run(database.MigrateUp),
	}

	var yes bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert every migration (drops all data)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to drop the schema without --yes")
			}
			return run(database.MigrateDown)(cmd, args)
		},
	}
	down.Flags().BoolVar(&yes, "yes", false, "confirm dropping every table")

	cmd.AddCommand(up, down)
	return cmd
}
