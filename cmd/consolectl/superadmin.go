package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fitment_console/internal/repositories/database/pgsql"
	"github.com/SscSPs/fitment_console/pkg/database"
	"github.com/spf13/cobra"
)

// superAdminCmd toggles the platform-wide flag. There is no HTTP route for this.
func superAdminCmd() *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "super-admin <email>",
		Short: "Grant (or with --revoke, remove) super-admin access",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("PGSQL_URL is not set")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
			if err != nil {
				return err
			}
			defer pool.Close()

			users := pgsql.NewRepositoryProvider(pool).UserRepo
			user, err := users.FindUserByEmail(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to find user %s: %w", args[0], err)
			}
			if err := users.SetSuperAdmin(ctx, user.UserID, !revoke); err != nil {
				return err
			}

			state := "granted to"
			if revoke {
				state = "revoked from"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "super-admin %s %s (%s)\n", state, user.Email, user.UserID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "remove super-admin access instead")
	return cmd
}
