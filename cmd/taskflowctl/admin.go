package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskflow/taskflow-api/internal/app"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/services"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(a *app.App) error {
				if err := a.Migrate(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the sample account and its tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(a *app.App) error {
				if err := a.Migrate(); err != nil {
					return err
				}
				created, err := services.SeedSampleData(cmd.Context(), a.Users, a.Tasks)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintln(cmd.OutOrStdout(), "sample data created")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "sample data already present")
				}
				return nil
			})
		},
	}
}

func newCreateAdminCmd(cfg *config.Config) *cobra.Command {
	var username, email, name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(a *app.App) error {
				if err := a.Migrate(); err != nil {
					return err
				}
				user, err := services.CreateAdmin(cmd.Context(), a.Users, username, email, name, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Username, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "admin", "login name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newGenerateTokenCmd(cfg *config.Config) *cobra.Command {
	var userID uint64

	cmd := &cobra.Command{
		Use:   "generate-token",
		Short: "Sign a bearer token for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(a *app.App) error {
				session, err := a.AuthService.IssueToken(cmd.Context(), userID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), session.Token)
				return nil
			})
		},
	}

	cmd.Flags().Uint64Var(&userID, "user-id", 0, "id of the user the token is issued for")
	cmd.MarkFlagRequired("user-id")
	return cmd
}
