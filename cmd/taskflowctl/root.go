package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskflow/taskflow-api/internal/app"
	"github.com/taskflow/taskflow-api/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskflowctl",
		Short:         "Operate a TaskFlow deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(cfg),
		newSeedCmd(cfg),
		newCreateAdminCmd(cfg),
		newGenerateTokenCmd(cfg),
		newLoginCmd(),
		newTasksCmd(),
	)
	return root
}

// withApp opens the configured storage for the duration of fn.
func withApp(ctx context.Context, cfg *config.Config, fn func(*app.App) error) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
