package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/roundbuy/backend-sub000/internal/app/setup"
	"github.com/roundbuy/backend-sub000/internal/config"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "disputectl",
		Short:         "Operator tool for the dispute service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", os.Getenv("DISPUTE_CONFIG_PATH"), "path to the service config file")

	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(SweepCmd())
	rootCmd.AddCommand(CodeCmd())
	rootCmd.AddCommand(ShowCmd())
	rootCmd.AddCommand(EventsCmd())
	rootCmd.AddCommand(NotificationsCmd())
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*config.DisputeConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil, fmt.Errorf("--config or DISPUTE_CONFIG_PATH is required")
	}
	return config.Load(path)
}

// withApp wires the same dependencies the service uses and hands them to fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, deps *setup.Dependencies, uc *setup.UseCases) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx := cmd.Context()
	deps, err := setup.InitializeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	return fn(ctx, deps, setup.InitializeUseCases(deps))
}
