package main

import (
	"log/slog"
	"os"

	"clubhouse-server/internal/config"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "clubhouse",
		Short:        "Club management API server",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "YAML config file path")
	cmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL")
	cmd.PersistentFlags().String("env", "", "environment name (dev, prod)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserCmd())

	return cmd
}

// loadConfig reads configuration using the command's --config path and any
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return config.Load(configPath, cmd.Flags())
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env != config.EnvProd {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == config.EnvProd {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
