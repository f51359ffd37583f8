package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/taskplanner/planner-api/internal/config"
	"github.com/taskplanner/planner-api/internal/platform/logger"
	"github.com/taskplanner/planner-api/internal/platform/postgres"
	"github.com/taskplanner/planner-api/internal/service/auth"
)

// newRootCmd builds the planner command tree.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "planner",
		Short: "Task planner API server",
		Long: `planner serves the task planner REST API and realtime task feed.

Configuration is read from config.yaml (current directory or $HOME/.planner)
and PLANNER_* environment variables. MONGO_URI and PORT are also honored.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file")

	load := func() (*config.Config, *slog.Logger, error) {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		log, err := logger.Setup(cfg.Server)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
		}
		return cfg, log, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newTokenCmd(load),
	)
	return root
}

type loadFunc func() (*config.Config, *slog.Logger, error)

func newServeCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				log.Error("failed to initialize application", slog.String("error", err.Error()))
				return err
			}
			return app.Run(ctx)
		},
	}
}

func newMigrateCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|reset|status|version>",
		Short:     "Manage the Postgres schema",
		Long:      "Apply or inspect the embedded SQL migrations. Only the postgres driver has a schema.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate requires database.driver %q, got %q",
					config.DriverPostgres, cfg.Database.Driver)
			}

			ctx := cmd.Context()
			db, err := openPostgres(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(ctx, db, args[0], log)
		},
	}
}

func newTokenCmd(load loadFunc) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an owner",
		Long:  "Sign a development access token with auth.jwt_secret. The token subject is the owner ID.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			if !cfg.Auth.Enabled() {
				return fmt.Errorf("auth.jwt_secret is not configured")
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := jwtService.GenerateToken(cmd.Context(), owner)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner ID to use as the token subject")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
