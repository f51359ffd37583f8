package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/taskplanner/planner-api/internal/config"
	"github.com/taskplanner/planner-api/internal/platform/mongo"
	"github.com/taskplanner/planner-api/internal/redact"
	driver "go.mongodb.org/mongo-driver/mongo"
)

// openPostgres opens a pooled connection and verifies it with a ping.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", config.DriverPostgres),
		slog.String("url", redact.String(cfg.URL)))
	return db, nil
}

// openMongo connects to the configured deployment and returns the client
// together with the planner database.
func openMongo(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*driver.Client, *driver.Database, error) {
	client, err := mongo.Connect(ctx, cfg.URL, cfg.Timeout())
	if err != nil {
		return nil, nil, err
	}

	logger.Info("database connection established",
		slog.String("driver", config.DriverMongo),
		slog.String("url", redact.String(cfg.URL)),
		slog.String("database", cfg.Name))
	return client, client.Database(cfg.Name), nil
}
