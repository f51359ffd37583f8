package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskplanner/planner-api/internal/api"
	"github.com/taskplanner/planner-api/internal/config"
	"github.com/taskplanner/planner-api/internal/events"
	"github.com/taskplanner/planner-api/internal/platform/memory"
	"github.com/taskplanner/planner-api/internal/platform/mongo"
	"github.com/taskplanner/planner-api/internal/platform/postgres"
	"github.com/taskplanner/planner-api/internal/realtime"
	"github.com/taskplanner/planner-api/internal/service"
	"github.com/taskplanner/planner-api/internal/service/auth"
	"github.com/taskplanner/planner-api/internal/store"
	driver "go.mongodb.org/mongo-driver/mongo"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	loc    *time.Location

	// At most one of these is set, depending on database.driver.
	db          *sql.DB
	mongoClient *driver.Client

	taskStore   store.TaskStore
	healthCheck func(ctx context.Context) error

	eventEmitter *events.InMemoryEventEmitter
	broker       *realtime.Broker

	taskService service.TaskService
	jwtService  auth.JWTService

	// Set by setupRouter; closed websockets on server shutdown.
	subscribeHandler *api.SubscribeHandler
}

// newApplication connects the configured backend and builds every service.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	loc, err := cfg.Server.Location()
	if err != nil {
		return nil, err
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		loc:         loc,
		healthCheck: func(context.Context) error { return nil },
	}

	if err := app.setupStore(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// A nil *realtime.Broker must not reach the service as a non-nil interface.
	var subscriber service.Subscriber
	if cfg.Realtime.Enabled {
		app.broker = realtime.NewBroker(app.taskStore, logger)
		app.eventEmitter.RegisterHandler(app.broker)
		subscriber = app.broker
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.eventEmitter, subscriber, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	if cfg.Auth.Enabled() {
		app.jwtService, err = auth.NewJWTService(cfg.Auth)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		logger.Info("bearer token authentication enabled",
			slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))
	} else {
		logger.Warn("auth.jwt_secret not set; owners are taken from the request")
	}

	logger.Info("application initialized",
		slog.String("driver", cfg.Database.Driver),
		slog.Bool("realtime", cfg.Realtime.Enabled),
		slog.String("timezone", loc.String()))
	return app, nil
}

// setupStore opens the backend named by database.driver.
func (app *application) setupStore(ctx context.Context) error {
	cfg := app.config.Database

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := openPostgres(ctx, cfg, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp, app.logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		app.taskStore = postgres.NewPostgresTaskStore(db, app.logger)
		app.healthCheck = db.PingContext

	case config.DriverMongo:
		client, database, err := openMongo(ctx, cfg, app.logger)
		if err != nil {
			return err
		}
		app.mongoClient = client
		tasks := mongo.NewTaskStore(database, app.logger)
		if err := tasks.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to ensure indexes: %w", err)
		}
		app.taskStore = tasks
		app.healthCheck = tasks.Ping

	case config.DriverMemory:
		app.taskStore = memory.NewTaskStore(app.logger)
		app.logger.Warn("using in-memory task store; data is lost on restart")

	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	return nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources in reverse order of creation.
func (app *application) cleanup() {
	if app.broker != nil {
		app.broker.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	if app.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.config.Database.Timeout())
		defer cancel()
		if err := app.mongoClient.Disconnect(ctx); err != nil {
			app.logger.Error("error disconnecting from mongodb", slog.String("error", err.Error()))
		}
	}
}
