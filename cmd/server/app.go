package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskflow-api/internal/api/middleware"
	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/events"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	jwtService  auth.JWTService
	authService auth.Service
	taskService service.TaskService
	queryEngine service.TaskQueryEngine

	events *events.AsyncEmitter

	registry    *prometheus.Registry
	metrics     *middleware.Metrics
	rateLimiter *middleware.RateLimiter
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	app.authService, err = auth.NewService(userStore, app.jwtService, auth.NewBcryptVerifier(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	dispatcher := events.NewTaskEventDispatcher(logger)
	dispatcher.Subscribe(events.NewAuditLogHandler(logger))
	app.events = events.NewAsyncEmitter(dispatcher, events.AsyncConfig{
		QueueSize:   cfg.Events.QueueSize,
		WorkerCount: cfg.Events.WorkerCount,
	}, logger)

	app.taskService, err = service.NewTaskService(taskStore, userStore, app.events, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	app.queryEngine, err = service.NewTaskQueryEngine(taskStore, userStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task query engine: %w", err)
	}
	app.events.Start()

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "taskflow"),
	)
	app.metrics = middleware.NewMetrics(app.registry)

	app.redis = setupRedis(ctx, cfg.Redis, logger)
	var counter middleware.WindowCounter
	if app.redis != nil {
		counter = middleware.NewRedisCounter(app.redis)
	}
	app.rateLimiter = middleware.NewRateLimiter(counter, cfg.Redis.AuthRateLimit,
		time.Duration(cfg.Redis.AuthRateWindowSeconds)*time.Second, app.metrics)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down and cleans up.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.events != nil {
		app.events.Stop()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing Redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
