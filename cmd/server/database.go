package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/redis/go-redis/v9"
)

// setupAppDatabase opens the connection pool and checks it with a ping.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	logger.Info("Database connection established")
	return db, nil
}

// setupRedis connects to the rate limiter backend. It returns nil when no
// URL is configured or the server cannot be reached; rate limiting is then
// disabled.
func setupRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	if cfg.URL == "" {
		logger.Info("Redis not configured, auth rate limiting disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Warn("invalid Redis URL, auth rate limiting disabled",
			slog.String("error", redact.Error(err)))
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, auth rate limiting disabled",
			slog.String("error", redact.Error(err)))
		_ = client.Close()
		return nil
	}

	logger.Info("Redis connection established")
	return client
}

// grantUserRole adds role to the user with the given email.
func grantUserRole(ctx context.Context, db *sql.DB, logger *slog.Logger, email, role string) error {
	if email == "" {
		return errors.New("-user is required with -grant-role")
	}

	users := postgres.NewPostgresUserStore(db, 0, logger)
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if err := users.AddRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}

	logger.Info("role granted",
		slog.String("user_id", user.ID.String()),
		slog.String("role", role))
	return nil
}
