// Package main implements the entry point for the TaskFlow API server,
// which manages users' tasks behind a JSON HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres/migrations"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, reset, status, version) and exit")
	grantRole := flag.String("grant-role", "", "grant this role to the user given by -user and exit")
	grantUser := flag.String("user", "", "email of the user receiving -grant-role")
	flag.Parse()

	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l, *migrateCmd, *grantRole, *grantUser); err != nil {
		l.Error("server exited with error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

// run dispatches to a one-shot admin command or starts the server.
func run(ctx context.Context, cfg *config.Config, l *slog.Logger, migrateCmd, grantRole, grantUser string) error {
	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	switch {
	case migrateCmd != "":
		defer db.Close()
		return migrations.Run(ctx, db, migrateCmd, l)
	case grantRole != "":
		defer db.Close()
		return grantUserRole(ctx, db, l, grantUser, grantRole)
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from the environment,
// .env and config.yaml.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
