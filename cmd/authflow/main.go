// AuthFlow — username/password authentication service.
//
// This is the main entry point. It wires configuration, logging, the
// SQLite-backed credential store, the token service, and the HTTP API, and
// runs until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/authflow/migrations"

	"github.com/nerrad567/authflow/internal/api"
	"github.com/nerrad567/authflow/internal/audit"
	"github.com/nerrad567/authflow/internal/auth"
	"github.com/nerrad567/authflow/internal/infrastructure/config"
	"github.com/nerrad567/authflow/internal/infrastructure/database"
	"github.com/nerrad567/authflow/internal/infrastructure/logging"
)

// Version information — set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultConfigPath is used when neither the CLI argument nor
// AUTHFLOW_CONFIG is set.
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting AuthFlow",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete")

	accountRepo := auth.NewRepository(db.DB)
	auditRepo := audit.NewSQLiteRepository(db.DB)
	tokens := auth.NewTokenService(cfg.Security.JWT.Secret, cfg.TokenTTL())
	accounts := auth.NewService(accountRepo, tokens, auditRepo, log.Logger, auth.ServiceConfig{
		PasswordMinLength: cfg.Security.Password.MinLength,
		StoreTimeout:      cfg.QueryTimeout(),
	})

	// First boot: create an admin account so the system is administrable
	if _, err := auth.SeedAdmin(ctx, accountRepo, log.Logger); err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}

	server, err := api.New(api.Deps{
		Config:   cfg.Server,
		Logger:   log.With("component", "api"),
		Accounts: accounts,
		Tokens:   tokens,
		Audit:    auditRepo,
		Health:   db,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("AuthFlow started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}

// getConfigPath resolves the configuration file path: CLI argument first,
// then AUTHFLOW_CONFIG, then the default.
func getConfigPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	if v := os.Getenv("AUTHFLOW_CONFIG"); v != "" {
		return v
	}
	return defaultConfigPath
}
