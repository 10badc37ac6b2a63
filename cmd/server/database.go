package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Registers the pgx driver
	"github.com/mkondo/kanaquiz/internal/config"
	"github.com/mkondo/kanaquiz/internal/platform/sqlite"
)

// setupDatabase establishes a connection to the configured backend.
// PostgreSQL gets a connection pool and versioned migrations; SQLite is
// opened through the sqlite platform package, which applies its schema
// inline.
func setupDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return setupPostgres(cfg, logger)
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("SQLite database opened", "path", cfg.Database.Path)
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// setupPostgres opens a pooled connection and verifies it with a ping.
func setupPostgres(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}
