// Package main is the entry point for the kanaquiz HTTP server.
// It loads configuration, wires up the persistence layer, the scheduling
// service and the API router, then serves until interrupted.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkondo/kanaquiz/internal/config"
	"github.com/mkondo/kanaquiz/internal/domain/srs"
	"github.com/mkondo/kanaquiz/internal/generation"
	"github.com/mkondo/kanaquiz/internal/kana"
	"github.com/mkondo/kanaquiz/internal/platform/gemini"
	applogger "github.com/mkondo/kanaquiz/internal/platform/logger"
	"github.com/mkondo/kanaquiz/internal/platform/postgres"
	"github.com/mkondo/kanaquiz/internal/platform/sqlite"
	"github.com/mkondo/kanaquiz/internal/service/review"
	"github.com/mkondo/kanaquiz/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close database", slog.String("error", closeErr.Error()))
		}
	}()

	if cfg.Database.Driver == "postgres" {
		if err := runMigrations(db, logger); err != nil {
			return err
		}
	}

	svc, err := buildReviewService(cfg, db, logger)
	if err != nil {
		return err
	}

	router := setupRouter(svc, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serveWithGracefulShutdown(server, logger)
}

// loadConfigAndLogger bootstraps configuration and structured logging.
// Until Setup succeeds, errors go through the default slog handler.
func loadConfigAndLogger() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := applogger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	logger.Info("Configuration loaded",
		slog.Int("server_port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	return cfg, logger, nil
}

// buildReviewService assembles the domain dependencies behind the API.
func buildReviewService(cfg *config.Config, db *sql.DB, logger *slog.Logger) (review.ReviewService, error) {
	dataset := kana.NewDataset()

	var progressStore store.ProgressStore
	switch cfg.Database.Driver {
	case "sqlite":
		progressStore = sqlite.NewSQLiteProgressStore(db, logger)
	default:
		progressStore = postgres.NewPostgresProgressStore(db, logger)
	}

	scheduler := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:    cfg.SRS.MinEaseFactor,
		CorrectEaseBonus: cfg.SRS.CorrectEaseBonus,
		LapseEasePenalty: cfg.SRS.LapseEasePenalty,
	}))

	explainer, err := buildExplainer(cfg, dataset, logger)
	if err != nil {
		return nil, err
	}

	return review.NewReviewService(review.Config{
		DB:            db,
		ProgressStore: progressStore,
		Dataset:       dataset,
		Scheduler:     scheduler,
		Explainer:     explainer,
		Logger:        logger,
	}), nil
}

// buildExplainer prefers the Gemini-backed explainer and falls back to the
// static one when no API key is configured.
func buildExplainer(cfg *config.Config, dataset *kana.Dataset, logger *slog.Logger) (generation.Explainer, error) {
	if cfg.LLM.GeminiAPIKey == "" {
		logger.Info("No Gemini API key configured, using static mistake explanations")
		return generation.NewStaticExplainer(dataset.All()), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	explainer, err := gemini.NewGeminiExplainer(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini explainer: %w", err)
	}
	return explainer, nil
}

// serveWithGracefulShutdown runs the HTTP server until SIGINT/SIGTERM, then
// drains in-flight requests within shutdownTimeout.
func serveWithGracefulShutdown(server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("Shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return <-errCh
}
