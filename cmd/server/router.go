package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mkondo/kanaquiz/internal/api"
	"github.com/mkondo/kanaquiz/internal/api/middleware"
	"github.com/mkondo/kanaquiz/internal/service/review"
)

// setupRouter builds the chi router with the review session routes.
func setupRouter(svc review.ReviewService, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Trace)

	sessionHandler := api.NewSessionHandler(svc, logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", sessionHandler.StartSession)
		r.Get("/sessions/{id}", sessionHandler.GetSession)
		r.Get("/sessions/{id}/next", sessionHandler.NextPrompt)
		r.Post("/sessions/{id}/answer", sessionHandler.SubmitAnswer)
		r.Get("/progress", sessionHandler.Overview)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
