package api

import (
	"errors"
	"net/http"

	"github.com/mkondo/kanaquiz/internal/domain/session"
	"github.com/mkondo/kanaquiz/internal/domain/srs"
	"github.com/mkondo/kanaquiz/internal/kana"
	"github.com/mkondo/kanaquiz/internal/service/review"
	"github.com/mkondo/kanaquiz/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, review.ErrSessionNotFound),
		errors.Is(err, store.ErrProgressNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, srs.ErrInvalidOutcome),
		errors.Is(err, session.ErrNotCurrentKana),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Completed sessions and empty due sets have nothing to serve
	case errors.Is(err, session.ErrSessionCompleted),
		errors.Is(err, review.ErrNothingDue):
		return http.StatusNoContent

	// A record referencing an unknown glyph is corrupted data
	case errors.Is(err, kana.ErrKanaNotFound):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking internal details to clients.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, review.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, review.ErrNothingDue):
		return "No kana due for review"

	case errors.Is(err, session.ErrSessionCompleted):
		return "Session is already completed"

	case errors.Is(err, session.ErrNotCurrentKana):
		return "Answer does not match the current quiz item"

	case errors.Is(err, srs.ErrInvalidOutcome):
		return "Invalid review outcome"

	case errors.Is(err, store.ErrStoreUnavailable):
		return "Storage is unavailable"

	case errors.Is(err, store.ErrWriteFailed):
		return "Failed to save review progress"

	default:
		return "An unexpected error occurred"
	}
}
