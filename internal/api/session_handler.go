// Package api provides HTTP handlers for the quiz API.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mkondo/kanaquiz/internal/api/shared"
	"github.com/mkondo/kanaquiz/internal/domain"
	"github.com/mkondo/kanaquiz/internal/platform/logger"
	"github.com/mkondo/kanaquiz/internal/service/review"
)

// SessionHandler handles quiz-session HTTP requests.
type SessionHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(reviewService review.ReviewService, logger *slog.Logger) *SessionHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for SessionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "session_handler")),
	}
}

// SessionResponse represents the response data for a quiz session.
type SessionResponse struct {
	ID           string  `json:"id"`
	State        string  `json:"state"`
	Size         int     `json:"size"`
	Remaining    int     `json:"remaining"`
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_count"`
	Accuracy     float64 `json:"accuracy"`
}

// PromptResponse represents the next quiz item to present. The accepted
// readings are deliberately absent; the quiz would be pointless otherwise.
type PromptResponse struct {
	KanaChar  string `json:"kana_char"`
	Script    string `json:"script"`
	Remaining int    `json:"remaining"`
}

// SubmitAnswerRequest represents the request body for answering the current
// quiz item.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required,max=64"`
}

// AnswerResponse represents the grading result for one answer.
type AnswerResponse struct {
	Correct      bool              `json:"correct"`
	AcceptedAs   []string          `json:"accepted_as"`
	Explanation  string            `json:"explanation,omitempty"`
	Progress     *ProgressResponse `json:"progress"`
	SessionState string            `json:"session_state"`
	CorrectCount int               `json:"correct_count"`
	TotalCount   int               `json:"total_count"`
	Remaining    int               `json:"remaining"`
}

// ProgressResponse represents the scheduling state for one kana.
type ProgressResponse struct {
	KanaChar       string     `json:"kana_char"`
	Repetitions    int        `json:"repetitions"`
	IntervalDays   int        `json:"interval_days"`
	EaseFactor     float64    `json:"ease_factor"`
	DueAt          time.Time  `json:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	ReviewCount    int        `json:"review_count"`
}

// OverviewResponse represents the dashboard view of all tracked kana.
type OverviewResponse struct {
	TotalKana int                `json:"total_kana"`
	Tracked   int                `json:"tracked"`
	DueNow    int                `json:"due_now"`
	Records   []ProgressResponse `json:"records"`
}

// StartSession handles POST /sessions requests.
// It builds a new quiz session over all currently due kana.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	summary, err := h.reviewService.StartSession(r.Context())
	if errors.Is(err, review.ErrNothingDue) {
		log.Debug("no kana due for review")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to start session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("session started",
		slog.String("session_id", summary.ID.String()),
		slog.Int("queue_size", summary.Size))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(summary))
}

// GetSession handles GET /sessions/{id} requests.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	summary, err := h.reviewService.GetSession(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(summary))
}

// NextPrompt handles GET /sessions/{id}/next requests.
// It returns the session's current quiz item, or 204 when the session is
// completed.
func (h *SessionHandler) NextPrompt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	prompt, err := h.reviewService.NextPrompt(r.Context(), sessionID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		if statusCode == http.StatusNoContent {
			log.Debug("session completed", slog.String("session_id", sessionID.String()))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get next prompt"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PromptResponse{
		KanaChar:  prompt.KanaChar,
		Script:    string(prompt.Script),
		Remaining: prompt.Remaining,
	})
}

// SubmitAnswer handles POST /sessions/{id}/answer requests.
// It grades the learner's free-text answer against the session's current
// kana and returns the verdict plus the updated schedule.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	result, err := h.reviewService.SubmitAnswer(r.Context(), sessionID, req.Answer)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit answer"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("answer submitted",
		slog.String("session_id", sessionID.String()),
		slog.Bool("correct", result.Correct))
	shared.RespondWithJSON(w, r, http.StatusOK, answerToResponse(result))
}

// Overview handles GET /progress requests.
// It returns every tracked scheduling record plus due counts.
func (h *SessionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.reviewService.Overview(r.Context())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load progress overview"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	records := make([]ProgressResponse, len(overview.Records))
	for i, record := range overview.Records {
		records[i] = progressToResponse(record)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, OverviewResponse{
		TotalKana: overview.TotalKana,
		Tracked:   overview.Tracked,
		DueNow:    overview.DueNow,
		Records:   records,
	})
}

// sessionIDFromPath extracts and parses the session ID URL parameter,
// writing the error response itself when the ID is missing or malformed.
func (h *SessionHandler) sessionIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathID := chi.URLParam(r, "id")
	if pathID == "" {
		log.Warn("session ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
		return uuid.Nil, false
	}

	sessionID, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid session ID format", slog.String("session_id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID format")
		return uuid.Nil, false
	}

	return sessionID, true
}

// sessionToResponse converts a session summary to its response shape.
func sessionToResponse(summary *review.SessionSummary) SessionResponse {
	return SessionResponse{
		ID:           summary.ID.String(),
		State:        string(summary.State),
		Size:         summary.Size,
		Remaining:    summary.Remaining,
		CorrectCount: summary.CorrectCount,
		TotalCount:   summary.TotalCount,
		Accuracy:     summary.Accuracy,
	}
}

// answerToResponse converts a grading result to its response shape.
func answerToResponse(result *review.AnswerResult) AnswerResponse {
	progress := progressToResponse(result.Progress)
	return AnswerResponse{
		Correct:      result.Correct,
		AcceptedAs:   result.AcceptedAs,
		Explanation:  result.Explanation,
		Progress:     &progress,
		SessionState: string(result.SessionState),
		CorrectCount: result.CorrectCount,
		TotalCount:   result.TotalCount,
		Remaining:    result.Remaining,
	}
}

// progressToResponse converts a domain.KanaProgress to its response shape.
func progressToResponse(progress *domain.KanaProgress) ProgressResponse {
	return ProgressResponse{
		KanaChar:       progress.KanaChar,
		Repetitions:    progress.Repetitions,
		IntervalDays:   progress.IntervalDays,
		EaseFactor:     progress.EaseFactor,
		DueAt:          progress.DueAt,
		LastReviewedAt: progress.LastReviewedAt,
		ReviewCount:    progress.ReviewCount,
	}
}
