// Package review orchestrates quiz sessions: it loads scheduling records,
// builds session queues, grades answers through the scheduler, and persists
// the updated records.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkondo/kanaquiz/internal/domain"
	"github.com/mkondo/kanaquiz/internal/domain/session"
)

// Common error types for the review service
var (
	// ErrNothingDue indicates that no kana are due for review right now.
	ErrNothingDue = errors.New("no kana due for review")

	// ErrSessionNotFound indicates that the session does not exist.
	ErrSessionNotFound = errors.New("session not found")
)

// Prompt is the next quiz item to present: the glyph to show, without its
// readings, plus queue bookkeeping for the presentation layer.
type Prompt struct {
	KanaChar  string
	Script    domain.Script
	Remaining int
}

// AnswerResult is everything the presentation layer needs after one graded
// answer: the verdict, the accepted readings, the updated schedule, the
// session counters, and an optional explanation of the mistake.
type AnswerResult struct {
	Correct      bool
	AcceptedAs   []string
	Explanation  string
	Progress     *domain.KanaProgress
	SessionState session.State
	CorrectCount int
	TotalCount   int
	Remaining    int
}

// SessionSummary reports the state of one session for the presentation layer.
type SessionSummary struct {
	ID           uuid.UUID
	State        session.State
	Size         int
	Remaining    int
	CorrectCount int
	TotalCount   int
	Accuracy     float64
}

// ProgressOverview aggregates the full scheduling picture for a dashboard.
type ProgressOverview struct {
	TotalKana int
	Tracked   int
	DueNow    int
	Records   []*domain.KanaProgress
}

// ReviewService drives quiz sessions over the persisted scheduling records.
//
// Each session is an isolated value: the service only keeps a registry so
// stateless HTTP calls can find their session again. If two sessions run
// concurrently over the same records, last write wins at the store layer.
type ReviewService interface {
	// StartSession builds a new session over all currently due kana.
	// Returns ErrNothingDue when no kana are due.
	StartSession(ctx context.Context) (*SessionSummary, error)

	// GetSession reports the state of an existing session.
	// Returns ErrSessionNotFound for unknown IDs.
	GetSession(ctx context.Context, id uuid.UUID) (*SessionSummary, error)

	// NextPrompt returns the session's current quiz item.
	// Returns session.ErrSessionCompleted when the queue is exhausted.
	NextPrompt(ctx context.Context, id uuid.UUID) (*Prompt, error)

	// SubmitAnswer grades the learner's free-text answer against the
	// session's current kana, persists the rescheduled record, and
	// advances the session cursor.
	SubmitAnswer(ctx context.Context, id uuid.UUID, input string) (*AnswerResult, error)

	// Overview reports every tracked record plus due counts.
	Overview(ctx context.Context) (*ProgressOverview, error)
}

// ServiceError wraps errors from the review service with operation context,
// so consumers can differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	Operation string // The operation that failed (e.g., "start_session")
	Message   string // Human-readable description
	Err       error  // Underlying error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError creates a ServiceError for the given operation.
func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
