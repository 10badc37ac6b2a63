// Package srs implements the spaced-repetition scheduling engine: the
// grading algorithm that converts an answer into new scheduling state, and
// the due-ness query used to select items for review.
package srs

import (
	"errors"
	"time"

	"github.com/mkondo/kanaquiz/internal/domain"
)

// Common errors
var (
	ErrNilProgress = errors.New("kana progress cannot be nil")
	ErrInvalidDays = errors.New("postpone days must be at least 1")

	// ErrInvalidOutcome re-exports the domain sentinel so grading callers
	// can match it without importing the domain package.
	ErrInvalidOutcome = domain.ErrInvalidReviewOutcome
)

// Service defines the interface for scheduling operations.
//
// All operations are pure functions of their arguments; the current time is
// always injected so scheduling stays deterministic under test. Persistence
// of the returned records is the caller's responsibility.
type Service interface {
	// Grade computes new scheduling state from a graded answer.
	Grade(
		progress *domain.KanaProgress,
		outcome domain.ReviewOutcome,
		now time.Time,
	) (*domain.KanaProgress, error)

	// IsDue reports whether the kana is eligible for review at the given
	// time. A never-reviewed kana is always due.
	IsDue(progress *domain.KanaProgress, now time.Time) bool

	// Postpone pushes the next review time forward by a number of days.
	Postpone(
		progress *domain.KanaProgress,
		days int,
		now time.Time,
	) (*domain.KanaProgress, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Grade implements the Service interface for grading answers.
func (s *defaultService) Grade(
	progress *domain.KanaProgress,
	outcome domain.ReviewOutcome,
	now time.Time,
) (*domain.KanaProgress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	if !outcome.IsValid() {
		return nil, ErrInvalidOutcome
	}

	return calculateNextProgress(progress, outcome, now, s.params), nil
}

// IsDue implements the Service interface for the due-ness query.
func (s *defaultService) IsDue(progress *domain.KanaProgress, now time.Time) bool {
	if progress == nil {
		return false
	}
	if progress.LastReviewedAt == nil {
		return true
	}
	return !progress.DueAt.After(now)
}

// Postpone implements the Service interface for postponing reviews.
func (s *defaultService) Postpone(
	progress *domain.KanaProgress,
	days int,
	now time.Time,
) (*domain.KanaProgress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := progress.Clone()
	next.DueAt = progress.DueAt.AddDate(0, 0, days)
	next.UpdatedAt = now

	return next, nil
}
