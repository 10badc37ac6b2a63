// Package session implements the quiz session selector: it orders due kana
// for presentation, drives the cursor through one quiz run, and aggregates
// session statistics. A Session is a caller-owned value with no package
// level state, so concurrent sessions never share anything.
package session

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mkondo/kanaquiz/internal/domain"
	"github.com/mkondo/kanaquiz/internal/domain/srs"
)

// Common errors
var (
	// ErrSessionCompleted is returned when an answer is recorded against a
	// session that has already been exhausted.
	ErrSessionCompleted = errors.New("session is already completed")

	// ErrNotCurrentKana is returned when the answered kana is not the one
	// the session cursor points at.
	ErrNotCurrentKana = errors.New("kana is not the current session item")
)

// State represents the lifecycle of a quiz session.
// Transitions: NotStarted -> InProgress -> Completed. Building a session
// with an empty due set moves it straight to Completed, and no transition
// ever leaves Completed.
type State string

// Possible session states
const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Session drives one quiz run over an ordered queue of due kana.
// CorrectCount and TotalCount are presentation statistics only; they are
// never persisted.
//
// A Session is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
type Session struct {
	id        uuid.UUID
	queue     []string // kana chars in presentation order
	cursor    int
	state     State
	startedAt time.Time

	correctCount int
	totalCount   int
}

// Build constructs a session over the given scheduling records.
//
// Only records due at the given time are included. Ordering is ascending
// DueAt (oldest-overdue first), tie-broken by ascending EaseFactor so that
// harder items surface first among equally overdue ones. The sort is
// stable, so equal records keep their input order.
//
// An empty due set produces a session that is already Completed; deciding
// how to present "nothing due" is the caller's concern.
func Build(records []*domain.KanaProgress, scheduler srs.Service, now time.Time) *Session {
	due := make([]*domain.KanaProgress, 0, len(records))
	for _, record := range records {
		if scheduler.IsDue(record, now) {
			due = append(due, record)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].EaseFactor < due[j].EaseFactor
	})

	queue := make([]string, len(due))
	for i, record := range due {
		queue[i] = record.KanaChar
	}

	s := &Session{
		id:        uuid.New(),
		queue:     queue,
		cursor:    0,
		state:     StateInProgress,
		startedAt: now,
	}
	if len(queue) == 0 {
		s.state = StateCompleted
	}

	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the session's lifecycle state. A zero-value Session that
// has not been through Build reports NotStarted.
func (s *Session) State() State {
	if s.state == "" {
		return StateNotStarted
	}
	return s.state
}

// StartedAt returns when the session was built.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Current returns the kana the cursor points at, or false when the session
// is completed.
func (s *Session) Current() (string, bool) {
	if s.state != StateInProgress {
		return "", false
	}
	return s.queue[s.cursor], true
}

// Size returns the number of kana selected into the session.
func (s *Session) Size() int {
	return len(s.queue)
}

// Remaining returns how many kana are still to be answered, including the
// current one.
func (s *Session) Remaining() int {
	if s.state != StateInProgress {
		return 0
	}
	return len(s.queue) - s.cursor
}

// CorrectCount returns how many answers were graded correct so far.
func (s *Session) CorrectCount() int {
	return s.correctCount
}

// TotalCount returns how many answers were recorded so far.
func (s *Session) TotalCount() int {
	return s.totalCount
}

// Accuracy returns the fraction of correct answers, or 0 before any answer.
func (s *Session) Accuracy() float64 {
	if s.totalCount == 0 {
		return 0
	}
	return float64(s.correctCount) / float64(s.totalCount)
}

// RecordAnswer grades the user's free-text input against the current kana's
// accepted readings, updates the session counters, and advances the cursor.
// The session moves to Completed when the queue is exhausted.
//
// The kana must be the dataset item for the current cursor position; a
// mismatch returns ErrNotCurrentKana and leaves the session untouched.
func (s *Session) RecordAnswer(kana *domain.Kana, input string) (bool, error) {
	if s.state != StateInProgress {
		return false, ErrSessionCompleted
	}
	if kana == nil || kana.Char != s.queue[s.cursor] {
		return false, ErrNotCurrentKana
	}

	correct := kana.MatchesAnswer(input)

	s.totalCount++
	if correct {
		s.correctCount++
	}

	s.cursor++
	if s.cursor >= len(s.queue) {
		s.state = StateCompleted
	}

	return correct, nil
}
