package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mkondo/kanaquiz/internal/domain"
	"github.com/mkondo/kanaquiz/internal/domain/session"
	"github.com/mkondo/kanaquiz/internal/domain/srs"
	"github.com/mkondo/kanaquiz/internal/generation"
	"github.com/mkondo/kanaquiz/internal/kana"
	"github.com/mkondo/kanaquiz/internal/platform/logger"
	"github.com/mkondo/kanaquiz/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db        *sql.DB
	progress  store.ProgressStore
	dataset   *kana.Dataset
	scheduler srs.Service
	explainer generation.Explainer
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

// sessionRetention is how long a completed session stays queryable before
// the registry drops it.
const sessionRetention = time.Hour

// sessionEntry pairs a session with the lock that serializes access to it.
// Session values are not safe for concurrent use, so every read or mutation
// of sess happens under mu.
type sessionEntry struct {
	mu   sync.Mutex
	sess *session.Session

	// completedAt records when the session finished, for registry
	// eviction. Guarded by the service mutex, not by mu.
	completedAt time.Time
}

// Config carries the dependencies for NewReviewService.
type Config struct {
	// DB is the connection used for transactional grading updates.
	DB *sql.DB

	// ProgressStore persists the scheduling records.
	ProgressStore store.ProgressStore

	// Dataset is the kana catalog.
	Dataset *kana.Dataset

	// Scheduler computes grading updates. Defaults to srs.NewDefaultService.
	Scheduler srs.Service

	// Explainer produces mistake feedback. Optional.
	Explainer generation.Explainer

	// Logger for structured logging. Defaults to slog.Default.
	Logger *slog.Logger

	// Now is the clock; injected so scheduling is deterministic in tests.
	// Defaults to time.Now.
	Now func() time.Time
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(cfg Config) ReviewService {
	if cfg.DB == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if cfg.ProgressStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progress store cannot be nil")
	}
	if cfg.Dataset == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("dataset cannot be nil")
	}

	if cfg.Scheduler == nil {
		cfg.Scheduler = srs.NewDefaultService()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &reviewServiceImpl{
		db:        cfg.DB,
		progress:  cfg.ProgressStore,
		dataset:   cfg.Dataset,
		scheduler: cfg.Scheduler,
		explainer: cfg.Explainer,
		logger:    cfg.Logger.With(slog.String("component", "review_service")),
		now:       cfg.Now,
		sessions:  make(map[uuid.UUID]*sessionEntry),
	}
}

// StartSession implements ReviewService.StartSession.
func (s *reviewServiceImpl) StartSession(ctx context.Context) (*SessionSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	s.mu.Lock()
	s.evictExpiredLocked(now)
	s.mu.Unlock()

	records, err := s.progress.List(ctx)
	if err != nil {
		log.Error("failed to load scheduling records",
			slog.String("error", err.Error()))
		return nil, newServiceError("start_session", "failed to load records", err)
	}

	// Kana that were never graded have no stored record yet but are due by
	// definition. Synthesize default records for them so new learners get a
	// full queue on day one.
	records = s.withUntrackedKana(records, now)

	sess := session.Build(records, s.scheduler, now)
	if sess.Size() == 0 {
		log.Debug("no kana due for review")
		return nil, ErrNothingDue
	}

	s.mu.Lock()
	s.sessions[sess.ID()] = &sessionEntry{sess: sess}
	s.mu.Unlock()

	log.Info("session started",
		slog.String("session_id", sess.ID().String()),
		slog.Int("queue_size", sess.Size()))

	return summarize(sess), nil
}

// GetSession implements ReviewService.GetSession.
func (s *reviewServiceImpl) GetSession(ctx context.Context, id uuid.UUID) (*SessionSummary, error) {
	entry, err := s.lookupSession(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return summarize(entry.sess), nil
}

// NextPrompt implements ReviewService.NextPrompt.
func (s *reviewServiceImpl) NextPrompt(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	entry, err := s.lookupSession(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	char, ok := entry.sess.Current()
	remaining := entry.sess.Remaining()
	entry.mu.Unlock()

	if !ok {
		return nil, session.ErrSessionCompleted
	}

	item, err := s.dataset.Lookup(char)
	if err != nil {
		// A record referencing an unknown glyph is corrupted data, fatal
		// for the session.
		return nil, newServiceError("next_prompt", "data integrity failure", err)
	}

	return &Prompt{
		KanaChar:  item.Char,
		Script:    item.Script,
		Remaining: remaining,
	}, nil
}

// SubmitAnswer implements ReviewService.SubmitAnswer.
func (s *reviewServiceImpl) SubmitAnswer(ctx context.Context, id uuid.UUID, input string) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry, err := s.lookupSession(id)
	if err != nil {
		return nil, err
	}

	// One answer at a time per session; concurrent submissions for the
	// same session queue up here.
	entry.mu.Lock()
	defer entry.mu.Unlock()
	sess := entry.sess

	char, ok := sess.Current()
	if !ok {
		return nil, session.ErrSessionCompleted
	}

	item, err := s.dataset.Lookup(char)
	if err != nil {
		return nil, newServiceError("submit_answer", "data integrity failure", err)
	}

	now := s.now().UTC()
	correct := item.MatchesAnswer(input)

	// Read-modify-write of the scheduling record runs in one transaction so
	// concurrent sessions cannot interleave half an update.
	var updated *domain.KanaProgress
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.progress.WithTx(tx)

		current, err := txStore.Get(ctx, char)
		if errors.Is(err, store.ErrProgressNotFound) {
			current, err = domain.NewKanaProgress(char, now)
		}
		if err != nil {
			return fmt.Errorf("failed to load progress for %q: %w", char, err)
		}

		updated, err = s.scheduler.Grade(current, domain.OutcomeForAnswer(correct), now)
		if err != nil {
			return fmt.Errorf("failed to grade answer: %w", err)
		}

		return txStore.Save(ctx, updated)
	})
	if err != nil {
		// The item stays current; the client can retry the same answer.
		log.Error("failed to persist grading update",
			slog.String("kana_char", char),
			slog.String("error", err.Error()))
		return nil, newServiceError("submit_answer", "failed to persist update", err)
	}

	// The store update committed; only now does the session consume the item.
	if _, err := sess.RecordAnswer(item, input); err != nil {
		return nil, newServiceError("submit_answer", "failed to record answer", err)
	}

	if sess.State() == session.StateCompleted {
		s.mu.Lock()
		entry.completedAt = now
		s.mu.Unlock()
	}

	result := &AnswerResult{
		Correct:      correct,
		AcceptedAs:   item.Romaji,
		Progress:     updated,
		SessionState: sess.State(),
		CorrectCount: sess.CorrectCount(),
		TotalCount:   sess.TotalCount(),
		Remaining:    sess.Remaining(),
	}

	if !correct && s.explainer != nil {
		explanation, err := s.explainer.ExplainMistake(ctx, item, input)
		if err != nil {
			// Feedback is best-effort; grading already succeeded.
			log.Warn("failed to generate mistake explanation",
				slog.String("kana_char", char),
				slog.String("error", err.Error()))
		} else {
			result.Explanation = explanation
		}
	}

	log.Debug("answer graded",
		slog.String("session_id", id.String()),
		slog.String("kana_char", char),
		slog.Bool("correct", correct),
		slog.Int("interval_days", updated.IntervalDays))

	return result, nil
}

// Overview implements ReviewService.Overview.
func (s *reviewServiceImpl) Overview(ctx context.Context) (*ProgressOverview, error) {
	now := s.now().UTC()

	records, err := s.progress.List(ctx)
	if err != nil {
		return nil, newServiceError("overview", "failed to load records", err)
	}

	dueNow := 0
	for _, record := range records {
		if s.scheduler.IsDue(record, now) {
			dueNow++
		}
	}
	// Untracked kana count as due: they have never been reviewed.
	dueNow += s.dataset.Size() - len(records)

	return &ProgressOverview{
		TotalKana: s.dataset.Size(),
		Tracked:   len(records),
		DueNow:    dueNow,
		Records:   records,
	}, nil
}

// withUntrackedKana appends default records for catalog kana that have no
// stored record yet. The synthesized records are not persisted; rows only
// materialize when an item is first graded.
func (s *reviewServiceImpl) withUntrackedKana(records []*domain.KanaProgress, now time.Time) []*domain.KanaProgress {
	tracked := make(map[string]bool, len(records))
	for _, record := range records {
		tracked[record.KanaChar] = true
	}

	for _, item := range s.dataset.All() {
		if tracked[item.Char] {
			continue
		}
		fresh, err := domain.NewKanaProgress(item.Char, now)
		if err != nil {
			// Catalog entries always have a glyph; this cannot happen for
			// well-formed data.
			continue
		}
		records = append(records, fresh)
	}

	return records
}

// lookupSession finds a registered session by ID.
func (s *reviewServiceImpl) lookupSession(id uuid.UUID) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

// evictExpiredLocked drops completed sessions that are past the retention
// window. Callers must hold s.mu.
func (s *reviewServiceImpl) evictExpiredLocked(now time.Time) {
	for id, entry := range s.sessions {
		if !entry.completedAt.IsZero() && now.Sub(entry.completedAt) > sessionRetention {
			delete(s.sessions, id)
		}
	}
}

// summarize converts a session to its transport-friendly summary.
func summarize(sess *session.Session) *SessionSummary {
	return &SessionSummary{
		ID:           sess.ID(),
		State:        sess.State(),
		Size:         sess.Size(),
		Remaining:    sess.Remaining(),
		CorrectCount: sess.CorrectCount(),
		TotalCount:   sess.TotalCount(),
		Accuracy:     sess.Accuracy(),
	}
}
