package review

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkondo/kanaquiz/internal/domain"
	"github.com/mkondo/kanaquiz/internal/domain/session"
	"github.com/mkondo/kanaquiz/internal/generation"
	"github.com/mkondo/kanaquiz/internal/kana"
	"github.com/mkondo/kanaquiz/internal/platform/sqlite"
	"github.com/mkondo/kanaquiz/internal/store"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestService wires the service against an in-memory SQLite store with a
// fixed clock.
func newTestService(t *testing.T) (ReviewService, store.ProgressStore, *kana.Dataset) {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err, "Failed to open in-memory database")
	t.Cleanup(func() { _ = db.Close() })

	progressStore := sqlite.NewSQLiteProgressStore(db, nil)
	dataset := kana.NewDataset()

	svc := NewReviewService(Config{
		DB:            db,
		ProgressStore: progressStore,
		Dataset:       dataset,
		Explainer:     generation.NewStaticExplainer(dataset.All()),
		Now:           func() time.Time { return testNow },
	})

	return svc, progressStore, dataset
}

func TestStartSessionNewLearner(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc, _, dataset := newTestService(t)
	ctx := context.Background()

	summary, err := svc.StartSession(ctx)
	require.NoError(t, err)

	// Every catalog kana is due for a learner with no history
	assert.Equal(t, dataset.Size(), summary.Size)
	assert.Equal(t, session.StateInProgress, summary.State)
	assert.Equal(t, dataset.Size(), summary.Remaining)
	assert.Zero(t, summary.TotalCount)
}

func TestStartSessionNothingDue(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc, progressStore, dataset := newTestService(t)
	ctx := context.Background()

	// Every kana reviewed and scheduled into the future
	reviewed := testNow.AddDate(0, 0, -1)
	for _, item := range dataset.All() {
		progress := &domain.KanaProgress{
			KanaChar:       item.Char,
			Repetitions:    1,
			IntervalDays:   6,
			EaseFactor:     2.6,
			DueAt:          testNow.AddDate(0, 0, 5),
			LastReviewedAt: &reviewed,
			CreatedAt:      reviewed,
			UpdatedAt:      reviewed,
		}
		require.NoError(t, progressStore.Save(ctx, progress))
	}

	_, err := svc.StartSession(ctx)
	assert.ErrorIs(t, err, ErrNothingDue)
}

func TestGetSessionUnknownID(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc, _, _ := newTestService(t)

	_, err := svc.GetSession(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.NextPrompt(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.SubmitAnswer(context.Background(), uuid.New(), "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitAnswerCorrect(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc, progressStore, dataset := newTestService(t)
	ctx := context.Background()

	summary, err := svc.StartSession(ctx)
	require.NoError(t, err)

	prompt, err := svc.NextPrompt(ctx, summary.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, prompt.KanaChar)
	assert.Equal(t, summary.Size, prompt.Remaining)

	item, err := dataset.Lookup(prompt.KanaChar)
	require.NoError(t, err)

	result, err := svc.SubmitAnswer(ctx, summary.ID, item.PrimaryRomaji())
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Empty(t, result.Explanation)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, summary.Size-1, result.Remaining)

	// The grading update was persisted
	saved, err := progressStore.Get(ctx, prompt.KanaChar)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Repetitions)
	assert.Equal(t, 1, saved.IntervalDays)
	assert.InDelta(t, 2.6, saved.EaseFactor, 0.001)
	require.NotNil(t, saved.LastReviewedAt)

	// The session advanced to the next kana
	next, err := svc.NextPrompt(ctx, summary.ID)
	require.NoError(t, err)
	assert.NotEqual(t, prompt.KanaChar, next.KanaChar)
}

func TestSubmitAnswerIncorrect(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc, progressStore, _ := newTestService(t)
	ctx := context.Background()

	summary, err := svc.StartSession(ctx)
	require.NoError(t, err)

	prompt, err := svc.NextPrompt(ctx, summary.ID)
	require.NoError(t, err)

	result, err := svc.SubmitAnswer(ctx, summary.ID, "xyzzy")
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.NotEmpty(t, result.AcceptedAs)
	assert.NotEmpty(t, result.Explanation, "Incorrect answers get feedback")
	assert.Zero(t, result.CorrectCount)
	assert.Equal(t, 1, result.TotalCount)

	// A lapse on a new item keeps it at one-day spacing with reduced ease
	saved, err := progressStore.Get(ctx, prompt.KanaChar)
	require.NoError(t, err)
	assert.Zero(t, saved.Repetitions)
	assert.Equal(t, 1, saved.IntervalDays)
	assert.InDelta(t, 2.3, saved.EaseFactor, 0.001)
}

func TestSessionCompletion(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc, progressStore, dataset := newTestService(t)
	ctx := context.Background()

	// Leave exactly one kana due
	reviewed := testNow.AddDate(0, 0, -1)
	for _, item := range dataset.All() {
		if item.Char == "あ" {
			continue
		}
		progress := &domain.KanaProgress{
			KanaChar:       item.Char,
			Repetitions:    1,
			IntervalDays:   6,
			EaseFactor:     2.6,
			DueAt:          testNow.AddDate(0, 0, 5),
			LastReviewedAt: &reviewed,
			CreatedAt:      reviewed,
			UpdatedAt:      reviewed,
		}
		require.NoError(t, progressStore.Save(ctx, progress))
	}

	summary, err := svc.StartSession(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Size)

	result, err := svc.SubmitAnswer(ctx, summary.ID, "a")
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, session.StateCompleted, result.SessionState)
	assert.Zero(t, result.Remaining)

	// No further prompts or answers once completed
	_, err = svc.NextPrompt(ctx, summary.ID)
	assert.ErrorIs(t, err, session.ErrSessionCompleted)

	_, err = svc.SubmitAnswer(ctx, summary.ID, "a")
	assert.ErrorIs(t, err, session.ErrSessionCompleted)

	// The summary reflects the finished run
	final, err := svc.GetSession(ctx, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateCompleted, final.State)
	assert.Equal(t, 1.0, final.Accuracy)
}

func TestOverview(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc, progressStore, dataset := newTestService(t)
	ctx := context.Background()

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, dataset.Size(), overview.TotalKana)
	assert.Zero(t, overview.Tracked)
	assert.Equal(t, dataset.Size(), overview.DueNow, "Untracked kana count as due")

	// Track one kana, scheduled into the future
	reviewed := testNow.AddDate(0, 0, -1)
	progress := &domain.KanaProgress{
		KanaChar:       "あ",
		Repetitions:    1,
		IntervalDays:   6,
		EaseFactor:     2.6,
		DueAt:          testNow.AddDate(0, 0, 5),
		LastReviewedAt: &reviewed,
		CreatedAt:      reviewed,
		UpdatedAt:      reviewed,
	}
	require.NoError(t, progressStore.Save(ctx, progress))

	overview, err = svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Tracked)
	assert.Equal(t, dataset.Size()-1, overview.DueNow)
	require.Len(t, overview.Records, 1)
	assert.Equal(t, "あ", overview.Records[0].KanaChar)
}

func TestSubmitAnswerConcurrent(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc, _, dataset := newTestService(t)
	ctx := context.Background()

	summary, err := svc.StartSession(ctx)
	require.NoError(t, err)
	require.Equal(t, dataset.Size(), summary.Size)

	// Several clients hammer the same session; every queue item must be
	// graded exactly once and the counters must stay consistent.
	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := svc.SubmitAnswer(ctx, summary.ID, "a")
				if errors.Is(err, session.ErrSessionCompleted) {
					return
				}
				if err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("SubmitAnswer failed: %v", err)
	}

	final, err := svc.GetSession(ctx, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateCompleted, final.State)
	assert.Equal(t, summary.Size, final.TotalCount)
	assert.Zero(t, final.Remaining)
}

// faultyProgressStore delegates to a real store but fails Save on demand.
type faultyProgressStore struct {
	store.ProgressStore
	failSaves bool
}

func (f *faultyProgressStore) Save(ctx context.Context, progress *domain.KanaProgress) error {
	if f.failSaves {
		return store.ErrWriteFailed
	}
	return f.ProgressStore.Save(ctx, progress)
}

func (f *faultyProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &faultyProgressStore{
		ProgressStore: f.ProgressStore.WithTx(tx),
		failSaves:     f.failSaves,
	}
}

func TestSubmitAnswerSaveFailureKeepsItemCurrent(t *testing.T) {
	t.Parallel() // Enable parallel execution
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err, "Failed to open in-memory database")
	t.Cleanup(func() { _ = db.Close() })

	faulty := &faultyProgressStore{
		ProgressStore: sqlite.NewSQLiteProgressStore(db, nil),
		failSaves:     true,
	}
	dataset := kana.NewDataset()
	svc := NewReviewService(Config{
		DB:            db,
		ProgressStore: faulty,
		Dataset:       dataset,
		Now:           func() time.Time { return testNow },
	})
	ctx := context.Background()

	summary, err := svc.StartSession(ctx)
	require.NoError(t, err)

	prompt, err := svc.NextPrompt(ctx, summary.ID)
	require.NoError(t, err)
	item, err := dataset.Lookup(prompt.KanaChar)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, summary.ID, item.PrimaryRomaji())
	require.Error(t, err, "A failed save must surface to the caller")

	// The item was not consumed: counters are untouched, the same kana is
	// still current, and no row was written.
	unchanged, err := svc.GetSession(ctx, summary.ID)
	require.NoError(t, err)
	assert.Zero(t, unchanged.TotalCount)
	assert.Equal(t, summary.Size, unchanged.Remaining)

	again, err := svc.NextPrompt(ctx, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, prompt.KanaChar, again.KanaChar)

	_, err = faulty.Get(ctx, prompt.KanaChar)
	assert.ErrorIs(t, err, store.ErrProgressNotFound)

	// Once the store recovers, retrying the same item succeeds
	faulty.failSaves = false
	result, err := svc.SubmitAnswer(ctx, summary.ID, item.PrimaryRomaji())
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, summary.Size-1, result.Remaining)
}

func TestCompletedSessionEviction(t *testing.T) {
	t.Parallel() // Enable parallel execution
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err, "Failed to open in-memory database")
	t.Cleanup(func() { _ = db.Close() })

	progressStore := sqlite.NewSQLiteProgressStore(db, nil)
	dataset := kana.NewDataset()
	current := testNow
	svc := NewReviewService(Config{
		DB:            db,
		ProgressStore: progressStore,
		Dataset:       dataset,
		Now:           func() time.Time { return current },
	})
	ctx := context.Background()

	// Leave exactly one kana due so the session completes in one answer
	reviewed := testNow.AddDate(0, 0, -1)
	for _, item := range dataset.All() {
		if item.Char == "あ" {
			continue
		}
		progress := &domain.KanaProgress{
			KanaChar:       item.Char,
			Repetitions:    1,
			IntervalDays:   6,
			EaseFactor:     2.6,
			DueAt:          testNow.AddDate(0, 0, 5),
			LastReviewedAt: &reviewed,
			CreatedAt:      reviewed,
			UpdatedAt:      reviewed,
		}
		require.NoError(t, progressStore.Save(ctx, progress))
	}

	summary, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, summary.ID, "a")
	require.NoError(t, err)

	// Freshly completed sessions stay queryable
	_, err = svc.GetSession(ctx, summary.ID)
	require.NoError(t, err)

	// Past the retention window, the next session start sweeps it out
	current = testNow.Add(2 * time.Hour)
	_, err = svc.StartSession(ctx)
	require.ErrorIs(t, err, ErrNothingDue)

	_, err = svc.GetSession(ctx, summary.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
