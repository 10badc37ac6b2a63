package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkondo/kanaquiz/internal/domain"
	"github.com/mkondo/kanaquiz/internal/store"
)

// SQLiteProgressStore implements the store.ProgressStore interface using a
// SQLite database as the storage backend.
type SQLiteProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteProgressStore creates a new SQLite implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, the process default logger is used.
func NewSQLiteProgressStore(db store.DBTX, logger *slog.Logger) *SQLiteProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure SQLiteProgressStore implements store.ProgressStore
var _ store.ProgressStore = (*SQLiteProgressStore)(nil)

// List implements store.ProgressStore.List
func (s *SQLiteProgressStore) List(ctx context.Context) ([]*domain.KanaProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kana_char, repetitions, interval_days, ease_factor,
		       due_at, last_reviewed_at, review_count, created_at, updated_at
		FROM kana_progress
		ORDER BY due_at, ease_factor`)
	if err != nil {
		return nil, store.NewStoreError("kana_progress", "list", "query failed",
			fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err))
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.KanaProgress
	for rows.Next() {
		progress, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, store.NewStoreError("kana_progress", "list", "scan failed",
				fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err))
		}
		records = append(records, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("kana_progress", "list", "iteration failed",
			fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err))
	}

	return records, nil
}

// Get implements store.ProgressStore.Get
func (s *SQLiteProgressStore) Get(ctx context.Context, kanaChar string) (*domain.KanaProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT kana_char, repetitions, interval_days, ease_factor,
		       due_at, last_reviewed_at, review_count, created_at, updated_at
		FROM kana_progress
		WHERE kana_char = ?`, kanaChar)

	progress, err := scanProgress(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, store.NewStoreError("kana_progress", "get", "scan failed", err)
	}

	return progress, nil
}

// Save implements store.ProgressStore.Save
func (s *SQLiteProgressStore) Save(ctx context.Context, progress *domain.KanaProgress) error {
	if progress == nil {
		return store.NewStoreError("kana_progress", "save", "nil progress", store.ErrInvalidEntity)
	}
	if err := progress.Validate(); err != nil {
		return store.NewStoreError("kana_progress", "save", "validation failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kana_progress (
			kana_char, repetitions, interval_days, ease_factor,
			due_at, last_reviewed_at, review_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (kana_char) DO UPDATE SET
			repetitions      = excluded.repetitions,
			interval_days    = excluded.interval_days,
			ease_factor      = excluded.ease_factor,
			due_at           = excluded.due_at,
			last_reviewed_at = excluded.last_reviewed_at,
			review_count     = excluded.review_count,
			updated_at       = excluded.updated_at`,
		progress.KanaChar,
		progress.Repetitions,
		progress.IntervalDays,
		progress.EaseFactor,
		progress.DueAt,
		nullableTime(progress.LastReviewedAt),
		progress.ReviewCount,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to save kana progress",
			slog.String("kana_char", progress.KanaChar),
			slog.String("error", err.Error()))
		return store.NewStoreError("kana_progress", "save", "exec failed",
			fmt.Errorf("%w: %v", store.ErrWriteFailed, err))
	}

	return nil
}

// WithTx implements store.ProgressStore.WithTx
func (s *SQLiteProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &SQLiteProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanProgress reads one kana_progress row through the given scan function.
func scanProgress(scan func(dest ...any) error) (*domain.KanaProgress, error) {
	var progress domain.KanaProgress
	var lastReviewed sql.NullTime

	err := scan(
		&progress.KanaChar,
		&progress.Repetitions,
		&progress.IntervalDays,
		&progress.EaseFactor,
		&progress.DueAt,
		&lastReviewed,
		&progress.ReviewCount,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		progress.LastReviewedAt = &lastReviewed.Time
	}

	return &progress, nil
}

// nullableTime converts an optional timestamp to its driver representation.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
