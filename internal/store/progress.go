package store

import (
	"context"
	"database/sql"

	"github.com/mkondo/kanaquiz/internal/domain"
)

// ProgressStore defines the interface for kana scheduling-state persistence.
//
// The core consumes only this interface: it loads every record at session
// start and saves one record after each grading. How records are stored is
// a backend concern.
type ProgressStore interface {
	// List retrieves every scheduling record.
	// Returns ErrStoreUnavailable (wrapped) if the backing medium cannot
	// be read.
	List(ctx context.Context) ([]*domain.KanaProgress, error)

	// Get retrieves the scheduling record for a single kana.
	// Returns ErrProgressNotFound if no record exists for the glyph.
	Get(ctx context.Context, kanaChar string) (*domain.KanaProgress, error)

	// Save persists a scheduling record, inserting it on first encounter
	// and updating it afterwards. Exactly one record exists per kana.
	// It handles domain validation internally and returns ErrInvalidEntity
	// (wrapped) for invalid records, or ErrWriteFailed (wrapped) when the
	// write cannot be completed. Saves are never retried by the store.
	Save(ctx context.Context, progress *domain.KanaProgress) error

	// WithTx returns a new ProgressStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller, typically via RunInTransaction.
	WithTx(tx *sql.Tx) ProgressStore
}
