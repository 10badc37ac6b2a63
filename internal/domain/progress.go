package domain

import (
	"errors"
	"time"
)

// Scheduling defaults for a record that has never been reviewed.
const (
	// DefaultEaseFactor is the starting difficulty multiplier for new items.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor below which the ease factor never drops.
	MinEaseFactor = 1.3

	// DefaultIntervalDays is the starting spacing for new items.
	DefaultIntervalDays = 1
)

// Common validation errors for KanaProgress
var (
	ErrEmptyProgressKana = errors.New("progress kana character cannot be empty")
	ErrInvalidInterval   = errors.New("interval must be at least 1 day")
	ErrInvalidEaseFactor = errors.New("ease factor must be at least 1.3")
)

// KanaProgress tracks the spaced-repetition scheduling state for a single
// kana. Exactly one record exists per kana; the glyph is the foreign key
// into the dataset. It follows a simplified SM-2 scheme: repetitions counts
// consecutive correct answers since the last lapse, and the ease factor
// controls how fast intervals grow.
type KanaProgress struct {
	KanaChar       string     `json:"kana_char"`
	Repetitions    int        `json:"repetitions"`      // Consecutive correct answers since last lapse
	IntervalDays   int        `json:"interval_days"`    // Current spacing between reviews
	EaseFactor     float64    `json:"ease_factor"`      // Difficulty multiplier, floored at 1.3
	DueAt          time.Time  `json:"due_at"`           // When the kana becomes eligible for review
	LastReviewedAt *time.Time `json:"last_reviewed_at"` // Nil for a never-reviewed kana
	ReviewCount    int        `json:"review_count"`     // Total number of gradings
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewKanaProgress creates scheduling state for a kana that has never been
// reviewed. New records are due immediately.
func NewKanaProgress(kanaChar string, now time.Time) (*KanaProgress, error) {
	progress := &KanaProgress{
		KanaChar:       kanaChar,
		Repetitions:    0,
		IntervalDays:   DefaultIntervalDays,
		EaseFactor:     DefaultEaseFactor,
		DueAt:          now,
		LastReviewedAt: nil,
		ReviewCount:    0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the KanaProgress has valid data.
// Returns an error if any field fails validation.
func (p *KanaProgress) Validate() error {
	if p.KanaChar == "" {
		return ErrEmptyProgressKana
	}
	if p.IntervalDays < 1 {
		return ErrInvalidInterval
	}
	if p.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}
	return nil
}

// Normalize repairs out-of-range numeric state in place, such as a negative
// interval read back from a corrupted store. Scheduling must always make
// forward progress for the learner, so bad state is clamped rather than
// surfaced as an error.
func (p *KanaProgress) Normalize() {
	if p.IntervalDays < 1 {
		p.IntervalDays = 1
	}
	if p.EaseFactor < MinEaseFactor {
		p.EaseFactor = MinEaseFactor
	}
	if p.Repetitions < 0 {
		p.Repetitions = 0
	}
}

// Clone returns a deep copy of the progress record. The scheduler returns
// new records instead of mutating its input.
func (p *KanaProgress) Clone() *KanaProgress {
	clone := *p
	if p.LastReviewedAt != nil {
		t := *p.LastReviewedAt
		clone.LastReviewedAt = &t
	}
	return &clone
}
