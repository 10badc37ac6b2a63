package domain

import (
	"testing"
	"time"
)

func TestNewKanaProgress(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	progress, err := NewKanaProgress("あ", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if progress.KanaChar != "あ" {
		t.Errorf("Expected kana char あ, got %q", progress.KanaChar)
	}
	if progress.Repetitions != 0 {
		t.Errorf("Expected 0 repetitions, got %d", progress.Repetitions)
	}
	if progress.IntervalDays != DefaultIntervalDays {
		t.Errorf("Expected interval %d, got %d", DefaultIntervalDays, progress.IntervalDays)
	}
	if progress.EaseFactor != DefaultEaseFactor {
		t.Errorf("Expected ease factor %f, got %f", DefaultEaseFactor, progress.EaseFactor)
	}
	if !progress.DueAt.Equal(now) {
		t.Errorf("Expected new record due immediately, got %v", progress.DueAt)
	}
	if progress.LastReviewedAt != nil {
		t.Errorf("Expected nil LastReviewedAt, got %v", progress.LastReviewedAt)
	}
	if progress.ReviewCount != 0 {
		t.Errorf("Expected 0 review count, got %d", progress.ReviewCount)
	}

	// Empty kana char is rejected
	_, err = NewKanaProgress("", now)
	if err != ErrEmptyProgressKana {
		t.Errorf("Expected error %v, got %v", ErrEmptyProgressKana, err)
	}
}

func TestKanaProgressValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		modify   func(*KanaProgress)
		expected error
	}{
		{
			name:     "valid progress",
			modify:   func(p *KanaProgress) {},
			expected: nil,
		},
		{
			name:     "empty kana char",
			modify:   func(p *KanaProgress) { p.KanaChar = "" },
			expected: ErrEmptyProgressKana,
		},
		{
			name:     "interval below one day",
			modify:   func(p *KanaProgress) { p.IntervalDays = 0 },
			expected: ErrInvalidInterval,
		},
		{
			name:     "ease factor below floor",
			modify:   func(p *KanaProgress) { p.EaseFactor = 1.2 },
			expected: ErrInvalidEaseFactor,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			progress, err := NewKanaProgress("あ", now)
			if err != nil {
				t.Fatalf("Failed to create progress: %v", err)
			}

			tc.modify(progress)
			if err := progress.Validate(); err != tc.expected {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestKanaProgressNormalize(t *testing.T) {
	t.Parallel() // Enable parallel execution

	progress := &KanaProgress{
		KanaChar:     "あ",
		Repetitions:  -2,
		IntervalDays: -5,
		EaseFactor:   0.9,
	}

	progress.Normalize()

	if progress.IntervalDays != 1 {
		t.Errorf("Expected interval clamped to 1, got %d", progress.IntervalDays)
	}
	if progress.EaseFactor != MinEaseFactor {
		t.Errorf("Expected ease factor clamped to %f, got %f", MinEaseFactor, progress.EaseFactor)
	}
	if progress.Repetitions != 0 {
		t.Errorf("Expected repetitions clamped to 0, got %d", progress.Repetitions)
	}

	// Valid state passes through unchanged
	valid := &KanaProgress{KanaChar: "い", Repetitions: 3, IntervalDays: 16, EaseFactor: 2.8}
	valid.Normalize()
	if valid.Repetitions != 3 || valid.IntervalDays != 16 || valid.EaseFactor != 2.8 {
		t.Errorf("Normalize changed valid state: %+v", valid)
	}
}

func TestKanaProgressClone(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	reviewed := now.AddDate(0, 0, -1)

	progress := &KanaProgress{
		KanaChar:       "あ",
		Repetitions:    2,
		IntervalDays:   6,
		EaseFactor:     2.7,
		DueAt:          now,
		LastReviewedAt: &reviewed,
		ReviewCount:    2,
	}

	clone := progress.Clone()

	if clone == progress {
		t.Fatal("Clone returned the same object")
	}
	if *clone.LastReviewedAt != *progress.LastReviewedAt {
		t.Errorf("Expected LastReviewedAt %v, got %v", *progress.LastReviewedAt, *clone.LastReviewedAt)
	}

	// Mutating the clone's pointer field must not leak into the original
	*clone.LastReviewedAt = now
	if progress.LastReviewedAt.Equal(now) {
		t.Error("Clone shares LastReviewedAt with the original")
	}
}

func TestOutcomeForAnswer(t *testing.T) {
	t.Parallel() // Enable parallel execution

	if OutcomeForAnswer(true) != ReviewOutcomeCorrect {
		t.Error("Expected correct outcome for true")
	}
	if OutcomeForAnswer(false) != ReviewOutcomeIncorrect {
		t.Error("Expected incorrect outcome for false")
	}
}

func TestReviewOutcomeIsValid(t *testing.T) {
	t.Parallel() // Enable parallel execution

	if !ReviewOutcomeCorrect.IsValid() || !ReviewOutcomeIncorrect.IsValid() {
		t.Error("Expected defined outcomes to be valid")
	}
	if ReviewOutcome("maybe").IsValid() || ReviewOutcome("").IsValid() {
		t.Error("Expected undefined outcomes to be invalid")
	}
}
