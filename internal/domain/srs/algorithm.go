package srs

import (
	"math"
	"time"

	"github.com/mkondo/kanaquiz/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor after a graded answer.
//
// The ease factor represents the kana's difficulty - higher values mean the
// item is easier and intervals grow faster. A correct answer earns a small
// bonus with no upper cap; a lapse costs a moderate penalty so a single slip
// does not destabilize a well-known item. The result never drops below
// params.MinEaseFactor.
func calculateNewEaseFactor(
	currentEF float64,
	outcome domain.ReviewOutcome,
	params *Params,
) float64 {
	var newEF float64
	if outcome == domain.ReviewOutcomeCorrect {
		newEF = currentEF + params.CorrectEaseBonus
	} else {
		newEF = currentEF - params.LapseEasePenalty
	}

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next spacing in days.
//
// repetitions is the consecutive-correct count AFTER the current answer has
// been applied. The ladder follows the SM-2 convention: the first correct
// answer schedules one day out, the second six days, and every later one
// multiplies the current interval by the ease factor, rounded to the nearest
// day. An incorrect answer resets spacing to the lapse interval to force
// immediate relearning.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	outcome domain.ReviewOutcome,
	params *Params,
) int {
	if outcome == domain.ReviewOutcomeIncorrect {
		return params.LapseInterval
	}

	switch {
	case repetitions <= 1:
		return params.FirstInterval
	case repetitions == 2:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * easeFactor))
	}
}

// calculateNextProgress creates a new KanaProgress with updated values based
// on the review outcome. It never mutates the input record: the caller
// decides what to do with the previous state, which keeps grading a pure
// function of (progress, outcome, now) and makes scheduling deterministic
// under test.
//
// Out-of-range input state (a negative interval from a corrupted store, an
// ease factor below the floor) is normalized before grading rather than
// reported as an error; a scheduling bug must never block the learner from
// reviewing.
func calculateNextProgress(
	progress *domain.KanaProgress,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) *domain.KanaProgress {
	next := progress.Clone()
	next.Normalize()

	if outcome == domain.ReviewOutcomeCorrect {
		next.Repetitions++
	} else {
		next.Repetitions = 0
	}

	next.IntervalDays = calculateNewInterval(
		next.IntervalDays,
		next.Repetitions,
		next.EaseFactor,
		outcome,
		params,
	)
	next.EaseFactor = calculateNewEaseFactor(next.EaseFactor, outcome, params)

	next.DueAt = now.AddDate(0, 0, next.IntervalDays)
	next.ReviewCount++
	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.UpdatedAt = now

	return next
}
