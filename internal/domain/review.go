package domain

import "errors"

// ReviewOutcome represents the graded result of a single quiz answer.
//
// The scheduler deliberately works with a binary signal: richer confidence
// scales collected by a presentation layer must collapse to correct/incorrect
// before grading, which keeps the interval math simple and testable.
type ReviewOutcome string

// Possible review outcome values
const (
	ReviewOutcomeCorrect   ReviewOutcome = "correct"
	ReviewOutcomeIncorrect ReviewOutcome = "incorrect"
)

// ErrInvalidReviewOutcome is returned when a review outcome is not valid.
var ErrInvalidReviewOutcome = errors.New("invalid review outcome")

// IsValid reports whether the outcome is one of the defined values.
func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewOutcomeCorrect, ReviewOutcomeIncorrect:
		return true
	default:
		return false
	}
}

// OutcomeForAnswer maps an answer-check result to a review outcome.
func OutcomeForAnswer(correct bool) ReviewOutcome {
	if correct {
		return ReviewOutcomeCorrect
	}
	return ReviewOutcomeIncorrect
}
