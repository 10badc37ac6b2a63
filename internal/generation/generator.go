// Package generation defines the boundary between the quiz core and
// external language-model services that produce feedback text. The core
// only ever sees the Explainer interface; which model (if any) backs it is
// a wiring concern.
package generation

import (
	"context"

	"github.com/mkondo/kanaquiz/internal/domain"
)

// Explainer produces a short explanation of a mistaken answer, helping the
// learner tell the expected kana apart from whatever they confused it with.
type Explainer interface {
	// ExplainMistake describes the difference between the expected kana and
	// the learner's (incorrect) input. Returns a short human-readable text
	// or an error if generation fails; callers treat failures as
	// non-fatal and fall back to plain feedback.
	ExplainMistake(ctx context.Context, kana *domain.Kana, input string) (string, error)
}
