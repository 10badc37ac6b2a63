package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkondo/kanaquiz/internal/domain"
)

// StaticExplainer produces feedback without calling any external service.
// If the learner's input happens to be the reading of a different kana, the
// explanation points that glyph out; otherwise it just restates the correct
// reading. Used as the fallback when no LLM is configured.
type StaticExplainer struct {
	byRomaji map[string]domain.Kana
}

// Ensure StaticExplainer implements Explainer
var _ Explainer = (*StaticExplainer)(nil)

// NewStaticExplainer indexes the catalog by reading so mistaken inputs can
// be traced back to the kana the learner likely confused.
func NewStaticExplainer(catalog []domain.Kana) *StaticExplainer {
	byRomaji := make(map[string]domain.Kana)
	for _, k := range catalog {
		for _, romaji := range k.Romaji {
			// First writer wins so the canonical owner of a shared
			// reading (e.g. "o" for お and を) stays stable.
			if _, ok := byRomaji[romaji]; !ok {
				byRomaji[romaji] = k
			}
		}
	}
	return &StaticExplainer{byRomaji: byRomaji}
}

// ExplainMistake implements the Explainer interface.
func (e *StaticExplainer) ExplainMistake(ctx context.Context, kana *domain.Kana, input string) (string, error) {
	if kana == nil {
		return "", fmt.Errorf("%w: kana cannot be nil", ErrGenerationFailed)
	}

	normalized := strings.ToLower(strings.TrimSpace(input))
	msg := fmt.Sprintf("%s is read %q.", kana.Char, kana.PrimaryRomaji())

	if confused, ok := e.byRomaji[normalized]; ok && confused.Char != kana.Char {
		msg += fmt.Sprintf(" Your answer %q is the reading of %s.", normalized, confused.Char)
	}

	return msg, nil
}
