package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkondo/kanaquiz/internal/domain"
)

func testCatalog() []domain.Kana {
	return []domain.Kana{
		{Char: "し", Romaji: []string{"shi", "si"}, Script: domain.ScriptHiragana, Class: domain.ClassSeion},
		{Char: "ち", Romaji: []string{"chi", "ti"}, Script: domain.ScriptHiragana, Class: domain.ClassSeion},
		{Char: "つ", Romaji: []string{"tsu", "tu"}, Script: domain.ScriptHiragana, Class: domain.ClassSeion},
	}
}

func TestStaticExplainerRestatesReading(t *testing.T) {
	t.Parallel() // Enable parallel execution
	explainer := NewStaticExplainer(testCatalog())

	shi := &domain.Kana{Char: "し", Romaji: []string{"shi", "si"}}
	msg, err := explainer.ExplainMistake(context.Background(), shi, "zzz")
	require.NoError(t, err)

	assert.Contains(t, msg, "し")
	assert.Contains(t, msg, `"shi"`)
}

func TestStaticExplainerNamesConfusedKana(t *testing.T) {
	t.Parallel() // Enable parallel execution
	explainer := NewStaticExplainer(testCatalog())

	shi := &domain.Kana{Char: "し", Romaji: []string{"shi", "si"}}

	// The learner answered with the reading of a different kana
	msg, err := explainer.ExplainMistake(context.Background(), shi, "chi")
	require.NoError(t, err)
	assert.Contains(t, msg, "ち")

	// Input is matched case-insensitively and trimmed
	msg, err = explainer.ExplainMistake(context.Background(), shi, "  TSU ")
	require.NoError(t, err)
	assert.Contains(t, msg, "つ")
}

func TestStaticExplainerOwnReadingIsNotConfusion(t *testing.T) {
	t.Parallel() // Enable parallel execution
	explainer := NewStaticExplainer(testCatalog())

	// "si" belongs to し itself, so no other kana is named
	shi := &domain.Kana{Char: "し", Romaji: []string{"shi", "si"}}
	msg, err := explainer.ExplainMistake(context.Background(), shi, "si")
	require.NoError(t, err)

	assert.NotContains(t, msg, "ち")
	assert.NotContains(t, msg, "つ")
}

func TestStaticExplainerNilKana(t *testing.T) {
	t.Parallel() // Enable parallel execution
	explainer := NewStaticExplainer(testCatalog())

	_, err := explainer.ExplainMistake(context.Background(), nil, "shi")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}
