package gemini

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkondo/kanaquiz/internal/config"
	"github.com/mkondo/kanaquiz/internal/generation"
)

func TestNewGeminiExplainerValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution
	ctx := context.Background()

	testCases := []struct {
		name   string
		logger *slog.Logger
		cfg    config.LLMConfig
	}{
		{
			name:   "nil logger",
			logger: nil,
			cfg:    config.LLMConfig{GeminiAPIKey: "key", ModelName: "gemini-1.5-flash"},
		},
		{
			name:   "missing API key",
			logger: slog.Default(),
			cfg:    config.LLMConfig{ModelName: "gemini-1.5-flash"},
		},
		{
			name:   "missing model name",
			logger: slog.Default(),
			cfg:    config.LLMConfig{GeminiAPIKey: "key"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			explainer, err := NewGeminiExplainer(ctx, tc.logger, tc.cfg)
			assert.Error(t, err)
			assert.Nil(t, explainer)
		})
	}
}

func TestNewGeminiExplainerConfigErrors(t *testing.T) {
	t.Parallel() // Enable parallel execution
	ctx := context.Background()

	_, err := NewGeminiExplainer(ctx, slog.Default(), config.LLMConfig{ModelName: "gemini-1.5-flash"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGeminiExplainer(ctx, slog.Default(), config.LLMConfig{GeminiAPIKey: "key"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestExplainMistakeNilKana(t *testing.T) {
	t.Parallel() // Enable parallel execution

	explainer, err := NewGeminiExplainer(context.Background(), slog.Default(), config.LLMConfig{
		GeminiAPIKey: "test-key",
		ModelName:    "gemini-1.5-flash",
	})
	if err != nil {
		t.Skipf("client construction unavailable: %v", err)
	}

	_, err = explainer.ExplainMistake(context.Background(), nil, "shi")
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
}
