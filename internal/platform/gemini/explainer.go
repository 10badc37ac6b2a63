package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/mkondo/kanaquiz/internal/config"
	"github.com/mkondo/kanaquiz/internal/domain"
	"github.com/mkondo/kanaquiz/internal/generation"
)

// promptTemplate asks the model for a compact tutor-style explanation.
// The kana's canonical reading and the learner's wrong input fill the slots.
const promptTemplate = "You are a Japanese tutor. A learner was shown the kana %q " +
	"(read %q) and answered %q. In at most three short sentences, explain the " +
	"difference between what they answered and the correct reading, and give one " +
	"example word using the kana. Plain text only."

// GeminiExplainer implements the generation.Explainer interface using the
// Gemini API to explain mistaken answers.
type GeminiExplainer struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

// Ensure GeminiExplainer implements generation.Explainer
var _ generation.Explainer = (*GeminiExplainer)(nil)

// NewGeminiExplainer creates a new GeminiExplainer with the provided
// configuration. The API key and model name must be set.
func NewGeminiExplainer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiExplainer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiExplainer{
		logger: logger.With(slog.String("component", "gemini_explainer")),
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// ExplainMistake implements the generation.Explainer interface.
func (g *GeminiExplainer) ExplainMistake(ctx context.Context, kana *domain.Kana, input string) (string, error) {
	if kana == nil {
		return "", fmt.Errorf("%w: kana cannot be nil", generation.ErrGenerationFailed)
	}

	prompt := fmt.Sprintf(promptTemplate,
		kana.Char, kana.PrimaryRomaji(), strings.TrimSpace(input))

	return g.callWithRetry(ctx, prompt)
}

// callWithRetry calls the Gemini API with exponential backoff for transient
// errors. Permanent errors (blocked or malformed responses) are returned
// immediately.
func (g *GeminiExplainer) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		text, err := g.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			g.logger.WarnContext(ctx, "permanent error from Gemini, not retrying",
				"error", err)
			return "", err
		}

		if attempt >= maxRetries {
			g.logger.WarnContext(ctx, "maximum retry attempts reached",
				"max_retries", maxRetries)
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * jitter in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoffSeconds * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying Gemini call after delay",
			"attempt", attempt+1,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// generate performs a single API call and extracts the response text.
func (g *GeminiExplainer) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		// API-level failures are assumed transient; the retry loop sorts
		// out whether to give up.
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked", generation.ErrContentBlocked)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	return text, nil
}
