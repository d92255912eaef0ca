package quizgen

import (
	"context"
	"fmt"
	"strings"

	"quiz-forge/internal/domain"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// textGenerator sends one prompt to a model and returns its text reply
type textGenerator func(ctx context.Context, prompt string) (string, error)

// GeminiStrategy generates candidates with the Google Gen AI SDK
type GeminiStrategy struct {
	generate textGenerator
	model    string
	logger   *zap.Logger
}

// NewGeminiStrategy creates a Gemini API client for the given model
func NewGeminiStrategy(ctx context.Context, apiKey, model string, temperature float64, logger *zap.Logger) (*GeminiStrategy, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(temperature)),
		ResponseMIMEType: "application/json",
	}
	gen := func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			cfg,
		)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(resp.Text()), nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Initialized Gemini strategy", zap.String("model", model))
	return &GeminiStrategy{generate: gen, model: model, logger: logger}, nil
}

// GenerateCandidate implements domain.CandidateGenerator
func (s *GeminiStrategy) GenerateCandidate(ctx context.Context, req domain.CandidateRequest) (*domain.Candidate, error) {
	raw, err := s.generate(ctx, BuildPrompt(req))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewLLMServiceError(fmt.Errorf("gemini call failed: %w", err))
	}
	s.logger.Debug("Raw Gemini response received", zap.String("model", s.model), zap.String("raw_response", truncate(raw, 500)))
	return ParseCandidate(raw)
}

var _ domain.CandidateGenerator = (*GeminiStrategy)(nil)
