package quizgen

import (
	"context"
	"fmt"

	"quiz-forge/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LLMStrategy generates candidates through any langchaingo model
type LLMStrategy struct {
	llm         llms.Model
	temperature float64
	logger      *zap.Logger
}

func NewLLMStrategy(llm llms.Model, temperature float64, logger *zap.Logger) *LLMStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMStrategy{llm: llm, temperature: temperature, logger: logger}
}

// NewOllamaStrategy connects to an Ollama server
func NewOllamaStrategy(serverURL, model string, temperature float64, logger *zap.Logger) (*LLMStrategy, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return NewLLMStrategy(llm, temperature, logger), nil
}

// NewOpenAIStrategy uses the OpenAI API, or a compatible server when baseURL is set
func NewOpenAIStrategy(apiKey, model, baseURL string, temperature float64, logger *zap.Logger) (*LLMStrategy, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	opts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLLMStrategy(llm, temperature, logger), nil
}

// GenerateCandidate implements domain.CandidateGenerator
func (s *LLMStrategy) GenerateCandidate(ctx context.Context, req domain.CandidateRequest) (*domain.Candidate, error) {
	prompt := BuildPrompt(req)
	raw, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(s.temperature))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	s.logger.Debug("Raw LLM response received", zap.String("type", string(req.Type)), zap.String("raw_response", truncate(raw, 500)))
	return ParseCandidate(raw)
}

var _ domain.CandidateGenerator = (*LLMStrategy)(nil)
