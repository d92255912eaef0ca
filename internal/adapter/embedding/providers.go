package embedding

import (
	"fmt"
	"time"

	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// NewOllamaEmbeddingService embeds text with an Ollama model.
func NewOllamaEmbeddingService(serverURL, modelName string, c domain.Cache, ttl time.Duration, logger *zap.Logger) (*Service, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	llm, err := ollama.New(
		ollama.WithModel(modelName),
		ollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama LLM client for embedder: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from Ollama LLM: %w", err)
	}
	return NewService("ollama", embedder, c, ttl, logger), nil
}

// NewOpenAIEmbeddingService embeds text with the OpenAI API.
func NewOpenAIEmbeddingService(apiKey, modelName, baseURL string, c domain.Cache, ttl time.Duration, logger *zap.Logger) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = "text-embedding-3-small"
	}
	opts := []openai.Option{openai.WithToken(apiKey), openai.WithEmbeddingModel(modelName)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI LLM client for embedder: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from OpenAI LLM: %w", err)
	}
	return NewService("openai", embedder, c, ttl, logger), nil
}

// NewFromConfig returns the configured embedding service, or nil when
// embeddings are disabled.
func NewFromConfig(cfg *config.Config, c domain.Cache, logger *zap.Logger) (domain.EmbeddingService, error) {
	ttl := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Embedding, DefaultTTL)
	var (
		svc *Service
		err error
	)
	switch cfg.Embedding.Source {
	case "":
		return nil, nil
	case "ollama":
		svc, err = NewOllamaEmbeddingService(cfg.Embedding.ServerURL, cfg.Embedding.Model, c, ttl, logger)
	case "openai":
		svc, err = NewOpenAIEmbeddingService(cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.ServerURL, c, ttl, logger)
	default:
		return nil, domain.NewInvalidConfigError(fmt.Sprintf("unknown embedding.source %q", cfg.Embedding.Source))
	}
	if err != nil {
		return nil, domain.NewError(domain.CodeInvalidConfig, "failed to initialize embedding service", err)
	}
	return svc, nil
}
