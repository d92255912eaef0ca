package quizgen

import (
	"context"
	"fmt"

	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/generator"

	"go.uber.org/zap"
)

// NewStrategy builds the configured generation strategy. Model-backed
// strategies are throttled and, when enabled, fall back to the template
// strategy on failure.
func NewStrategy(ctx context.Context, cfg config.GenerationConfig, logger *zap.Logger) (domain.CandidateGenerator, domain.ModelInfo, error) {
	info := domain.ModelInfo{Strategy: cfg.Strategy, Model: cfg.Model}

	var model domain.CandidateGenerator
	var err error
	switch cfg.Strategy {
	case "template":
		return generator.NewTemplateStrategy(), info, nil
	case "ollama":
		model, err = NewOllamaStrategy(cfg.ServerURL, cfg.Model, cfg.Temperature, logger)
	case "openai":
		model, err = NewOpenAIStrategy(cfg.APIKey, cfg.Model, cfg.ServerURL, cfg.Temperature, logger)
	case "gemini":
		model, err = NewGeminiStrategy(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, logger)
	default:
		return nil, info, domain.NewInvalidConfigError(fmt.Sprintf("unknown generation strategy %q", cfg.Strategy))
	}
	if err != nil {
		return nil, info, domain.NewError(domain.CodeInvalidConfig, "failed to initialize generation strategy", err)
	}

	strategy := domain.CandidateGenerator(generator.NewThrottledStrategy(model, cfg.RatePerSecond, cfg.Burst))
	if cfg.Fallback {
		strategy = generator.NewFallbackStrategy(strategy, generator.NewTemplateStrategy(), logger)
		info.Fallback = "template"
	}
	return strategy, info, nil
}
