// Package generator turns a chunk and its key concepts into candidate
// questions using a pluggable domain.CandidateGenerator strategy.
package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/util"

	"go.uber.org/zap"
)

// DefaultCallTimeout bounds a single strategy call
const DefaultCallTimeout = 20 * time.Second

// Generator applies per-type rules around a strategy. Safe for concurrent use
// when the strategy is.
type Generator struct {
	strategy    domain.CandidateGenerator
	callTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

// New creates a Generator. A non-positive callTimeout selects DefaultCallTimeout.
func New(strategy domain.CandidateGenerator, callTimeout time.Duration, logger *zap.Logger) *Generator {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		strategy:    strategy,
		callTimeout: callTimeout,
		logger:      logger,
		now:         time.Now,
		newID:       util.NewULID,
	}
}

// Generate produces up to cfg.Count(t) candidates of each type for one chunk,
// in type order then index order. Per-call failures and timeouts drop that
// candidate only. Cancellation of ctx returns ctx.Err() and no questions.
func (g *Generator) Generate(ctx context.Context, chunk *domain.Chunk, concepts []string, cfg domain.GenerationConfig) ([]*domain.Question, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	questions := make([]*domain.Question, 0, cfg.Total())
	for _, qt := range domain.QuestionTypes {
		h := handlers[qt]
		for i := 0; i < cfg.Count(qt); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			q, err := g.generateOne(ctx, chunk, concepts, cfg, qt, h, i)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				if errors.Is(err, domain.ErrInsufficientContext) {
					g.logger.Debug("Chunk cannot support question type",
						zap.String("chunk_id", chunk.ID),
						zap.String("type", string(qt)),
						zap.Int("index", i))
					break
				}
				if errors.Is(err, domain.ErrGenerationTimeout) {
					g.logger.Warn("Generation call timed out", zap.Error(err), zap.String("type", string(qt)), zap.Int("index", i))
					continue
				}
				g.logger.Warn("Dropping candidate",
					zap.Error(err),
					zap.String("chunk_id", chunk.ID),
					zap.String("type", string(qt)),
					zap.Int("index", i))
				continue
			}
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (g *Generator) generateOne(ctx context.Context, chunk *domain.Chunk, concepts []string, cfg domain.GenerationConfig, qt domain.QuestionType, h typeHandler, index int) (*domain.Question, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	req := domain.CandidateRequest{
		Chunk:      chunk,
		Concepts:   concepts,
		Type:       qt,
		Difficulty: domain.ClampDifficulty(cfg.Difficulty+h.difficultyBias, cfg.Difficulty),
		Index:      index,
		Subject:    cfg.Subject,
		GradeLevel: cfg.GradeLevel,
	}

	cand, err := g.strategy.GenerateCandidate(callCtx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, domain.NewGenerationTimeoutError(chunk.ID, err)
		}
		return nil, err
	}
	if cand == nil || strings.TrimSpace(cand.Prompt) == "" {
		return nil, domain.NewInvalidInputError("strategy returned an empty candidate")
	}

	difficulty := cand.Difficulty
	if difficulty == 0 {
		difficulty = req.Difficulty
	}
	q := &domain.Question{
		ID:            g.newID(),
		Type:          qt,
		Prompt:        strings.TrimSpace(cand.Prompt),
		Options:       append([]string(nil), cand.Options...),
		Answer:        cand.Answer,
		Keywords:      append([]string(nil), cand.Keywords...),
		Difficulty:    domain.ClampDifficulty(difficulty, cfg.Difficulty),
		SourceChunkID: chunk.ID,
		CreatedAt:     g.now(),
	}
	if err := h.finalize(q, OptionSeed(chunk.ID, qt, index)); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
