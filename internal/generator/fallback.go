package generator

import (
	"context"
	"errors"

	"quiz-forge/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FallbackStrategy asks primary first and secondary when primary fails for
// any reason other than cancellation or timeout.
type FallbackStrategy struct {
	primary   domain.CandidateGenerator
	secondary domain.CandidateGenerator
	logger    *zap.Logger
}

func NewFallbackStrategy(primary, secondary domain.CandidateGenerator, logger *zap.Logger) *FallbackStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackStrategy{primary: primary, secondary: secondary, logger: logger}
}

func (s *FallbackStrategy) GenerateCandidate(ctx context.Context, req domain.CandidateRequest) (*domain.Candidate, error) {
	cand, err := s.primary.GenerateCandidate(ctx, req)
	if err == nil {
		return cand, nil
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, domain.ErrGenerationTimeout) {
		return nil, err
	}
	s.logger.Warn("Primary strategy failed, using fallback",
		zap.Error(err),
		zap.String("type", string(req.Type)),
		zap.Int("index", req.Index))
	return s.secondary.GenerateCandidate(ctx, req)
}

// ThrottledStrategy limits the call rate into a model-backed strategy
type ThrottledStrategy struct {
	next    domain.CandidateGenerator
	limiter *rate.Limiter
}

// NewThrottledStrategy allows perSecond calls with the given burst.
// A non-positive perSecond disables throttling.
func NewThrottledStrategy(next domain.CandidateGenerator, perSecond float64, burst int) *ThrottledStrategy {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &ThrottledStrategy{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (s *ThrottledStrategy) GenerateCandidate(ctx context.Context, req domain.CandidateRequest) (*domain.Candidate, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// the next token would arrive after the call deadline
		chunkID := ""
		if req.Chunk != nil {
			chunkID = req.Chunk.ID
		}
		return nil, domain.NewGenerationTimeoutError(chunkID, err)
	}
	return s.next.GenerateCandidate(ctx, req)
}

var (
	_ domain.CandidateGenerator = (*TemplateStrategy)(nil)
	_ domain.CandidateGenerator = (*FallbackStrategy)(nil)
	_ domain.CandidateGenerator = (*ThrottledStrategy)(nil)
)
