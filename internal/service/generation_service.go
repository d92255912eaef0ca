package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"quiz-forge/internal/concepts"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/extract"
	"quiz-forge/internal/generator"
	"quiz-forge/internal/scoring"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBankTitle names banks created from a generation request without a title
const DefaultBankTitle = "Untitled Question Set"

// GenerationService runs chunks through concept extraction, generation and ranking
type GenerationService interface {
	// Generate validates the config before any work starts. Cancellation discards
	// every candidate and returns ctx.Err(). Saving to a bank never fails the call.
	Generate(ctx context.Context, ownerID string, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
	ModelInfo() *dto.ModelInfoResponse
}

type generationService struct {
	generator *generator.Generator
	banks     BankService
	info      domain.ModelInfo
	cfg       *config.Config
	logger    *zap.Logger
}

// NewGenerationService creates a new generation service. banks may be nil when
// persistence is not configured.
func NewGenerationService(
	gen *generator.Generator,
	banks BankService,
	info domain.ModelInfo,
	cfg *config.Config,
	logger *zap.Logger,
) GenerationService {
	return &generationService{
		generator: gen,
		banks:     banks,
		info:      info,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *generationService) Generate(ctx context.Context, ownerID string, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	genCfg := req.Config.ToDomain()
	if err := genCfg.Validate(); err != nil {
		return nil, err
	}

	chunks := ChunksFromText(req.ContextChunks)
	if len(chunks) == 0 {
		return nil, domain.NewInvalidInputError("context_chunks contain no usable text")
	}

	ranked, err := s.GenerateFromChunks(ctx, chunks, genCfg)
	if err != nil {
		return nil, err
	}

	resp := &dto.GenerateResponse{
		Questions: ranked,
		AnswerKey: domain.BuildAnswerKey(ranked),
	}

	if s.banks != nil && ownerID != "" && len(ranked) > 0 {
		title := req.Title
		if title == "" {
			title = DefaultBankTitle
		}
		bankID, err := s.banks.SaveGenerated(ctx, ownerID, req.BankID, title, ranked)
		if err != nil {
			s.logger.Warn("Skipping question bank save",
				zap.String("owner_id", ownerID),
				zap.String("bank_id", req.BankID),
				zap.Error(err))
		} else {
			resp.SavedBankID = bankID
		}
	}

	return resp, nil
}

// GenerateFromChunks generates for every chunk in parallel and ranks the pooled
// candidates in chunk order.
func (s *generationService) GenerateFromChunks(ctx context.Context, chunks []*domain.Chunk, genCfg domain.GenerationConfig) ([]*domain.Question, error) {
	slots := make([][]*domain.Question, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Generation.Workers))
	for i, ch := range chunks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			keyConcepts := concepts.Extract(ch.Text, s.cfg.Chunking.MaxConcepts)
			qs, err := s.generator.Generate(gctx, ch, keyConcepts, genCfg)
			if err != nil {
				return err
			}
			slots[i] = qs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pooled []*domain.Question
	for _, qs := range slots {
		pooled = append(pooled, qs...)
	}
	ranked := scoring.ScoreAndDedupe(pooled)

	s.logger.Info("Generated questions",
		zap.Int("chunks", len(chunks)),
		zap.Int("candidates", len(pooled)),
		zap.Int("kept", len(ranked)))
	return ranked, nil
}

func (s *generationService) ModelInfo() *dto.ModelInfoResponse {
	return &dto.ModelInfoResponse{
		Strategy:          s.info.Strategy,
		Model:             s.info.Model,
		Fallback:          s.info.Fallback,
		CallTimeout:       s.cfg.Generation.CallTimeout.String(),
		Workers:           s.cfg.Generation.Workers,
		RatePerSecond:     s.cfg.Generation.RatePerSecond,
		MaxFileSizeMB:     s.cfg.Upload.MaxFileSizeMB,
		AllowedExtensions: s.cfg.Upload.AllowedExtensions,
		ChunkUnit:         s.cfg.Chunking.Unit,
		ChunkTargetSize:   s.cfg.Chunking.TargetSize,
		ChunkOverlap:      s.cfg.Chunking.Overlap,
	}
}

// ChunksFromText turns request-supplied passages into chunks with ids
// c<order>-<content hash>. Blank passages are skipped.
func ChunksFromText(texts []string) []*domain.Chunk {
	chunks := make([]*domain.Chunk, 0, len(texts))
	for _, raw := range texts {
		text := extract.Normalize(raw)
		if text == "" {
			continue
		}
		sum := sha256.Sum256([]byte(text))
		order := len(chunks)
		chunks = append(chunks, &domain.Chunk{
			ID:         fmt.Sprintf("c%04d-%s", order, hex.EncodeToString(sum[:4])),
			Text:       text,
			Start:      0,
			End:        extract.Length(text),
			OrderIndex: order,
		})
	}
	return chunks
}
