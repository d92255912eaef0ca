package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"quiz-forge/internal/chunker"
	"quiz-forge/internal/concepts"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// IngestService turns uploaded documents into cleaned text, chunks and key concepts
type IngestService interface {
	// ProcessFiles handles every document in parallel. Per-file failures are
	// reported in the item status. When ctx is cancelled the response holds
	// only the items that completed before cancellation, together with ctx.Err().
	ProcessFiles(ctx context.Context, docs []*domain.Document) (dto.UploadResponse, error)
}

type ingestService struct {
	extractor   domain.Extractor
	chunker     *chunker.Chunker
	cfg         *config.Config
	allowedExts map[string]struct{}
	logger      *zap.Logger
}

// NewIngestService creates a new ingest service. It fails with InvalidConfig
// when the chunking settings are unusable.
func NewIngestService(extractor domain.Extractor, cfg *config.Config, logger *zap.Logger) (IngestService, error) {
	unit, err := chunker.ParseUnit(cfg.Chunking.Unit)
	if err != nil {
		return nil, err
	}
	ch, err := chunker.New(unit, cfg.Chunking.TargetSize, cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]struct{}, len(cfg.Upload.AllowedExtensions))
	for _, ext := range cfg.Upload.AllowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &ingestService{
		extractor:   extractor,
		chunker:     ch,
		cfg:         cfg,
		allowedExts: allowed,
		logger:      logger,
	}, nil
}

func (s *ingestService) ProcessFiles(ctx context.Context, docs []*domain.Document) (dto.UploadResponse, error) {
	results := make(dto.UploadResponse, len(docs))
	keys := resultKeys(docs)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Upload.Workers))

	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res := s.processOne(gctx, doc)
			// An item that finishes after cancellation is discarded.
			if gctx.Err() != nil {
				return nil
			}
			mu.Lock()
			results[keys[i]] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.logger.Warn("Upload batch cancelled",
			zap.Int("requested", len(docs)),
			zap.Int("completed", len(results)),
			zap.Error(err))
		return results, err
	}
	return results, nil
}

func (s *ingestService) processOne(ctx context.Context, doc *domain.Document) dto.UploadFileResult {
	s.logger.Info("Processing document", zap.String("document_id", doc.ID), zap.String("filename", doc.Filename))

	if err := s.validate(doc); err != nil {
		s.logger.Warn("Rejected document", zap.String("filename", doc.Filename), zap.Error(err))
		return dto.UploadFileResult{Status: dto.UploadStatusError, Message: err.Error()}
	}

	extracted, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		s.logger.Error("Failed to extract document", zap.String("filename", doc.Filename), zap.Error(err))
		return dto.UploadFileResult{Status: dto.UploadStatusError, Message: err.Error()}
	}
	if strings.TrimSpace(extracted.CleanedText) == "" {
		return dto.UploadFileResult{Status: dto.UploadStatusError, Message: "no text could be extracted from the file"}
	}

	maxConcepts := s.cfg.Chunking.MaxConcepts
	docConcepts := concepts.Extract(extracted.CleanedText, maxConcepts)
	chunks := s.chunker.Chunk(extracted.CleanedText,
		chunker.WithIDPrefix(doc.ID),
		chunker.WithProtectedTerms(docConcepts),
	)

	texts := make([]string, len(chunks))
	perChunk := make([][]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		perChunk[i] = concepts.Extract(c.Text, maxConcepts)
	}

	s.logger.Info("Processed document",
		zap.String("filename", doc.Filename),
		zap.Int("chunks", len(chunks)),
		zap.Bool("ocr_used", extracted.OCRUsed))

	return dto.UploadFileResult{
		Status:        dto.UploadStatusSuccess,
		RawText:       extracted.RawText,
		CleanedText:   extracted.CleanedText,
		Chunks:        texts,
		ChunkConcepts: perChunk,
		KeyConcepts:   docConcepts,
		OCRUsed:       extracted.OCRUsed,
	}
}

func (s *ingestService) validate(doc *domain.Document) error {
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	if _, ok := s.allowedExts[ext]; !ok {
		return domain.NewUnsupportedFormatError(ext).WithContext("filename", doc.Filename)
	}
	if len(doc.Content) == 0 {
		return domain.NewInvalidInputError("file is empty")
	}
	if limit := s.cfg.Upload.MaxFileSize(); limit > 0 && int64(len(doc.Content)) > limit {
		return domain.NewInvalidInputError(fmt.Sprintf("file exceeds the %d MB limit", s.cfg.Upload.MaxFileSizeMB))
	}
	return nil
}

// resultKeys names each result by filename, suffixing repeats so no item is lost.
// A suffixed key never collides with another filename in the batch.
func resultKeys(docs []*domain.Document) []string {
	used := make(map[string]bool, len(docs))
	for _, d := range docs {
		used[d.Filename] = true
	}
	keys := make([]string, len(docs))
	claimed := make(map[string]bool, len(docs))
	for i, d := range docs {
		if !claimed[d.Filename] {
			claimed[d.Filename] = true
			keys[i] = d.Filename
			continue
		}
		n := 2
		candidate := fmt.Sprintf("%s (%d)", d.Filename, n)
		for used[candidate] {
			n++
			candidate = fmt.Sprintf("%s (%d)", d.Filename, n)
		}
		used[candidate] = true
		keys[i] = candidate
	}
	return keys
}
