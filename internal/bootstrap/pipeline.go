// Package bootstrap wires configuration into the services shared by the API
// server and the offline CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-forge/internal/adapter"
	"quiz-forge/internal/adapter/embedding"
	"quiz-forge/internal/adapter/quizgen"
	"quiz-forge/internal/cache"
	"quiz-forge/internal/config"
	"quiz-forge/internal/database"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/export"
	"quiz-forge/internal/extract"
	"quiz-forge/internal/generator"
	"quiz-forge/internal/paper"
	"quiz-forge/internal/repository"
	"quiz-forge/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultExtractionTTL = 24 * time.Hour

// Pipeline holds the constructed services. Close releases the connections it opened.
type Pipeline struct {
	Cache      domain.Cache
	Banks      domain.QuestionBankRepository
	Ingest     service.IngestService
	Generation service.GenerationService
	Export     service.ExportService
	BankSvc    service.BankService

	redisClient *redis.Client
	db          *sqlx.DB
}

// Options select the optional parts of the pipeline
type Options struct {
	// WithStorage connects the bank repository. The offline CLI runs without it.
	WithStorage bool
}

// NewPipeline builds every service from cfg
func NewPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Pipeline, error) {
	p := &Pipeline{}

	c, err := p.newCache(cfg, logger)
	if err != nil {
		return nil, err
	}
	p.Cache = c

	extractor := newExtractor(cfg, logger)
	extractionTTL := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Extraction, defaultExtractionTTL)
	cached := extract.NewCachedExtractor(extractor, c, extractionTTL, logger)

	p.Ingest, err = service.NewIngestService(cached, cfg, logger)
	if err != nil {
		p.Close()
		return nil, err
	}

	strategy, info, err := quizgen.NewStrategy(ctx, cfg.Generation, logger)
	if err != nil {
		p.Close()
		return nil, err
	}
	gen := generator.New(strategy, cfg.Generation.CallTimeout, logger)

	if opts.WithStorage {
		if err := p.newBankService(ctx, cfg, logger); err != nil {
			p.Close()
			return nil, err
		}
	}
	p.Generation = service.NewGenerationService(gen, p.BankSvc, info, cfg, logger)

	marks, err := cfg.MarkTable()
	if err != nil {
		p.Close()
		return nil, err
	}
	assembler, err := paper.NewAssembler(marks)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.Export = service.NewExportService(assembler, export.NewExporter(logger), logger)

	return p, nil
}

func (p *Pipeline) newCache(cfg *config.Config, logger *zap.Logger) (domain.Cache, error) {
	if cfg.Redis.Address == "" {
		logger.Info("Redis not configured, using in-process LRU cache", zap.Int("size", cfg.Extraction.LocalCacheSize))
		return adapter.NewLRUCacheAdapter(cfg.Extraction.LocalCacheSize, 0), nil
	}
	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	p.redisClient = client
	logger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	return adapter.NewRedisCacheAdapter(client, 0), nil
}

func newExtractor(cfg *config.Config, logger *zap.Logger) *extract.Extractor {
	runner := extract.ExecRunner{}
	opts := []extract.Option{
		extract.WithMinCharsPerPage(cfg.Extraction.MinCharsPerPage),
		extract.WithOCRTimeout(cfg.Extraction.OCRTimeout),
	}
	if cfg.Extraction.OCREnabled {
		opts = append(opts, extract.WithOCR(extract.NewTesseractOCR(
			runner,
			cfg.Extraction.PDFToPPMPath,
			cfg.Extraction.TesseractPath,
			cfg.Extraction.OCRLanguage,
		)))
	}
	if err := extract.CheckAvailable(cfg.Extraction.PDFToTextPath); err != nil {
		logger.Warn("PDF text extraction unavailable", zap.Error(err))
	}
	return extract.NewExtractor(extract.NewPDFReader(runner, cfg.Extraction.PDFToTextPath), logger, opts...)
}

func (p *Pipeline) newBankService(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var txManager domain.TransactionManager
	if cfg.DB.Enabled() {
		db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN(), logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		p.db = db
		p.Banks = repository.NewBankDatabaseAdapter(db)
		txManager = repository.NewTransactionManagerAdapter(db, logger)
	} else {
		logger.Warn("Database not configured, question banks are kept in memory")
		p.Banks = repository.NewMemoryBankRepository()
		txManager = repository.NoopTransactionManager{}
	}

	embeddingService, err := embedding.NewFromConfig(cfg, p.Cache, logger)
	if err != nil {
		return err
	}
	p.BankSvc = service.NewBankService(p.Banks, txManager, p.Cache, embeddingService, cfg, logger)
	return nil
}

// Close releases the database and Redis connections
func (p *Pipeline) Close() error {
	var errs []error
	if p.db != nil {
		errs = append(errs, p.db.Close())
	}
	if p.redisClient != nil {
		errs = append(errs, p.redisClient.Close())
	}
	return errors.Join(errs...)
}
