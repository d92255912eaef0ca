package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz-forge/internal/cache"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/util"

	"go.uber.org/zap"
)

const bankCacheService = "bank"

// BankService manages an owner's question banks
type BankService interface {
	Create(ctx context.Context, ownerID string, req *dto.BankRequest) (*dto.BankResponse, error)
	Get(ctx context.Context, ownerID, bankID string) (*dto.BankResponse, error)
	List(ctx context.Context, ownerID string, limit, offset int) (*dto.BankListResponse, error)
	Update(ctx context.Context, ownerID, bankID string, req *dto.BankRequest) (*dto.BankResponse, error)
	Delete(ctx context.Context, ownerID, bankID string) error
	// SaveGenerated creates a bank when bankID is empty, otherwise appends to the
	// owner's bank. Returns the id of the bank written.
	SaveGenerated(ctx context.Context, ownerID, bankID, title string, questions []*domain.Question) (string, error)
}

type bankService struct {
	repo             domain.QuestionBankRepository
	txManager        domain.TransactionManager
	cache            domain.Cache
	embeddingService domain.EmbeddingService
	cfg              *config.Config
	logger           *zap.Logger
}

// NewBankService creates a new bank service. cache and embeddingService may be nil.
func NewBankService(
	repo domain.QuestionBankRepository,
	txManager domain.TransactionManager,
	bankCache domain.Cache,
	embeddingService domain.EmbeddingService,
	cfg *config.Config,
	logger *zap.Logger,
) BankService {
	return &bankService{
		repo:             repo,
		txManager:        txManager,
		cache:            bankCache,
		embeddingService: embeddingService,
		cfg:              cfg,
		logger:           logger,
	}
}

func (s *bankService) Create(ctx context.Context, ownerID string, req *dto.BankRequest) (*dto.BankResponse, error) {
	bank := domain.NewQuestionBank(ownerID, req.Title, req.Questions)
	if req.Metadata != nil {
		bank.Metadata = req.Metadata
	}
	if err := s.create(ctx, bank); err != nil {
		return nil, err
	}
	return dto.NewBankResponse(bank), nil
}

func (s *bankService) create(ctx context.Context, bank *domain.QuestionBank) error {
	bank.ID = util.NewULID()
	if bank.Questions == nil {
		bank.Questions = []*domain.Question{}
	}
	if err := bank.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, bank); err != nil {
		return domain.NewInternalError("Failed to create question bank", err)
	}
	s.logger.Info("Created question bank",
		zap.String("bank_id", bank.ID),
		zap.String("owner_id", bank.OwnerID),
		zap.Int("questions", len(bank.Questions)))
	return nil
}

func (s *bankService) Get(ctx context.Context, ownerID, bankID string) (*dto.BankResponse, error) {
	bank, err := s.load(ctx, ownerID, bankID)
	if err != nil {
		return nil, err
	}
	return dto.NewBankResponse(bank), nil
}

func (s *bankService) List(ctx context.Context, ownerID string, limit, offset int) (*dto.BankListResponse, error) {
	banks, err := s.repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list question banks", err)
	}
	if banks == nil {
		banks = []*domain.QuestionBankSummary{}
	}
	return &dto.BankListResponse{Banks: banks, Limit: limit, Offset: offset}, nil
}

func (s *bankService) Update(ctx context.Context, ownerID, bankID string, req *dto.BankRequest) (*dto.BankResponse, error) {
	var updated *domain.QuestionBank
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		bank, err := s.loadFromRepo(txCtx, ownerID, bankID)
		if err != nil {
			return err
		}
		bank.Title = req.Title
		bank.Questions = req.Questions
		if bank.Questions == nil {
			bank.Questions = []*domain.Question{}
		}
		if req.Metadata != nil {
			bank.Metadata = req.Metadata
		}
		bank.UpdatedAt = time.Now()
		if err := bank.Validate(); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, bank); err != nil {
			return storeError("Failed to update question bank", err)
		}
		updated = bank
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, bankID)
	return dto.NewBankResponse(updated), nil
}

func (s *bankService) Delete(ctx context.Context, ownerID, bankID string) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.loadFromRepo(txCtx, ownerID, bankID); err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, bankID); err != nil {
			return storeError("Failed to delete question bank", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, bankID)
	s.logger.Info("Deleted question bank", zap.String("bank_id", bankID), zap.String("owner_id", ownerID))
	return nil
}

func (s *bankService) SaveGenerated(ctx context.Context, ownerID, bankID, title string, questions []*domain.Question) (string, error) {
	if bankID == "" {
		bank := domain.NewQuestionBank(ownerID, title, questions)
		bank.Metadata["source"] = "text_input"
		if err := s.create(ctx, bank); err != nil {
			return "", err
		}
		return bank.ID, nil
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		bank, err := s.loadFromRepo(txCtx, ownerID, bankID)
		if err != nil {
			return err
		}
		fresh := s.filterNearDuplicates(ctx, bank.Questions, questions)
		bank.Questions = append(bank.Questions, fresh...)
		bank.UpdatedAt = time.Now()
		if err := s.repo.Update(txCtx, bank); err != nil {
			return storeError("Failed to append to question bank", err)
		}
		s.logger.Info("Appended to question bank",
			zap.String("bank_id", bankID),
			zap.Int("offered", len(questions)),
			zap.Int("appended", len(fresh)))
		return nil
	})
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, bankID)
	return bankID, nil
}

// filterNearDuplicates drops incoming questions whose prompt embedding is within
// the configured similarity of a question already in the bank or accepted earlier.
// Embedding failures keep the question.
func (s *bankService) filterNearDuplicates(ctx context.Context, existing, incoming []*domain.Question) []*domain.Question {
	if s.embeddingService == nil || len(incoming) == 0 {
		return incoming
	}
	threshold := s.cfg.Embedding.SimilarityThreshold

	var known [][]float32
	for _, q := range existing {
		vec, err := s.embeddingService.Generate(ctx, q.Prompt)
		if err != nil {
			s.logger.Warn("Failed to embed existing question", zap.String("question_id", q.ID), zap.Error(err))
			continue
		}
		known = append(known, vec)
	}

	kept := make([]*domain.Question, 0, len(incoming))
	for _, q := range incoming {
		vec, err := s.embeddingService.Generate(ctx, q.Prompt)
		if err != nil {
			s.logger.Warn("Failed to embed new question", zap.String("question_id", q.ID), zap.Error(err))
			kept = append(kept, q)
			continue
		}
		duplicate := false
		for _, k := range known {
			sim, err := util.CosineSimilarity(vec, k)
			if err != nil {
				continue
			}
			if sim >= threshold {
				duplicate = true
				s.logger.Debug("Dropping near-duplicate question",
					zap.String("question_id", q.ID),
					zap.Float64("similarity", sim))
				break
			}
		}
		if duplicate {
			continue
		}
		known = append(known, vec)
		kept = append(kept, q)
	}
	return kept
}

// load reads a bank through the cache
func (s *bankService) load(ctx context.Context, ownerID, bankID string) (*domain.QuestionBank, error) {
	key := cache.GenerateCacheKey(bankCacheService, "detail", bankID)
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var bank domain.QuestionBank
			if jsonErr := json.Unmarshal([]byte(raw), &bank); jsonErr == nil {
				if bank.OwnerID != ownerID {
					return nil, domain.NewBankNotFoundError(bankID)
				}
				return &bank, nil
			}
			s.logger.Warn("Discarding unreadable cached bank", zap.String("key", key))
		case !errors.Is(err, domain.ErrCacheMiss):
			s.logger.Warn("Bank cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	bank, err := s.loadFromRepo(ctx, ownerID, bankID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(bank); err == nil {
			ttl := s.cfg.ParseTTLStringOrDefault(s.cfg.CacheTTLs.Bank, 10*time.Minute)
			if err := s.cache.Set(ctx, key, string(data), ttl); err != nil {
				s.logger.Warn("Bank cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return bank, nil
}

// loadFromRepo bypasses the cache. A bank owned by someone else is reported as missing.
func (s *bankService) loadFromRepo(ctx context.Context, ownerID, bankID string) (*domain.QuestionBank, error) {
	bank, err := s.repo.GetByID(ctx, bankID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load question bank", err)
	}
	if bank == nil || bank.OwnerID != ownerID {
		return nil, domain.NewBankNotFoundError(bankID)
	}
	return bank, nil
}

func (s *bankService) invalidate(ctx context.Context, bankID string) {
	if s.cache == nil {
		return
	}
	key := cache.GenerateCacheKey(bankCacheService, "detail", bankID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("Bank cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

// storeError keeps a concurrent removal reported as BANK_NOT_FOUND
func storeError(message string, err error) error {
	if errors.Is(err, domain.ErrBankNotFound) {
		return err
	}
	return domain.NewInternalError(message, err)
}
