package service

import (
	"context"
	"time"

	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockQuestionBankRepository struct {
	mock.Mock
}

func (m *MockQuestionBankRepository) Create(ctx context.Context, bank *domain.QuestionBank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockQuestionBankRepository) GetByID(ctx context.Context, id string) (*domain.QuestionBank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestionBank), args.Error(1)
}

func (m *MockQuestionBankRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.QuestionBankSummary, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuestionBankSummary), args.Error(1)
}

func (m *MockQuestionBankRepository) Update(ctx context.Context, bank *domain.QuestionBank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockQuestionBankRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionBankRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTransactionManager runs fn directly
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockEmbeddingService struct {
	mock.Mock
}

func (m *MockEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockBankService struct {
	mock.Mock
	BankService
}

func (m *MockBankService) SaveGenerated(ctx context.Context, ownerID, bankID, title string, questions []*domain.Question) (string, error) {
	args := m.Called(ctx, ownerID, bankID, title, questions)
	return args.String(0), args.Error(1)
}

// --- Fakes ---

type extractorFunc func(ctx context.Context, doc *domain.Document) (*domain.ExtractedText, error)

func (f extractorFunc) Extract(ctx context.Context, doc *domain.Document) (*domain.ExtractedText, error) {
	return f(ctx, doc)
}

type candidateFunc func(ctx context.Context, req domain.CandidateRequest) (*domain.Candidate, error)

func (f candidateFunc) GenerateCandidate(ctx context.Context, req domain.CandidateRequest) (*domain.Candidate, error) {
	return f(ctx, req)
}

func newTestConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxFileSizeMB:     1,
			AllowedExtensions: []string{".pdf", ".docx"},
			Workers:           2,
		},
		Chunking: config.ChunkingConfig{
			Unit:        "words",
			TargetSize:  50,
			Overlap:     10,
			MaxConcepts: 5,
		},
		Generation: config.GenerationConfig{
			Strategy:    "template",
			CallTimeout: time.Second,
			Workers:     4,
		},
		Embedding: config.EmbeddingConfig{
			SimilarityThreshold: 0.95,
		},
		CacheTTLs: config.CacheTTLConfig{
			Bank: "10m",
		},
	}
}
