package handler_test

import (
	"context"
	"testing"
	"time"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/handler"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "handler-test-secret"

// --- Manual Mocks ---

type MockIngestService struct {
	ProcessFilesFunc func(ctx context.Context, docs []*domain.Document) (dto.UploadResponse, error)
}

func (m *MockIngestService) ProcessFiles(ctx context.Context, docs []*domain.Document) (dto.UploadResponse, error) {
	if m.ProcessFilesFunc != nil {
		return m.ProcessFilesFunc(ctx, docs)
	}
	panic("MockIngestService.ProcessFilesFunc not implemented")
}

type MockGenerationService struct {
	GenerateFunc  func(ctx context.Context, ownerID string, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
	ModelInfoFunc func() *dto.ModelInfoResponse
}

func (m *MockGenerationService) Generate(ctx context.Context, ownerID string, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, ownerID, req)
	}
	panic("MockGenerationService.GenerateFunc not implemented")
}

func (m *MockGenerationService) ModelInfo() *dto.ModelInfoResponse {
	if m.ModelInfoFunc != nil {
		return m.ModelInfoFunc()
	}
	panic("MockGenerationService.ModelInfoFunc not implemented")
}

type MockExportService struct {
	ExportFunc func(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error)
}

func (m *MockExportService) Export(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, req)
	}
	panic("MockExportService.ExportFunc not implemented")
}

type MockBankService struct {
	CreateFunc        func(ctx context.Context, ownerID string, req *dto.BankRequest) (*dto.BankResponse, error)
	GetFunc           func(ctx context.Context, ownerID, bankID string) (*dto.BankResponse, error)
	ListFunc          func(ctx context.Context, ownerID string, limit, offset int) (*dto.BankListResponse, error)
	UpdateFunc        func(ctx context.Context, ownerID, bankID string, req *dto.BankRequest) (*dto.BankResponse, error)
	DeleteFunc        func(ctx context.Context, ownerID, bankID string) error
	SaveGeneratedFunc func(ctx context.Context, ownerID, bankID, title string, questions []*domain.Question) (string, error)
}

func (m *MockBankService) Create(ctx context.Context, ownerID string, req *dto.BankRequest) (*dto.BankResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, req)
	}
	panic("MockBankService.CreateFunc not implemented")
}

func (m *MockBankService) Get(ctx context.Context, ownerID, bankID string) (*dto.BankResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ownerID, bankID)
	}
	panic("MockBankService.GetFunc not implemented")
}

func (m *MockBankService) List(ctx context.Context, ownerID string, limit, offset int) (*dto.BankListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, limit, offset)
	}
	panic("MockBankService.ListFunc not implemented")
}

func (m *MockBankService) Update(ctx context.Context, ownerID, bankID string, req *dto.BankRequest) (*dto.BankResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, bankID, req)
	}
	panic("MockBankService.UpdateFunc not implemented")
}

func (m *MockBankService) Delete(ctx context.Context, ownerID, bankID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, bankID)
	}
	panic("MockBankService.DeleteFunc not implemented")
}

func (m *MockBankService) SaveGenerated(ctx context.Context, ownerID, bankID, title string, questions []*domain.Question) (string, error) {
	if m.SaveGeneratedFunc != nil {
		return m.SaveGeneratedFunc(ctx, ownerID, bankID, title, questions)
	}
	panic("MockBankService.SaveGeneratedFunc not implemented")
}

type MockCache struct {
	domain.Cache
	PingErr error
}

func (m *MockCache) Ping(ctx context.Context) error { return m.PingErr }

type testApp struct {
	app        *fiber.App
	ingest     *MockIngestService
	generation *MockGenerationService
	export     *MockExportService
	banks      *MockBankService
	cache      *MockCache
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ta := &testApp{
		ingest:     &MockIngestService{},
		generation: &MockGenerationService{},
		export:     &MockExportService{},
		banks:      &MockBankService{},
		cache:      &MockCache{},
	}

	verifier, err := service.NewTokenVerifier(testSecret, zap.NewNop())
	require.NoError(t, err)
	v := validation.NewValidator()

	ta.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(ta.app, handler.Routes{
		Pipeline:  handler.NewPipelineHandler(ta.ingest, ta.generation, ta.export, v),
		Banks:     handler.NewBankHandler(ta.banks, v),
		Health:    handler.NewHealthHandler(ta.cache, nil),
		Verifier:  verifier,
		Validator: v,
	})
	return ta
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := service.SignAccessToken(testSecret, userID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}
