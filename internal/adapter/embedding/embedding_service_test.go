package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"testing"
	"time"

	"quiz-forge/internal/cache"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbedder is a mock type for the embeddings.Embedder interface
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
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

func gobEncode(t *testing.T, v []float32) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(v))
	return buf.String()
}

func TestService_Generate_CacheMissThenStore(t *testing.T) {
	ctx := context.Background()
	text := "photosynthesis"
	key := cache.GenerateCacheKey("embedding", "ollama", hashString(text))
	vec := []float32{0.1, 0.2, 0.3}

	mockEmb := new(MockEmbedder)
	mockCache := new(MockCache)
	mockCache.On("Get", ctx, key).Return("", domain.ErrCacheMiss).Once()
	mockEmb.On("EmbedQuery", ctx, text).Return(vec, nil).Once()
	mockCache.On("Set", ctx, key, gobEncode(t, vec), time.Hour).Return(nil).Once()

	svc := NewService("ollama", mockEmb, mockCache, time.Hour, nil)
	got, err := svc.Generate(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, vec, got)
	mockEmb.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_Generate_CacheHit(t *testing.T) {
	ctx := context.Background()
	text := "mitochondria"
	key := cache.GenerateCacheKey("embedding", "openai", hashString(text))
	vec := []float32{1, 0, 0}

	mockEmb := new(MockEmbedder)
	mockCache := new(MockCache)
	mockCache.On("Get", ctx, key).Return(gobEncode(t, vec), nil).Once()

	svc := NewService("openai", mockEmb, mockCache, 0, nil)
	got, err := svc.Generate(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, vec, got)
	mockEmb.AssertNotCalled(t, "EmbedQuery", mock.Anything, mock.Anything)
}

func TestService_Generate_Errors(t *testing.T) {
	ctx := context.Background()

	svc := NewService("ollama", new(MockEmbedder), nil, 0, nil)
	_, err := svc.Generate(ctx, "")
	assert.Error(t, err)

	mockEmb := new(MockEmbedder)
	mockEmb.On("EmbedQuery", ctx, "x").Return(nil, errors.New("model not loaded")).Once()
	svc = NewService("ollama", mockEmb, nil, 0, nil)
	_, err = svc.Generate(ctx, "x")
	assert.ErrorContains(t, err, "model not loaded")

	mockEmb.On("EmbedQuery", ctx, "y").Return([]float32{}, nil).Once()
	_, err = svc.Generate(ctx, "y")
	assert.ErrorContains(t, err, "empty embedding")
}

func TestProviders_Validation(t *testing.T) {
	_, err := NewOllamaEmbeddingService("", "nomic-embed-text", nil, 0, nil)
	assert.ErrorContains(t, err, "server URL cannot be empty")
	_, err = NewOllamaEmbeddingService("http://localhost:11434", "", nil, 0, nil)
	assert.ErrorContains(t, err, "model name cannot be empty")
	_, err = NewOpenAIEmbeddingService("", "", "", nil, 0, nil)
	assert.ErrorContains(t, err, "API key cannot be empty")
}

func TestNewFromConfig(t *testing.T) {
	cfg := &config.Config{}
	svc, err := NewFromConfig(cfg, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, svc)

	cfg.Embedding.Source = "word2vec"
	_, err = NewFromConfig(cfg, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	cfg.Embedding.Source = "ollama"
	_, err = NewFromConfig(cfg, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
