// Package embedding adapts langchaingo embedders to domain.EmbeddingService
// with a shared cache in front of the model.
package embedding

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"quiz-forge/internal/cache"
	"quiz-forge/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the cache lifetime of an embedding
const DefaultTTL = 168 * time.Hour

// Service implements domain.EmbeddingService. Concurrent requests for the
// same text share one model call.
type Service struct {
	source   string
	embedder embeddings.Embedder
	cache    domain.Cache
	ttl      time.Duration
	sfGroup  singleflight.Group
	logger   *zap.Logger
}

// NewService wraps embedder. cache may be nil.
func NewService(source string, embedder embeddings.Embedder, c domain.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, embedder: embedder, cache: c, ttl: ttl, logger: logger}
}

func hashString(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Generate creates an embedding for text, consulting the cache first.
func (s *Service) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	cacheKey := cache.GenerateCacheKey("embedding", s.source, hashString(text))
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var vec []float32
			errDecode := gob.NewDecoder(bytes.NewReader([]byte(cached))).Decode(&vec)
			if errDecode == nil {
				s.logger.Debug("Embedding cache hit", zap.String("source", s.source))
				return vec, nil
			}
			s.logger.Warn("Failed to decode cached embedding", zap.Error(errDecode), zap.String("cache_key", cacheKey))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("Failed to read embedding cache", zap.Error(err), zap.String("cache_key", cacheKey))
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		raw, fetchErr := s.embedder.EmbedQuery(ctx, text)
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to generate embedding using %s: %w", s.source, fetchErr)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("received empty embedding from %s", s.source)
		}
		vec := make([]float32, len(raw))
		for i, v := range raw {
			vec[i] = float32(v)
		}

		if s.cache != nil {
			var buf bytes.Buffer
			if errEncode := gob.NewEncoder(&buf).Encode(vec); errEncode != nil {
				s.logger.Warn("Failed to encode embedding for caching", zap.Error(errEncode))
				return vec, nil
			}
			if errSet := s.cache.Set(ctx, cacheKey, buf.String(), s.ttl); errSet != nil {
				s.logger.Warn("Failed to cache embedding", zap.Error(errSet), zap.String("cache_key", cacheKey))
			}
		}
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	vec, ok := res.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight.Do for embedding: %T", res)
	}
	return vec, nil
}

var _ domain.EmbeddingService = (*Service)(nil)
