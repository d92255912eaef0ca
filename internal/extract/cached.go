package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-forge/internal/cache"
	"quiz-forge/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedExtractor memoizes extraction results by content hash and collapses
// concurrent extractions of identical content.
type CachedExtractor struct {
	next    domain.Extractor
	cache   domain.Cache
	ttl     time.Duration
	sfGroup singleflight.Group
	logger  *zap.Logger
}

// NewCachedExtractor wraps next with cache.
func NewCachedExtractor(next domain.Extractor, c domain.Cache, ttl time.Duration, logger *zap.Logger) *CachedExtractor {
	return &CachedExtractor{next: next, cache: c, ttl: ttl, logger: logger}
}

var _ domain.Extractor = (*CachedExtractor)(nil)

// Extract returns a cached result when one exists for the same bytes. The
// cached result is re-labelled with doc.ID.
func (c *CachedExtractor) Extract(ctx context.Context, doc *domain.Document) (*domain.ExtractedText, error) {
	if doc == nil || len(doc.Content) == 0 {
		return c.next.Extract(ctx, doc)
	}
	sum := sha256.Sum256(doc.Content)
	key := cache.GenerateCacheKey("extract", "text", hex.EncodeToString(sum[:]))

	if cached, err := c.cache.Get(ctx, key); err == nil {
		var result domain.ExtractedText
		if errDecode := json.Unmarshal([]byte(cached), &result); errDecode == nil {
			result.SourceDocumentID = doc.ID
			return &result, nil
		} else {
			c.logger.Warn("Failed to decode cached extraction", zap.String("key", key), zap.Error(errDecode))
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		c.logger.Warn("Extraction cache read failed", zap.String("key", key), zap.Error(err))
	}

	// the flight outlives any single caller; each caller waits on its own ctx
	flightCtx := context.WithoutCancel(ctx)
	ch := c.sfGroup.DoChan(key, func() (interface{}, error) {
		result, err := c.next.Extract(flightCtx, doc)
		if err != nil {
			return nil, err
		}
		if result.OCRTimedOut {
			return result, nil
		}
		payload, err := json.Marshal(result)
		if err != nil {
			c.logger.Warn("Failed to encode extraction for cache", zap.Error(err))
			return result, nil
		}
		if err := c.cache.Set(flightCtx, key, string(payload), c.ttl); err != nil {
			c.logger.Warn("Extraction cache write failed", zap.String("key", key), zap.Error(err))
		}
		return result, nil
	})

	var res interface{}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res = r.Val
	}

	result, ok := res.(*domain.ExtractedText)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight.DoChan for extraction: %T", res)
	}
	// callers sharing a flight must not share the struct
	out := *result
	out.SourceDocumentID = doc.ID
	return &out, nil
}
