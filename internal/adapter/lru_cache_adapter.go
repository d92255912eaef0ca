package adapter

import (
	"context"
	"time"

	"quiz-forge/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type lruEntry struct {
	value     string
	expiresAt time.Time
}

// LRUCacheAdapter is an in-process domain.Cache used when Redis is not
// configured. Entries live at most defaultTTL; a shorter per-call expiration
// is honoured on read.
type LRUCacheAdapter struct {
	cache *expirable.LRU[string, lruEntry]
	now   func() time.Time
}

// NewLRUCacheAdapter holds up to size entries. A non-positive defaultTTL
// disables time-based expiry.
func NewLRUCacheAdapter(size int, defaultTTL time.Duration) *LRUCacheAdapter {
	if size <= 0 {
		size = 1024
	}
	if defaultTTL < 0 {
		defaultTTL = 0
	}
	return &LRUCacheAdapter{
		cache: expirable.NewLRU[string, lruEntry](size, nil, defaultTTL),
		now:   time.Now,
	}
}

func (l *LRUCacheAdapter) Get(_ context.Context, key string) (string, error) {
	e, ok := l.cache.Get(key)
	if !ok {
		return "", domain.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !l.now().Before(e.expiresAt) {
		l.cache.Remove(key)
		return "", domain.ErrCacheMiss
	}
	return e.value, nil
}

func (l *LRUCacheAdapter) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	e := lruEntry{value: value}
	if expiration > 0 {
		e.expiresAt = l.now().Add(expiration)
	}
	l.cache.Add(key, e)
	return nil
}

func (l *LRUCacheAdapter) Delete(_ context.Context, key string) error {
	l.cache.Remove(key)
	return nil
}

func (l *LRUCacheAdapter) Ping(context.Context) error {
	return nil
}

var _ domain.Cache = (*LRUCacheAdapter)(nil)
