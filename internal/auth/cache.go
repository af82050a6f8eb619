package auth

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/logger"
)

// DefaultKeySetTTL is how long a fetched key set is reused.
const DefaultKeySetTTL = 300 * time.Second

// FetchFunc retrieves the key set published at url.
type FetchFunc func(ctx context.Context, url string) (*KeySet, error)

type cachedKeySet struct {
	keys      *KeySet
	fetchedAt time.Time
}

// KeySetCache keeps the most recent key set per source URL. An entry is
// served while it is younger than the TTL and refetched afterwards.
// Concurrent misses may each fetch; the last write wins.
type KeySetCache struct {
	fetch FetchFunc
	now   func() time.Time
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]cachedKeySet
}

// NewKeySetCache creates a cache around fetch. A nil clock means time.Now
// and a non-positive ttl means DefaultKeySetTTL.
func NewKeySetCache(fetch FetchFunc, now func() time.Time, ttl time.Duration) *KeySetCache {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultKeySetTTL
	}
	return &KeySetCache{
		fetch:   fetch,
		now:     now,
		ttl:     ttl,
		entries: make(map[string]cachedKeySet),
	}
}

// Get returns the key set for url, fetching it when absent or stale.
// Fetch failures are returned as-is and leave any stale entry in place.
func (c *KeySetCache) Get(ctx context.Context, url string) (*KeySet, error) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()
	if ok && now.Sub(entry.fetchedAt) < c.ttl {
		return entry.keys, nil
	}

	keys, err := c.fetch(ctx, url)
	if err != nil {
		logger.Named("auth").Warnw("jwks fetch failed", "url", url, "error", err)
		return nil, err
	}
	logger.Named("auth").Debugw("jwks fetched", "url", url, "keys", keys.Len())

	c.mu.Lock()
	c.entries[url] = cachedKeySet{keys: keys, fetchedAt: now}
	c.mu.Unlock()
	return keys, nil
}
