package cache

import (
	"sync"
	"time"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

type queryEntry struct {
	response *domain.RetrievalResponse
	storedAt time.Time
}

// QueryCache holds finished responses by query hash for a fixed TTL.
// Eviction is lazy: an expired entry is treated as absent (and removed) only
// when it is read again. Entries that are never re-read stay in memory until
// process restart, so cache memory grows unboundedly without an external
// sweep.
type QueryCache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]queryEntry
}

func NewQueryCache(ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &QueryCache{
		ttl:     ttl,
		entries: make(map[string]queryEntry),
	}
}

// GetFresh returns the cached response only while now - storedAt < TTL.
func (c *QueryCache) GetFresh(queryHash string, now time.Time) (*domain.RetrievalResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[queryHash]
	if !ok {
		return nil, false
	}
	if now.Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, queryHash)
		return nil, false
	}
	return entry.response, true
}

func (c *QueryCache) Put(queryHash string, response *domain.RetrievalResponse, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[queryHash] = queryEntry{response: response, storedAt: now}
}

func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
