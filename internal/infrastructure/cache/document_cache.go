package cache

import (
	"sync"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

// DocumentCache remembers ingested documents by content hash. Entries are
// never evicted; the map grows until process restart. An external sweep can
// be layered on top without touching callers.
type DocumentCache struct {
	mu      sync.RWMutex
	entries map[string]domain.CachedDocument
}

func NewDocumentCache() *DocumentCache {
	return &DocumentCache{entries: make(map[string]domain.CachedDocument)}
}

func (c *DocumentCache) Get(documentID string) (domain.CachedDocument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[documentID]
	return entry, ok
}

func (c *DocumentCache) Put(documentID string, entry domain.CachedDocument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[documentID] = entry
}

func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
