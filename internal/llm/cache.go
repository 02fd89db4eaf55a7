package llm

import (
	"sync"
	"time"
)

// suggestionCache is a TTL cache for provider answers, keyed by content hash.
// Repeated captures of the same content skip the network entirely.
type suggestionCache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	expiresAt  time.Time
	suggestion Suggestion
	provider   string
}

func newSuggestionCache(ttl time.Duration) *suggestionCache {
	c := &suggestionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

func (c *suggestionCache) get(key string) (Suggestion, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return Suggestion{}, "", false
	}
	return entry.suggestion, entry.provider, true
}

func (c *suggestionCache) set(key string, suggestion Suggestion, provider string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		suggestion: suggestion,
		provider:   provider,
		expiresAt:  time.Now().Add(c.ttl),
	}
}

func (c *suggestionCache) cleanupLoop() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.done:
			return
		}
	}
}

func (c *suggestionCache) evictExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *suggestionCache) close() {
	c.once.Do(func() { close(c.done) })
}
