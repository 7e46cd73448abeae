package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	path      string
	expiresAt time.Time
}

// MemoryCache is a process-local ResolverCache for running without Redis.
// Entries are not shared between processes.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, id string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[id]
	if !exists || !c.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.path, true, nil
}

func (c *MemoryCache) SetIfAbsent(ctx context.Context, id, path string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, exists := c.entries[id]; exists && now.Before(e.expiresAt) {
		return false, nil
	}

	c.entries[id] = entry{path: path, expiresAt: now.Add(ttl)}
	return true, nil
}

// Len returns the number of live entries and drops expired ones.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, id)
		}
	}
	return len(c.entries)
}
