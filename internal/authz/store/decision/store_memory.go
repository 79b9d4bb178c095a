package decision

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCache is the test/dev decision cache. Entries expire lazily on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	allowed   bool
	expiresAt time.Time
}

// NewMemory constructs an empty in-memory decision cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, domain, uid, resource, action string) (bool, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[decisionKey(domain, uid, resource, action)]
	if !ok || time.Now().After(entry.expiresAt) {
		return false, false, nil
	}
	return entry.allowed, true, nil
}

func (c *MemoryCache) Set(_ context.Context, domain, uid, resource, action string, allowed bool, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[decisionKey(domain, uid, resource, action)] = memoryEntry{
		allowed:   allowed,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache) InvalidateDomain(_ context.Context, domain string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := domainPrefix(domain)
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *MemoryCache) InvalidatePrincipal(_ context.Context, domain, uid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := principalPrefix(domain, uid)
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}
