package blacklist

import (
	"context"
	"sync"
	"time"
)

// InMemoryBlacklist is the test/dev blacklist. Entries expire lazily on read.
type InMemoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemory constructs an empty in-memory blacklist.
func NewMemory() *InMemoryBlacklist {
	return &InMemoryBlacklist{entries: make(map[string]time.Time)}
}

func (b *InMemoryBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[jti] = time.Now().Add(ttl)
	return nil
}

func (b *InMemoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	deadline, ok := b.entries[jti]
	if !ok {
		return false, nil
	}
	return time.Now().Before(deadline), nil
}

func (b *InMemoryBlacklist) RevokeMany(ctx context.Context, ttls map[string]time.Duration) error {
	for jti, ttl := range ttls {
		if err := b.Revoke(ctx, jti, ttl); err != nil {
			return err
		}
	}
	return nil
}
