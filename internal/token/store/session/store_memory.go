package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trustcore/internal/token"
	"trustcore/pkg/sentinel"
)

// InMemoryStore keeps session records in memory for tests/dev. Expiry is
// checked lazily on read; there is no background sweeper.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryEntry
}

type memoryEntry struct {
	rec       token.SessionRecord
	expiresAt time.Time
}

// NewMemory constructs an empty in-memory session store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]memoryEntry)}
}

func (s *InMemoryStore) Create(_ context.Context, refreshID string, rec token.SessionRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[refreshID] = memoryEntry{rec: rec, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, refreshID string) (*token.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[refreshID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, fmt.Errorf("session record not found: %w", sentinel.ErrNotFound)
	}
	rec := entry.rec
	return &rec, nil
}

// Consume removes and returns the record under one lock acquisition, matching
// the atomicity of the Redis GETDEL implementation.
func (s *InMemoryStore) Consume(_ context.Context, refreshID string) (*token.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[refreshID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, fmt.Errorf("session record not found: %w", sentinel.ErrNotFound)
	}
	delete(s.records, refreshID)
	rec := entry.rec
	return &rec, nil
}

func (s *InMemoryStore) Delete(_ context.Context, refreshID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, refreshID)
	return nil
}

func (s *InMemoryStore) IDsByPrincipal(_ context.Context, domain, uid string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	now := time.Now()
	for id, entry := range s.records {
		if entry.rec.Domain == domain && entry.rec.UID == uid && now.Before(entry.expiresAt) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
