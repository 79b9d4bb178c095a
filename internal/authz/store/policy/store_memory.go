package policy

import (
	"context"
	"sync"

	"trustcore/internal/authz"
)

// MemoryStore keeps policy tuples in memory for tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	tuples map[authz.PolicyTuple]struct{}
}

// NewMemory constructs an empty in-memory policy store.
func NewMemory() *MemoryStore {
	return &MemoryStore{tuples: make(map[authz.PolicyTuple]struct{})}
}

func (s *MemoryStore) Grant(_ context.Context, tuple authz.PolicyTuple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tuples[tuple] = struct{}{}
	return nil
}

func (s *MemoryStore) Revoke(_ context.Context, tuple authz.PolicyTuple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tuples, tuple)
	return nil
}

func (s *MemoryStore) TuplesForRoles(_ context.Context, domain string, roles []string) ([]authz.PolicyTuple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}
	var out []authz.PolicyTuple
	for tuple := range s.tuples {
		if tuple.Domain != domain {
			continue
		}
		if _, ok := roleSet[tuple.SubjectRole]; ok {
			out = append(out, tuple)
		}
	}
	return out, nil
}

func (s *MemoryStore) RemoveDomain(_ context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tuple := range s.tuples {
		if tuple.Domain == domain {
			delete(s.tuples, tuple)
		}
	}
	return nil
}
