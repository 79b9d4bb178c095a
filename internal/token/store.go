package token

import (
	"context"
	"time"
)

// Error Contract:
// All store methods follow this pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested entry does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// SessionStore persists session records keyed by refresh-token identifier.
// Consume is the rotation exclusivity primitive: it must atomically fetch and
// remove the record so that exactly one of N racing callers wins.
type SessionStore interface {
	Create(ctx context.Context, refreshID string, rec SessionRecord, ttl time.Duration) error
	Find(ctx context.Context, refreshID string) (*SessionRecord, error)
	Consume(ctx context.Context, refreshID string) (*SessionRecord, error)
	Delete(ctx context.Context, refreshID string) error
	IDsByPrincipal(ctx context.Context, domain, uid string) ([]string, error)
}

// Blacklist rejects access tokens before their natural expiry. Membership
// checks sit on the hot path of every authenticated request. Markers never
// outlive the token they block, so every entry carries its own TTL.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	RevokeMany(ctx context.Context, ttls map[string]time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
