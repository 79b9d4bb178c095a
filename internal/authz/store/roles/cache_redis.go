package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trustcore/internal/authz"
)

const roleKeyPrefix = "trust:roles:"

// RedisCachedSource decorates a RoleSource with a per-principal Redis cache.
// The role cache carries its own TTL policy, independent of the decision
// cache. A cache failure falls through to the underlying source.
type RedisCachedSource struct {
	client redis.Cmdable
	source authz.RoleSource
	ttl    time.Duration
}

// NewRedisCachedSource wraps source with a Redis cache.
func NewRedisCachedSource(client redis.Cmdable, source authz.RoleSource, ttl time.Duration) *RedisCachedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCachedSource{client: client, source: source, ttl: ttl}
}

func roleKey(domain, uid string) string {
	return roleKeyPrefix + domain + ":" + uid
}

func (s *RedisCachedSource) RolesOf(ctx context.Context, uid, domain string) ([]string, error) {
	// Cache misses and cache errors both fall through to the source; the
	// cache is advisory.
	payload, err := s.client.Get(ctx, roleKey(domain, uid)).Bytes()
	if err == nil {
		var roles []string
		if jsonErr := json.Unmarshal(payload, &roles); jsonErr == nil {
			return roles, nil
		}
	}

	roles, err := s.source.RolesOf(ctx, uid, domain)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(roles); err == nil {
		_ = s.client.Set(ctx, roleKey(domain, uid), payload, s.ttl).Err()
	}
	return roles, nil
}

// InvalidateRoles drops the cached assignment for one principal.
func (s *RedisCachedSource) InvalidateRoles(ctx context.Context, domain, uid string) error {
	if err := s.client.Del(ctx, roleKey(domain, uid)).Err(); err != nil {
		return fmt.Errorf("invalidate role cache: %w", err)
	}
	return nil
}
