package decision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	decisionKeyPrefix = "trust:decision:"
	indexKeyPrefix    = "trust:decidx:"

	allowValue = "allow"
	denyValue  = "deny"
)

// RedisCache memoizes authorization decisions. Every entry is registered in a
// per-domain index set so domain and principal invalidation work without SCAN.
type RedisCache struct {
	client redis.Cmdable
}

// NewRedis constructs a Redis-backed decision cache.
func NewRedis(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client}
}

// escapePart keeps ":" unambiguous inside composed keys; resources carry ":"
// in their own grammar ("doc:*"), and nothing stops a uid from containing one.
func escapePart(part string) string {
	part = strings.ReplaceAll(part, "%", "%25")
	return strings.ReplaceAll(part, ":", "%3A")
}

func decisionKey(domain, uid, resource, action string) string {
	return principalPrefix(domain, uid) + escapePart(resource) + ":" + escapePart(action)
}

func principalPrefix(domain, uid string) string {
	return decisionKeyPrefix + escapePart(domain) + ":" + escapePart(uid) + ":"
}

func domainPrefix(domain string) string {
	return decisionKeyPrefix + escapePart(domain) + ":"
}

func indexKey(domain string) string {
	return indexKeyPrefix + escapePart(domain)
}

func (c *RedisCache) Get(ctx context.Context, domain, uid, resource, action string) (bool, bool, error) {
	value, err := c.client.Get(ctx, decisionKey(domain, uid, resource, action)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("decision cache get: %w", err)
	}
	return value == allowValue, true, nil
}

func (c *RedisCache) Set(ctx context.Context, domain, uid, resource, action string, allowed bool, ttl time.Duration) error {
	value := denyValue
	if allowed {
		value = allowValue
	}
	key := decisionKey(domain, uid, resource, action)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, value, ttl)
	pipe.SAdd(ctx, indexKey(domain), key)
	// Refreshing the index TTL on every write keeps it alive as long as its
	// newest member.
	pipe.Expire(ctx, indexKey(domain), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("decision cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) InvalidateDomain(ctx context.Context, domain string) error {
	keys, err := c.client.SMembers(ctx, indexKey(domain)).Result()
	if err != nil {
		return fmt.Errorf("decision cache index read: %w", err)
	}
	pipe := c.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, indexKey(domain))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("decision cache domain eviction: %w", err)
	}
	return nil
}

func (c *RedisCache) InvalidatePrincipal(ctx context.Context, domain, uid string) error {
	keys, err := c.client.SMembers(ctx, indexKey(domain)).Result()
	if err != nil {
		return fmt.Errorf("decision cache index read: %w", err)
	}
	prefix := principalPrefix(domain, uid)
	var matched []string
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, matched...)
	pipe.SRem(ctx, indexKey(domain), toAny(matched)...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("decision cache principal eviction: %w", err)
	}
	return nil
}

func toAny(keys []string) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}
