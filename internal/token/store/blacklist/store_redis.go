package blacklist

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	isRevokedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trustcore_is_token_revoked_duration_ms",
		Help:    "Latency of access token blacklist checks in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)

const (
	// Redis key prefix for blacklisted access token ids.
	blacklistKeyPrefix = "trust:blacklist:"
)

// RedisBlacklist is a Redis-backed access token blacklist. This is the
// production implementation for distributed deployments where multiple
// instances need to share revocation state.
type RedisBlacklist struct {
	client redis.Cmdable
}

// NewRedis constructs a Redis-backed blacklist.
func NewRedis(client redis.Cmdable) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

// Revoke adds an access token id to the blacklist with TTL. Setting an already
// blacklisted id again simply refreshes the marker, so the operation is
// idempotent. Uses Redis SET with expiry for atomic set-with-TTL.
func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	key := blacklistKeyPrefix + jti
	// Store "1" as a simple marker; the key existence is what matters
	return b.client.Set(ctx, key, "1", ttl).Err()
}

// IsRevoked checks blacklist membership. Returns false if the key does not
// exist (never revoked, or the revocation outlived the token).
func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if jti == "" {
		return false, nil
	}
	key := blacklistKeyPrefix + jti
	_, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RevokeMany blacklists multiple token ids with one round trip, each with its
// own TTL. Used when all sessions of a principal are being torn down.
func (b *RedisBlacklist) RevokeMany(ctx context.Context, ttls map[string]time.Duration) error {
	if len(ttls) == 0 {
		return nil
	}
	pipe := b.client.Pipeline()
	for jti, ttl := range ttls {
		if jti != "" && ttl > 0 {
			pipe.Set(ctx, blacklistKeyPrefix+jti, "1", ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}
