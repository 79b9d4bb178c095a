package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trustcore/internal/token"
	"trustcore/pkg/sentinel"
)

const (
	// Key namespaces. The root prefix is shared with every other concern in
	// the deployment; do not change without a migration.
	sessionKeyPrefix = "trust:session:"
	indexKeyPrefix   = "trust:sessidx:"
)

// RedisStore is the production session store. Rotation exclusivity is
// delegated to Redis GETDEL: the fetch-and-remove happens server side in a
// single command, so two replicas racing on the same refresh token cannot both
// observe the record.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedis constructs a Redis-backed session store.
func NewRedis(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(refreshID string) string {
	return sessionKeyPrefix + refreshID
}

func indexKey(domain, uid string) string {
	return indexKeyPrefix + domain + ":" + uid
}

func (s *RedisStore) Create(ctx context.Context, refreshID string, rec token.SessionRecord, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(refreshID), payload, ttl)
	pipe.SAdd(ctx, indexKey(rec.Domain, rec.UID), refreshID)
	// The index only needs to outlive the longest-lived member.
	pipe.Expire(ctx, indexKey(rec.Domain, rec.UID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session record: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, refreshID string) (*token.SessionRecord, error) {
	payload, err := s.client.Get(ctx, sessionKey(refreshID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session record not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session record: %w", err)
	}
	return unmarshalRecord(payload)
}

// Consume atomically fetches and deletes the record. A missing key means the
// refresh token is unknown or was already consumed; the caller treats both as
// replay.
func (s *RedisStore) Consume(ctx context.Context, refreshID string) (*token.SessionRecord, error) {
	payload, err := s.client.GetDel(ctx, sessionKey(refreshID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session record not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("consume session record: %w", err)
	}

	rec, err := unmarshalRecord(payload)
	if err != nil {
		return nil, err
	}
	// Index cleanup is best effort; a dangling member ages out with the set.
	_ = s.client.SRem(ctx, indexKey(rec.Domain, rec.UID), refreshID).Err()
	return rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, refreshID string) error {
	payload, err := s.client.GetDel(ctx, sessionKey(refreshID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	if rec, err := unmarshalRecord(payload); err == nil {
		_ = s.client.SRem(ctx, indexKey(rec.Domain, rec.UID), refreshID).Err()
	}
	return nil
}

func (s *RedisStore) IDsByPrincipal(ctx context.Context, domain, uid string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, indexKey(domain, uid)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions for principal: %w", err)
	}
	return ids, nil
}

func unmarshalRecord(payload []byte) (*token.SessionRecord, error) {
	var rec token.SessionRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &rec, nil
}
