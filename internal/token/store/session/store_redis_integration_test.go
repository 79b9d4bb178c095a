//go:build integration

package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"trustcore/internal/token"
	"trustcore/internal/token/store/session"
	"trustcore/pkg/sentinel"
	"trustcore/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = session.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeRecord(uid string) token.SessionRecord {
	return token.SessionRecord{
		UID:             uid,
		Username:        "alice",
		Domain:          "tenantA",
		IssuedAt:        time.Now(),
		AccessJTI:       "jti-" + uid,
		AccessExpiresAt: time.Now().Add(15 * time.Minute),
	}
}

func (s *RedisStoreSuite) TestCreateFindConsume() {
	ctx := context.Background()
	rec := makeRecord("u1")
	s.Require().NoError(s.store.Create(ctx, "rt_1", rec, time.Minute))

	found, err := s.store.Find(ctx, "rt_1")
	s.Require().NoError(err)
	s.Equal(rec.UID, found.UID)
	s.Equal(rec.AccessJTI, found.AccessJTI)

	consumed, err := s.store.Consume(ctx, "rt_1")
	s.Require().NoError(err)
	s.Equal(rec.UID, consumed.UID)

	_, err = s.store.Find(ctx, "rt_1")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

// TestConcurrentConsume verifies that GETDEL gives exactly one of N racing
// consumers the record; the rest observe an absent key.
func (s *RedisStoreSuite) TestConcurrentConsume() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, "rt_1", makeRecord("u1"), time.Minute))

	const goroutines = 20
	var wg sync.WaitGroup
	var successCount atomic.Int32
	var notFoundCount atomic.Int32
	var otherErrors atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Consume(ctx, "rt_1")
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrNotFound):
				notFoundCount.Add(1)
			default:
				otherErrors.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one consume should succeed")
	s.Equal(int32(goroutines-1), notFoundCount.Load(), "remaining should miss")
	s.Equal(int32(0), otherErrors.Load(), "no unexpected errors")
}

func (s *RedisStoreSuite) TestRecordExpires() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, "rt_1", makeRecord("u1"), 100*time.Millisecond))

	time.Sleep(300 * time.Millisecond)

	_, err := s.store.Find(ctx, "rt_1")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *RedisStoreSuite) TestIndexTracksPrincipalSessions() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, "rt_1", makeRecord("u1"), time.Minute))
	s.Require().NoError(s.store.Create(ctx, "rt_2", makeRecord("u1"), time.Minute))

	ids, err := s.store.IDsByPrincipal(ctx, "tenantA", "u1")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"rt_1", "rt_2"}, ids)

	// Consuming removes the member from the index.
	_, err = s.store.Consume(ctx, "rt_1")
	s.Require().NoError(err)

	ids, err = s.store.IDsByPrincipal(ctx, "tenantA", "u1")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"rt_2"}, ids)
}

func (s *RedisStoreSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, "rt_1", makeRecord("u1"), time.Minute))

	s.Require().NoError(s.store.Delete(ctx, "rt_1"))
	s.Require().NoError(s.store.Delete(ctx, "rt_1"))
}
