package cymometer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/chtzvt/cymometer/internal/zwindow"
)

// RedisStore implements [Store] on a Redis-compatible server using one
// sorted set per counter key and server-side atomic scripts. The client is
// owned by the caller and may be shared freely; RedisStore adds no state
// beyond it and is safe for concurrent use to the extent the client is.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing client. Works with single-node, cluster,
// and ring clients; every operation touches exactly one key.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Increment(ctx context.Context, key string, now time.Time, window time.Duration, limit int64) (bool, int64, error) {
	nowMicros := now.UnixMicro()
	// Entry members carry a random suffix so that two admissions landing in
	// the same microsecond stay two distinct entries.
	member := strconv.FormatInt(nowMicros, 10) + "-" + uuid.NewString()

	admitted, count, err := zwindow.Admit(ctx, s.client, key, nowMicros, window.Microseconds(), limit, member)
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return admitted, count, nil
}

func (s *RedisStore) Decrement(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	count, err := zwindow.RemoveOldest(ctx, s.client, key, now.UnixMicro(), window.Microseconds())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

func (s *RedisStore) Count(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	count, err := zwindow.Count(ctx, s.client, key, now.UnixMicro(), window.Microseconds())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}
