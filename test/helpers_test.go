//go:build integration
// +build integration

package test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/chtzvt/cymometer"
)

func newRedisBackedStore(t *testing.T) (*cymometer.RedisStore, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := cymometer.NewRedisStore(rdb)

	return store, mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func newCounter(t *testing.T, store cymometer.Store, id string, limit int64, window time.Duration) *cymometer.Counter {
	t.Helper()

	c, err := cymometer.NewCounter(cymometer.CounterConfig{
		ID:     id,
		Limit:  limit,
		Window: window,
		Store:  store,
	})
	if err != nil {
		t.Fatalf("NewCounter failed: %v", err)
	}
	return c
}
