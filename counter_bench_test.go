package cymometer

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisBench(b *testing.B) (*miniredis.Miniredis, *redis.Client) {
	b.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		b.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func BenchmarkMemoryStoreIncrement(b *testing.B) {
	s := NewMemoryStore()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _, _ = s.Increment(ctx, "bench", time.Now(), time.Hour, 1<<40)
	}
}

func BenchmarkMemoryStoreIncrementParallel(b *testing.B) {
	s := NewMemoryStore()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _, _ = s.Increment(ctx, "bench", time.Now(), time.Hour, 1<<40)
		}
	})
}

func BenchmarkCounterIncrementAdmitted(b *testing.B) {
	c, err := NewCounter(CounterConfig{
		ID:      "bench",
		Limit:   1 << 40,
		Window:  time.Hour,
		Store:   NewMemoryStore(),
		Metrics: NewMetrics(MetricsConfig{Enabled: true}),
	})
	if err != nil {
		b.Fatalf("NewCounter failed: %v", err)
	}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = c.Increment(ctx)
	}
}

func BenchmarkCounterIncrementRejected(b *testing.B) {
	c, err := NewCounter(CounterConfig{
		ID:     "bench",
		Limit:  1,
		Window: time.Hour,
		Store:  NewMemoryStore(),
	})
	if err != nil {
		b.Fatalf("NewCounter failed: %v", err)
	}
	ctx := context.Background()
	if _, err := c.Increment(ctx); err != nil {
		b.Fatalf("fill: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = c.Increment(ctx)
	}
}

func BenchmarkRedisStoreIncrement(b *testing.B) {
	mr, rdb := newTestRedisBench(b)
	defer mr.Close()

	s := NewRedisStore(rdb)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, _, err := s.Increment(ctx, "bench", time.Now(), time.Minute, 1<<40); err != nil {
			b.Fatalf("increment: %v", err)
		}
	}
}
