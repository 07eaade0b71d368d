package cymometer

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements [Store] in process memory: one mutex-guarded
// ascending score slice per key, with the same window semantics as
// [RedisStore]. It is meant for tests and single-process deployments —
// separate processes holding separate MemoryStores do not share limits.
type MemoryStore struct {
	mu         sync.Mutex
	keys       map[string]*memoryWindow
	sweepEvery time.Duration
}

type memoryWindow struct {
	scores   []int64 // entry times in microseconds, ascending
	expireAt int64   // microseconds; mirrors the Redis key TTL
}

// MemoryOption configures a [MemoryStore].
type MemoryOption func(*MemoryStore)

// WithSweepInterval sets how often [MemoryStore.StartJanitor] reclaims
// expired keys.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.sweepEvery = d }
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		keys:       make(map[string]*memoryWindow),
		sweepEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Increment(_ context.Context, key string, now time.Time, window time.Duration, limit int64) (bool, int64, error) {
	nowMicros := now.UnixMicro()
	windowMicros := window.Microseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.keys[key]
	if w == nil {
		w = &memoryWindow{}
		s.keys[key] = w
	}
	w.prune(nowMicros - windowMicros)

	count := int64(len(w.scores))
	if count >= limit {
		return false, count, nil
	}

	w.insert(nowMicros)
	w.expireAt = nowMicros + windowMicros
	return true, count + 1, nil
}

func (s *MemoryStore) Decrement(_ context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.keys[key]
	if w == nil {
		return 0, nil
	}
	w.prune(now.UnixMicro() - window.Microseconds())

	if len(w.scores) == 0 {
		delete(s.keys, key)
		return 0, nil
	}
	w.scores = w.scores[1:]
	return int64(len(w.scores)), nil
}

func (s *MemoryStore) Count(_ context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.keys[key]
	if w == nil {
		return 0, nil
	}
	w.prune(now.UnixMicro() - window.Microseconds())

	if len(w.scores) == 0 {
		delete(s.keys, key)
		return 0, nil
	}
	return int64(len(w.scores)), nil
}

// Size returns the number of keys currently held, including expired keys
// the janitor has not reclaimed yet.
func (s *MemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Sweep reclaims keys whose TTL has passed, the way Redis expiry would.
// The janitor calls this periodically; calling it by hand is harmless.
func (s *MemoryStore) Sweep() {
	nowMicros := time.Now().UnixMicro()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, w := range s.keys {
		if w.expireAt <= nowMicros {
			delete(s.keys, key)
		}
	}
}

// StartJanitor sweeps expired keys periodically until ctx is done. Without
// a janitor the store still gives correct answers; idle keys just hold
// memory until touched.
func (s *MemoryStore) StartJanitor(ctx context.Context) {
	if s.sweepEvery <= 0 {
		return
	}

	t := time.NewTicker(s.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}

func (w *memoryWindow) prune(cutoff int64) {
	i := 0
	for i < len(w.scores) && w.scores[i] < cutoff {
		i++
	}
	if i > 0 {
		w.scores = w.scores[i:]
	}
}

// insert keeps scores ascending even when callers hand in non-monotonic
// clock readings, matching sorted-set ordering.
func (w *memoryWindow) insert(score int64) {
	i := len(w.scores)
	for i > 0 && w.scores[i-1] > score {
		i--
	}
	w.scores = append(w.scores, 0)
	copy(w.scores[i+1:], w.scores[i:])
	w.scores[i] = score
}
