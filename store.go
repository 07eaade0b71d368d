package cymometer

import (
	"context"
	"time"
)

// Store is the contract for a shared, ordered, score-addressable backend.
// Each method executes as one indivisible unit as observed by every other
// caller of the same store: expired entries are evicted, the in-window
// count is taken, and any mutation is applied without other callers seeing
// an intermediate state.
//
// The caller supplies its own wall-clock reading for every call; stores
// never read the clock themselves. An entry is in-window when its recorded
// time falls in [now-window, +inf): entries recorded at exactly now-window
// still count, entries strictly older are evicted.
type Store interface {
	// Increment evicts expired entries, then admits a new entry unless the
	// in-window count already reached limit. It returns whether the entry
	// was admitted and the in-window count after the call. A rejection
	// still performs the eviction pass but records nothing.
	Increment(ctx context.Context, key string, now time.Time, window time.Duration, limit int64) (admitted bool, count int64, err error)

	// Decrement evicts expired entries, then removes the oldest in-window
	// entry if one exists. It returns the in-window count after the call.
	// Decrementing an empty window is a no-op returning 0, never an error.
	Decrement(ctx context.Context, key string, now time.Time, window time.Duration) (count int64, err error)

	// Count evicts expired entries and returns the in-window count. The
	// logical count never changes: eviction only discards entries that no
	// longer count anyway.
	Count(ctx context.Context, key string, now time.Time, window time.Duration) (count int64, err error)
}
