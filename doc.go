// Package cymometer provides a distributed, decaying-window rate-limit
// counter backed by a Redis-compatible sorted-set store.
//
// Many independent processes agree, through the shared store, on whether an
// action may proceed under a limit per rolling window of time. Every state
// mutation is a single server-side atomic script, so no coordination service
// and no in-process locking is required: a [Counter] is a cheap, stateless
// handle and all durable state lives in the backing store.
//
// # Core surface
//
// [Counter] exposes Increment, Decrement, Count, and Do (run work inside an
// admitted slot, with a compensating decrement when the work fails).
// [Schema] lets a consuming type declare several named counters once, with
// static or per-instance keys, and [Schema.Bind] materializes them lazily
// per instance. [RedisStore] is the production backend; [MemoryStore] serves
// tests and single-process deployments.
//
// # Consistency contract
//
// Each store operation is atomic as observed by all other callers, but there
// is no atomicity across operations: a [Counter.Do] increment/decrement pair
// is two separate atomic steps, and a crash between them leaves the slot
// consumed until the window decays. Counts read by simultaneous callers may
// differ slightly because every caller evaluates the window against its own
// clock; the admission decision itself is made inside the same atomic script
// that records the event.
//
// # What this package must NOT do
//
//   - Schedule or retry work after a limit is hit (that belongs to the
//     caller's queueing layer).
//   - Manage Redis connections; callers hand in a client and keep ownership.
//   - Act as a distributed lock. Admission bounds event counts, nothing else.
package cymometer
