// Package zwindow implements the atomic sliding-window protocol against a
// Redis-compatible sorted set. One key holds one window: members are single
// event entries scored by their occurrence time in integral microseconds.
//
// # Window semantics
//
// Every operation runs as one server-side Lua script and starts with the
// same eviction pass: entries scored strictly below now-window are removed.
// The in-window count is then ZCOUNT over [now-window, +inf), so an entry
// recorded exactly at the window edge still counts. Admission compares
// count >= limit before inserting, which admits exactly limit events per
// window and never limit+1. Scripts execute by digest (EVALSHA); a server
// that lost the script gets it reloaded and the call retried exactly once,
// both handled inside redis.Script.Run.
//
// # What this package must NOT do
//
//   - Read the clock. The caller's now is authoritative and becomes the
//     entry score; two callers with skewed clocks disagree about the window
//     edge by exactly their skew, and that is the documented contract.
//   - Generate entry members. Uniqueness policy belongs to the caller.
//   - Be imported outside the cymometer module.
package zwindow
