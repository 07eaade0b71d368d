package zwindow

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Scores are integral microseconds, so the exclusive eviction bound
// score < cutoff is expressed as the inclusive bound cutoff-1. All numeric
// arguments reach Redis through redis.call, which formats them exactly;
// concatenating large numbers into strings inside Lua would not.
const admitScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

local cutoff = now - window
redis.call("ZREMRANGEBYSCORE", key, 0, cutoff - 1)
local count = redis.call("ZCOUNT", key, cutoff, "+inf")
if count >= limit then
  return {0, count}
end
redis.call("ZADD", key, now, member)
redis.call("EXPIRE", key, math.floor(window / 1000000))
return {1, count + 1}
`

const removeOldestScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])

local cutoff = now - window
redis.call("ZREMRANGEBYSCORE", key, 0, cutoff - 1)
local oldest = redis.call("ZRANGEBYSCORE", key, cutoff, "+inf", "LIMIT", 0, 1)
if #oldest == 0 then
  return 0
end
redis.call("ZREM", key, oldest[1])
return redis.call("ZCOUNT", key, cutoff, "+inf")
`

const countScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])

local cutoff = now - window
redis.call("ZREMRANGEBYSCORE", key, 0, cutoff - 1)
return redis.call("ZCOUNT", key, cutoff, "+inf")
`

var (
	admitLua        = redis.NewScript(admitScript)
	removeOldestLua = redis.NewScript(removeOldestScript)
	countLua        = redis.NewScript(countScript)
)

// Admit evicts expired entries and records member at score now unless the
// in-window count already reached limit. It reports whether the entry was
// admitted and the in-window count after the call. now and window are in
// microseconds; window must cover at least one whole second because it
// doubles as the key's TTL.
//
//	Performance: 1 Lua EVALSHA (evict + count + conditional insert).
func Admit(ctx context.Context, rdb redis.Scripter, key string, now, window, limit int64, member string) (bool, int64, error) {
	res, err := admitLua.Run(ctx, rdb, []string{key}, now, window, limit, member).Result()
	if err != nil {
		return false, 0, err
	}

	parts, ok := res.([]interface{})
	if !ok || len(parts) < 2 {
		return false, 0, fmt.Errorf("invalid admit script reply: %v", res)
	}
	admitted, ok := parts[0].(int64)
	if !ok {
		return false, 0, fmt.Errorf("invalid admit script status: %v", parts[0])
	}
	count, ok := parts[1].(int64)
	if !ok {
		return false, 0, fmt.Errorf("invalid admit script count: %v", parts[1])
	}

	return admitted == 1, count, nil
}

// RemoveOldest evicts expired entries and removes the oldest entry still in
// the window, if any. It returns the in-window count after the call; an
// empty window is a no-op returning 0.
func RemoveOldest(ctx context.Context, rdb redis.Scripter, key string, now, window int64) (int64, error) {
	count, err := removeOldestLua.Run(ctx, rdb, []string{key}, now, window).Int64()
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Count evicts expired entries and returns the in-window count.
func Count(ctx context.Context, rdb redis.Scripter, key string, now, window int64) (int64, error) {
	count, err := countLua.Run(ctx, rdb, []string{key}, now, window).Int64()
	if err != nil {
		return 0, err
	}
	return count, nil
}
