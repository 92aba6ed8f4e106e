package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// slidingWindowScript prunes, counts and conditionally appends in one round
// trip. Members are unique per hit so equal timestamps never collapse.
//
// KEYS[1] bucket key
// ARGV[1] now (ms), ARGV[2] window (ms), ARGV[3] max, ARGV[4] member
var slidingWindowScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < max then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	count = count + 1
	allowed = 1
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local oldestScore = 0
if oldest[2] then
	oldestScore = tonumber(oldest[2])
end

return {allowed, count, oldestScore}
`)

// RedisStore keeps buckets in Redis sorted sets, shared by every instance
// pointing at the same server. Keys expire one window after the last
// admission.
type RedisStore struct {
	rdb    goredis.Scripter
	prefix string
}

// NewRedisStore creates a store on rdb. Keys are namespaced by prefix.
func NewRedisStore(rdb goredis.Scripter, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "contact:ratelimit:"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Hit implements Store
func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration, max int) (Result, error) {
	vals, err := slidingWindowScript.Run(ctx, s.rdb,
		[]string{s.prefix + key},
		now.UnixMilli(),
		window.Milliseconds(),
		max,
		strconv.FormatInt(now.UnixNano(), 10)+"-"+uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("sliding window script: %w", err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("sliding window script returned %d values", len(vals))
	}

	res := Result{
		Allowed: vals[0] == 1,
		Count:   int(vals[1]),
	}
	if vals[2] > 0 {
		res.Oldest = time.UnixMilli(vals[2]).UTC()
	}
	return res, nil
}
