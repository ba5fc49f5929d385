// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
)

const keyPrefix = "docverifier:ratelimit:"

// slidingWindowScript trims the sorted set to the window, then adds the
// request when there is room. Running it as a script keeps the check and
// the insert atomic across instances.
//
// KEYS[1] set key; ARGV: now ms, window ms, limit, member.
// Returns {allowed, remaining, retry after ms}.
var slidingWindowScript = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit  = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry = window
if oldest[2] then
	retry = tonumber(oldest[2]) + window - now
end
return {0, 0, retry}
`)

// RedisLimiter shares the window between server instances.
type RedisLimiter struct {
	client *redis.Client
	rule   Rule
	name   string
	now    func() time.Time
	log    *logger.Logger
}

// NewRedisClient parses url, opens a client and pings it.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return client, nil
}

// NewRedisLimiter builds a limiter named name over client. Limiters with
// different names never share counters.
func NewRedisLimiter(client *redis.Client, name string, rule Rule, log *logger.Logger) (*RedisLimiter, error) {
	if err := rule.validate(); err != nil {
		return nil, err
	}
	return &RedisLimiter{
		client: client,
		rule:   rule,
		name:   name,
		now:    time.Now,
		log:    log,
	}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	if key == "" {
		return Result{}, ErrEmptyKey
	}

	raw, err := slidingWindowScript.Run(ctx, l.client,
		[]string{l.redisKey(key)},
		l.now().UnixMilli(),
		l.rule.Window.Milliseconds(),
		l.rule.Limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		l.log.Err(err).Str("func", "*RedisLimiter.Allow").Str("limiter", l.name).Msg("error running sliding window script")
		return Result{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return parseScriptResult(raw, l.rule.Limit)
}

func (l *RedisLimiter) redisKey(key string) string {
	return keyPrefix + l.name + ":" + key
}

func parseScriptResult(raw []int64, limit int) (Result, error) {
	if len(raw) != 3 {
		return Result{}, fmt.Errorf("%w: unexpected script reply of %d values", ErrStoreUnavailable, len(raw))
	}

	res := Result{
		Allowed:   raw[0] == 1,
		Limit:     limit,
		Remaining: int(raw[1]),
	}
	if !res.Allowed {
		res.RetryAfter = time.Duration(max(raw[2], 0)) * time.Millisecond
	}
	return res, nil
}
