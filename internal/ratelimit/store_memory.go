package ratelimit

import (
	"context"
	"sync"
	"time"
)

// memoryLimiter keeps one timestamp slice per key. Expired timestamps are
// dropped lazily on access.
type memoryLimiter struct {
	mu      sync.Mutex
	rule    Rule
	windows map[string][]time.Time
	now     func() time.Time
}

// NewMemoryLimiter returns a process-local sliding window limiter.
func NewMemoryLimiter(rule Rule) (Limiter, error) {
	return newMemoryLimiter(rule, time.Now)
}

func newMemoryLimiter(rule Rule, now func() time.Time) (*memoryLimiter, error) {
	if err := rule.validate(); err != nil {
		return nil, err
	}
	return &memoryLimiter{
		rule:    rule,
		windows: make(map[string][]time.Time),
		now:     now,
	}, nil
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	if key == "" {
		return Result{}, ErrEmptyKey
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	timestamps := cleanup(l.windows[key], now.Add(-l.rule.Window))

	if len(timestamps) >= l.rule.Limit {
		l.windows[key] = timestamps
		return Result{
			Limit:      l.rule.Limit,
			RetryAfter: timestamps[0].Add(l.rule.Window).Sub(now),
		}, nil
	}

	timestamps = append(timestamps, now)
	l.windows[key] = timestamps
	return Result{
		Allowed:   true,
		Limit:     l.rule.Limit,
		Remaining: l.rule.Limit - len(timestamps),
	}, nil
}

// cleanup drops timestamps at or before cutoff. The slice is sorted.
func cleanup(timestamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(timestamps); i++ {
		if timestamps[i].After(cutoff) {
			break
		}
	}
	return timestamps[i:]
}
