// Package ratelimit counts requests per key in a sliding window. The
// memory implementation serves a single instance; the redis one is shared
// by every instance behind a load balancer.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more request for key fits into the window.
// An allowed call is counted, a rejected one is not.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Rule is the number of requests allowed within a window.
type Rule struct {
	Limit  int
	Window time.Duration
}

func (r Rule) validate() error {
	if r.Limit < 1 || r.Window <= 0 {
		return ErrInvalidRule
	}
	return nil
}

// Result describes the outcome of Allow.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is how long a rejected caller should wait. Zero when allowed.
	RetryAfter time.Duration
}
