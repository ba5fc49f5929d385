package ratelimit

import "errors"

var (
	ErrInvalidRule      = errors.New("rate limit rule must have a positive limit and window")
	ErrEmptyKey         = errors.New("rate limit key is empty")
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)
