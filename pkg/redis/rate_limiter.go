package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter counts attempts per key inside a fixed window shared across
// processes. INCR is atomic in Redis, so two concurrent requests can never
// both observe count = max-1 and slip through.
type RateLimiter struct{}

var (
	incrValue   = Incr
	expireValue = Expire
	ttlValue    = TTL
)

// NewRateLimiter creates a rate limiter backed by the package client.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{}
}

// Key builds the counter key for an action on an identifier.
func (l *RateLimiter) Key(action, purpose, identifier string) string {
	return fmt.Sprintf("ratelimit:%s:%s:%s", action, purpose, identifier)
}

// CheckAndIncrement counts one attempt against the key. The window is
// anchored at the first attempt (the key's TTL) and is never extended by
// later attempts. Attempts past max are rejected; the window resets when
// Redis expires the key.
func (l *RateLimiter) CheckAndIncrement(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	count, err := incrValue(ctx, key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := expireValue(ctx, key, window); err != nil {
			return false, err
		}
	} else {
		// If the EXPIRE after the first INCR never landed the counter
		// would persist forever and lock the key out permanently.
		// Re-arm the window whenever the key has no TTL.
		ttl, err := ttlValue(ctx, key)
		if err != nil {
			return false, err
		}
		if ttl < 0 {
			if err := expireValue(ctx, key, window); err != nil {
				return false, err
			}
		}
	}
	return count <= int64(max), nil
}

// RetryAfter reports how long until the window for a key resets. Returns
// zero when the key has no window.
func (l *RateLimiter) RetryAfter(ctx context.Context, key string) (time.Duration, error) {
	d, err := ttlValue(ctx, key)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}
