// Package counter issues monotonically increasing slip numbers. The counter
// is an explicit dependency rather than ambient state so services can take a
// fake in tests.
package counter

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

// Counter hands out the next slip number. Implementations must be safe for
// concurrent use and survive process restarts.
type Counter interface {
	Next(ctx context.Context) (int64, error)
}

// RedisCounter implements Counter on a single Redis key via INCR, which is
// atomic and monotonic for the lifetime of the key.
type RedisCounter struct {
	R   *redis.Client
	Key string
}

// Next increments and returns the slip counter. The first call on a fresh
// key returns 1.
func (c RedisCounter) Next(ctx context.Context) (int64, error) {
	if c.R == nil {
		return 0, errors.New("counter: redis client not configured")
	}
	key := c.Key
	if key == "" {
		key = "slip:counter"
	}
	return c.R.Incr(ctx, key).Result()
}

// Fixed is a Counter for tests: it returns pre-seeded values in order.
type Fixed struct {
	Values []int64
	next   int
}

// Next pops the next seeded value, repeating the last one when exhausted.
func (f *Fixed) Next(context.Context) (int64, error) {
	if len(f.Values) == 0 {
		return 0, errors.New("counter: no values seeded")
	}
	if f.next >= len(f.Values) {
		return f.Values[len(f.Values)-1], nil
	}
	v := f.Values[f.next]
	f.next++
	return v, nil
}
