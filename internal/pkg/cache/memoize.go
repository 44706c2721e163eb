package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCallTimeout bounds a shared call when the caller that started it
// carries no deadline.
const DefaultCallTimeout = 30 * time.Second

// Memoize wraps fn so that results are served from c for ttl. key derives
// the cache key from the argument. Only successful results are stored: an
// error is returned to the caller and the next call invokes fn again.
//
// Concurrent misses on the same key share a single call to fn. That call is
// detached from the cancellation of the caller that started it and keeps
// only its deadline, so one abandoned request cannot fail the others. Each
// caller still stops waiting when its own ctx is done.
func Memoize[A, V any](
	c *Cache[V],
	fn func(context.Context, A) (V, error),
	key func(A) string,
	ttl time.Duration,
) func(context.Context, A) (V, error) {
	var group singleflight.Group

	return func(ctx context.Context, arg A) (V, error) {
		var zero V

		k := key(arg)
		if v, ok := c.Get(k); ok {
			return v, nil
		}

		resultChan := group.DoChan(k, func() (any, error) {
			if v, ok := c.Get(k); ok {
				return v, nil
			}
			callCtx, cancel := detach(ctx)
			defer cancel()

			v, err := fn(callCtx, arg)
			if err != nil {
				return nil, err
			}
			c.Set(k, v, ttl)
			return v, nil
		})

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case res := <-resultChan:
			if res.Err != nil {
				return zero, res.Err
			}
			v, _ := res.Val.(V)
			return v, nil
		}
	}
}

// detach returns a context that keeps ctx's values and deadline but ignores
// its cancellation.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(base, deadline)
	}
	return context.WithTimeout(base, DefaultCallTimeout)
}
