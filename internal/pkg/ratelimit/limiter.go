// Package ratelimit implements a fixed-window request limiter keyed by
// (prefix, identifier). Counters live in a Store; MemoryStore serves a single
// process and the redis adapter in infrastructure/db/redis serves several.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPolicy is returned by New when limit or window is not positive.
var ErrInvalidPolicy = errors.New("rate limit policy requires a positive limit and window")

// Policy is the quota applied to each identifier: Limit requests per Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Store counts hits per key in fixed windows.
//
// Hit records one request for key at now. When no window exists for key, or
// the current one started at least window ago, a new window is opened with a
// count of one. It returns the count in the current window and the time the
// window started.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (count int64, windowStart time.Time, err error)
}

// Result is the outcome of a single Check.
type Result struct {
	Success   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left until the window resets, rounded up to whole
// seconds and never below one second.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetAt.Sub(now)
	if d < time.Second {
		return time.Second
	}
	return ((d + time.Second - 1) / time.Second) * time.Second
}

// Limiter applies one Policy over a Store.
type Limiter struct {
	store  Store
	policy Policy
	now    func() time.Time
}

// Option customises a Limiter.
type Option func(*Limiter)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New returns a Limiter enforcing policy over store.
func New(store Store, policy Policy, opts ...Option) (*Limiter, error) {
	if policy.Limit <= 0 || policy.Window <= 0 {
		return nil, ErrInvalidPolicy
	}
	l := &Limiter{store: store, policy: policy, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Policy returns the limiter's quota.
func (l *Limiter) Policy() Policy { return l.policy }

// Now returns the limiter's clock reading.
func (l *Limiter) Now() time.Time { return l.now() }

// Check counts one request from identifier under prefix. Distinct prefixes
// keep independent budgets for the same identifier. A rejected request
// still counts but never extends the window.
func (l *Limiter) Check(ctx context.Context, prefix, identifier string) (Result, error) {
	count, start, err := l.store.Hit(ctx, Key(prefix, identifier), l.policy.Window, l.now())
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check: %w", err)
	}

	remaining := l.policy.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Success:   count <= int64(l.policy.Limit),
		Limit:     l.policy.Limit,
		Remaining: remaining,
		ResetAt:   start.Add(l.policy.Window),
	}, nil
}

// Key builds the store key for a prefix and identifier.
func Key(prefix, identifier string) string {
	return "ratelimit:" + prefix + ":" + identifier
}
