package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubStore struct {
	hitFn func(ctx context.Context, key string, window time.Duration, now time.Time) (int64, time.Time, error)
}

func (s *stubStore) Hit(ctx context.Context, key string, window time.Duration, now time.Time) (int64, time.Time, error) {
	return s.hitFn(ctx, key, window, now)
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *clock) {
	t.Helper()
	clk := &clock{now: time.UnixMilli(1_700_000_000_000)}
	l, err := New(NewMemoryStore(clk.Now), Policy{Limit: limit, Window: window}, WithClock(clk.Now))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return l, clk
}

func TestLimiter_FixedWindowSequence(t *testing.T) {
	l, clk := newTestLimiter(t, 3, time.Minute)
	start := clk.Now()
	ctx := context.Background()

	wantSuccess := []bool{true, true, true, false}
	wantRemaining := []int{2, 1, 0, 0}
	for i := range wantSuccess {
		res, err := l.Check(ctx, "login", "x")
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if res.Success != wantSuccess[i] || res.Remaining != wantRemaining[i] {
			t.Fatalf("check %d: got success=%v remaining=%d, want %v/%d",
				i, res.Success, res.Remaining, wantSuccess[i], wantRemaining[i])
		}
		if !res.ResetAt.Equal(start.Add(time.Minute)) {
			t.Fatalf("check %d: resetAt %v, want %v", i, res.ResetAt, start.Add(time.Minute))
		}
		clk.Advance(time.Second)
	}
}

func TestLimiter_RejectionsDoNotExtendWindow(t *testing.T) {
	l, clk := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()
	first, _ := l.Check(ctx, "p", "x")

	for i := 0; i < 5; i++ {
		clk.Advance(10 * time.Second)
		res, _ := l.Check(ctx, "p", "x")
		if !res.ResetAt.Equal(first.ResetAt) {
			t.Fatalf("reset moved from %v to %v", first.ResetAt, res.ResetAt)
		}
	}
}

func TestLimiter_NewWindowAfterElapsed(t *testing.T) {
	l, clk := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, _ = l.Check(ctx, "login", "x")
	}

	clk.Advance(time.Minute)
	res, err := l.Check(ctx, "login", "x")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.Success || res.Remaining != 2 {
		t.Fatalf("expected fresh window, got %+v", res)
	}
	if !res.ResetAt.Equal(clk.Now().Add(time.Minute)) {
		t.Fatalf("expected reset a full window from now, got %v", res.ResetAt)
	}
}

func TestLimiter_IdentifiersAndPrefixesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if res, _ := l.Check(ctx, "login", "a"); !res.Success {
		t.Fatalf("first login for a should pass")
	}
	if res, _ := l.Check(ctx, "login", "a"); res.Success {
		t.Fatalf("second login for a should fail")
	}
	if res, _ := l.Check(ctx, "login", "b"); !res.Success {
		t.Fatalf("b must not share a's budget")
	}
	if res, _ := l.Check(ctx, "register", "a"); !res.Success {
		t.Fatalf("register must not share login's budget")
	}
}

func TestLimiter_StoreError(t *testing.T) {
	boom := errors.New("connection refused")
	store := &stubStore{hitFn: func(context.Context, string, time.Duration, time.Time) (int64, time.Time, error) {
		return 0, time.Time{}, boom
	}}
	l, err := New(store, Policy{Limit: 1, Window: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := l.Check(context.Background(), "p", "x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestLimiter_KeyPassedToStore(t *testing.T) {
	var gotKey string
	var gotWindow time.Duration
	store := &stubStore{hitFn: func(_ context.Context, key string, window time.Duration, now time.Time) (int64, time.Time, error) {
		gotKey, gotWindow = key, window
		return 1, now, nil
	}}
	l, _ := New(store, Policy{Limit: 5, Window: 15 * time.Minute})
	_, _ = l.Check(context.Background(), "login", "10.0.0.1")

	if gotKey != "ratelimit:login:10.0.0.1" {
		t.Fatalf("unexpected key %q", gotKey)
	}
	if gotWindow != 15*time.Minute {
		t.Fatalf("unexpected window %v", gotWindow)
	}
}

func TestNew_RejectsInvalidPolicy(t *testing.T) {
	cases := []Policy{{Limit: 0, Window: time.Second}, {Limit: 1, Window: 0}, {Limit: -1, Window: -1}}
	for _, p := range cases {
		if _, err := New(NewMemoryStore(nil), p); !errors.Is(err, ErrInvalidPolicy) {
			t.Errorf("policy %+v: expected ErrInvalidPolicy, got %v", p, err)
		}
	}
}

func TestResult_RetryAfter(t *testing.T) {
	now := time.UnixMilli(0)
	cases := []struct {
		reset time.Duration
		want  time.Duration
	}{
		{reset: 0, want: time.Second},
		{reset: 300 * time.Millisecond, want: time.Second},
		{reset: 1500 * time.Millisecond, want: 2 * time.Second},
		{reset: 15 * time.Minute, want: 15 * time.Minute},
	}
	for _, tc := range cases {
		r := Result{ResetAt: now.Add(tc.reset)}
		if got := r.RetryAfter(now); got != tc.want {
			t.Errorf("reset in %v: got %v, want %v", tc.reset, got, tc.want)
		}
	}
}
