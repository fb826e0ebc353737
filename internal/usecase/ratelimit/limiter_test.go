package ratelimit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type memCounter struct {
	counts  map[string]int64
	err     error
	windows []time.Duration
}

func newMemCounter() *memCounter {
	return &memCounter{counts: make(map[string]int64)}
}

func (m *memCounter) IncrWithExpire(_ context.Context, key string, window time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.windows = append(m.windows, window)
	m.counts[key]++
	return m.counts[key], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAllow_WithinLimit(t *testing.T) {
	c := newMemCounter()
	l := New(c, 3, time.Minute, zap.NewNop())
	l.now = fixedClock(time.Unix(1_700_000_000, 0))

	for i := 0; i < 3; i++ {
		if !l.Allow(context.Background(), "ip:1.2.3.4") {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
	}
	if l.Allow(context.Background(), "ip:1.2.3.4") {
		t.Error("4th request allowed, want rejected")
	}
	if c.windows[0] != time.Minute {
		t.Errorf("window = %v, want 1m", c.windows[0])
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := New(newMemCounter(), 1, time.Minute, zap.NewNop())
	l.now = fixedClock(time.Unix(1_700_000_000, 0))

	if !l.Allow(context.Background(), "ip:a") || !l.Allow(context.Background(), "ip:b") {
		t.Fatal("distinct keys must have separate budgets")
	}
}

func TestAllow_NewWindowResets(t *testing.T) {
	l := New(newMemCounter(), 1, time.Minute, zap.NewNop())
	start := time.Unix(1_700_000_000, 0)
	l.now = fixedClock(start)

	if !l.Allow(context.Background(), "k") {
		t.Fatal("first request rejected")
	}
	if l.Allow(context.Background(), "k") {
		t.Fatal("second request in same window allowed")
	}
	l.now = fixedClock(start.Add(time.Minute))
	if !l.Allow(context.Background(), "k") {
		t.Error("request in next window rejected")
	}
}

func TestAllow_FailsOpen(t *testing.T) {
	c := newMemCounter()
	c.err = errors.New("connection refused")
	l := New(c, 1, time.Minute, zap.NewNop())

	for i := 0; i < 5; i++ {
		if !l.Allow(context.Background(), "k") {
			t.Fatal("limiter must fail open on store errors")
		}
	}
}

func TestAllow_Disabled(t *testing.T) {
	if !New(nil, 10, time.Minute, nil).Allow(context.Background(), "k") {
		t.Error("nil counter must allow")
	}
	if !New(newMemCounter(), 0, time.Minute, nil).Allow(context.Background(), "k") {
		t.Error("zero limit must allow")
	}
	var l *Limiter
	if !l.Allow(context.Background(), "k") {
		t.Error("nil limiter must allow")
	}
}

func TestWindowKey(t *testing.T) {
	l := New(newMemCounter(), 1, time.Minute, nil)
	l.now = fixedClock(time.Unix(120, 0))

	key := l.windowKey("search:ip:1.1.1.1")
	if !strings.HasPrefix(key, "marketsearch:rl:search:ip:1.1.1.1:") {
		t.Errorf("unexpected key %q", key)
	}
	if !strings.HasSuffix(key, ":2") {
		t.Errorf("expected bucket 2, got %q", key)
	}
}
