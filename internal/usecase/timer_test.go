package usecase

import (
	"sync"
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{999 * time.Millisecond, "00:00:00"},
		{5 * time.Second, "00:00:05"},
		{time.Hour + time.Minute + time.Second, "01:01:01"},
		{100 * time.Hour, "100:00:00"},
		{-3 * time.Second, "00:00:00"},
	}
	for _, tc := range cases {
		if got := FormatElapsed(tc.in); got != tc.want {
			t.Fatalf("FormatElapsed(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTimerCancelSuppressesTicks(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(testStart)
	var (
		mu    sync.Mutex
		ticks []string
	)
	timer := NewTimer(clock, time.Second, func() time.Duration {
		return clock.Now().Sub(testStart)
	}, func(v string) {
		mu.Lock()
		defer mu.Unlock()
		ticks = append(ticks, v)
	})
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(ticks)
	}

	timer.Start()
	if count() != 1 {
		t.Fatalf("expected immediate tick on start")
	}

	clock.Advance(2 * time.Second)
	clock.Tick()
	waitFor(t, "tick", func() bool { return count() == 2 })

	timer.Cancel()
	if timer.Running() {
		t.Fatalf("expected timer to stop")
	}
	clock.Tick()
	time.Sleep(10 * time.Millisecond)
	if count() != 2 {
		t.Fatalf("tick after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if ticks[1] != "00:00:02" {
		t.Fatalf("unexpected tick value %q", ticks[1])
	}
}

func TestTimerStartIsIdempotent(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(testStart)
	timer := NewTimer(clock, 0, func() time.Duration { return 0 }, func(string) {})

	timer.Start()
	timer.Start()
	clock.mu.Lock()
	n := len(clock.tickers)
	clock.mu.Unlock()
	if n != 1 {
		t.Fatalf("expected one ticker, got %d", n)
	}
	timer.Cancel()
	timer.Cancel()
}
