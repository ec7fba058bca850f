package usecase

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"minutemic/internal/domain"
)

func TestRenderFrameSilenceIsMidline(t *testing.T) {
	t.Parallel()

	frame := renderFrame([]byte{128, 128}, domain.CanvasSize{Width: 100, Height: 50})

	want := []domain.Point{{X: 0, Y: 25}, {X: 50, Y: 25}, {X: 100, Y: 25}}
	if len(frame.Points) != len(want) {
		t.Fatalf("unexpected points: %+v", frame.Points)
	}
	for i := range want {
		if frame.Points[i] != want[i] {
			t.Fatalf("point %d: want %+v got %+v", i, want[i], frame.Points[i])
		}
	}
}

func TestRenderFrameExtremes(t *testing.T) {
	t.Parallel()

	frame := renderFrame([]byte{0, 255}, domain.CanvasSize{Width: 10, Height: 128})

	if frame.Points[0].Y != 0 {
		t.Fatalf("expected 0 at top, got %v", frame.Points[0].Y)
	}
	if frame.Points[1].Y != 127.5 || frame.Points[1].X != 5 {
		t.Fatalf("unexpected second point %+v", frame.Points[1])
	}
}

func TestRenderFrameEmptySamples(t *testing.T) {
	t.Parallel()

	frame := renderFrame(nil, domain.CanvasSize{Width: 10, Height: 20})
	if len(frame.Points) != 1 || frame.Points[0] != (domain.Point{X: 10, Y: 10}) {
		t.Fatalf("expected only the closing point, got %+v", frame.Points)
	}
}

func TestVisualizerStopsWhenInactive(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(testStart)
	var active atomic.Bool
	active.Store(true)

	var (
		mu     sync.Mutex
		frames int
	)
	v := NewVisualizer(clock, time.Millisecond, func() []byte { return []byte{128} }, active.Load, func(domain.Frame) {
		mu.Lock()
		defer mu.Unlock()
		frames++
	})
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return frames
	}

	v.Start(domain.CanvasSize{Width: 4, Height: 4})
	clock.Tick()
	waitFor(t, "frame", func() bool { return count() == 1 })

	active.Store(false)
	clock.Tick()
	waitFor(t, "self stop", func() bool { return !v.Running() })

	clock.Tick()
	time.Sleep(10 * time.Millisecond)
	if count() != 1 {
		t.Fatalf("frame drawn after leaving recording")
	}
}
