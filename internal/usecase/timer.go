package usecase

import (
	"fmt"
	"time"

	"minutemic/internal/ports"
)

// Timer publishes the elapsed recording time while a session is recording.
type Timer struct {
	elapsed func() time.Duration
	publish func(string)
	loop    *periodic
}

func NewTimer(clock ports.Clock, interval time.Duration, elapsed func() time.Duration, publish func(string)) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	t := &Timer{elapsed: elapsed, publish: publish}
	t.loop = newPeriodic(clock, interval, func() bool {
		t.tick()
		return true
	})
	return t
}

// Start publishes the current value and begins ticking.
func (t *Timer) Start() {
	t.tick()
	t.loop.start()
}

// Cancel stops ticking. The last published value stays on screen.
func (t *Timer) Cancel() {
	t.loop.cancel()
}

func (t *Timer) Running() bool {
	return t.loop.running()
}

func (t *Timer) tick() {
	t.publish(FormatElapsed(t.elapsed()))
}

// FormatElapsed renders d as HH:MM:SS. Hours grow past two digits.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
