package usecase

import (
	"time"

	"minutemic/internal/domain"
	"minutemic/internal/ports"
)

// Visualizer turns the session analyser into waveform frames while recording.
type Visualizer struct {
	samples func() []byte
	active  func() bool
	publish func(domain.Frame)
	loop    *periodic

	size domain.CanvasSize
}

func NewVisualizer(
	clock ports.Clock,
	interval time.Duration,
	samples func() []byte,
	active func() bool,
	publish func(domain.Frame),
) *Visualizer {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	v := &Visualizer{samples: samples, active: active, publish: publish}
	v.loop = newPeriodic(clock, interval, v.frame)
	return v
}

// Start begins drawing on a canvas of the given size.
func (v *Visualizer) Start(size domain.CanvasSize) {
	v.loop.mu.Lock()
	v.size = size
	v.loop.mu.Unlock()
	v.loop.start()
}

func (v *Visualizer) Cancel() {
	v.loop.cancel()
}

func (v *Visualizer) Running() bool {
	return v.loop.running()
}

// frame runs under the loop lock.
func (v *Visualizer) frame() bool {
	if !v.active() {
		return false
	}
	v.publish(renderFrame(v.samples(), v.size))
	return true
}

// renderFrame maps unsigned 8-bit time-domain samples onto a polyline that
// spans the canvas, 128 sitting on the horizontal midline.
func renderFrame(samples []byte, size domain.CanvasSize) domain.Frame {
	frame := domain.Frame{Width: size.Width, Height: size.Height}
	width := float64(size.Width)
	height := float64(size.Height)

	frame.Points = make([]domain.Point, 0, len(samples)+1)
	if len(samples) > 0 {
		step := width / float64(len(samples))
		x := 0.0
		for _, s := range samples {
			frame.Points = append(frame.Points, domain.Point{
				X: x,
				Y: float64(s) / 128.0 * height / 2,
			})
			x += step
		}
	}
	frame.Points = append(frame.Points, domain.Point{X: width, Y: height / 2})
	return frame
}
