package usecase

import (
	"sync"
	"time"

	"minutemic/internal/ports"
)

// periodic runs fn on every tick until cancelled or until fn returns false.
// A tick that races with cancel is dropped: once cancel returns fn is not
// called again for that run.
type periodic struct {
	clock    ports.Clock
	interval time.Duration
	fn       func() bool

	mu     sync.Mutex
	ticker ports.Ticker
	stop   chan struct{}
	gen    uint64
}

func newPeriodic(clock ports.Clock, interval time.Duration, fn func() bool) *periodic {
	return &periodic{clock: clock, interval: interval, fn: fn}
}

func (p *periodic) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		return
	}
	p.gen++
	p.ticker = p.clock.NewTicker(p.interval)
	p.stop = make(chan struct{})
	go p.run(p.gen, p.ticker, p.stop)
}

func (p *periodic) cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
}

func (p *periodic) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticker != nil
}

func (p *periodic) cancelLocked() {
	if p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.stop)
	p.ticker = nil
	p.stop = nil
	p.gen++
}

func (p *periodic) run(gen uint64, ticker ports.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !p.fire(gen) {
				return
			}
		}
	}
}

func (p *periodic) fire(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return false
	}
	if !p.fn() {
		p.cancelLocked()
		return false
	}
	return true
}
