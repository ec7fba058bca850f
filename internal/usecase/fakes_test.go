package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"minutemic/internal/domain"
	"minutemic/internal/ports"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) NewTicker(_ time.Duration) ports.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

// Tick fires every live ticker once.
func (c *fakeClock) Tick() {
	c.mu.Lock()
	now := c.now
	tickers := append([]*fakeTicker(nil), c.tickers...)
	c.mu.Unlock()
	for _, t := range tickers {
		t.fire(now)
	}
}

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

func (t *fakeTicker) fire(now time.Time) {
	if t.stopped.Load() {
		return
	}
	select {
	case t.ch <- now:
	default:
	}
}

type fakeAudioCapture struct {
	mu      sync.Mutex
	devices []*fakeDevice
	err     error
	calls   int

	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeAudioCapture) Start(_ context.Context, _ ports.AudioConfig) (ports.AudioSession, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.devices) == 0 {
		return nil, errors.New("no audio device configured")
	}
	device := f.devices[0]
	f.devices = f.devices[1:]
	return device, nil
}

func (f *fakeAudioCapture) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeDevice hands out chunks fed by the test until stopped.
type fakeDevice struct {
	chunks    chan []byte
	stopped   chan struct{}
	stopOnce  sync.Once
	stopCalls atomic.Int32
	stopErr   error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{chunks: make(chan []byte), stopped: make(chan struct{})}
}

// feed blocks until the pump has taken chunk. Feeding an empty chunk after a
// real one guarantees the real one was processed.
func (f *fakeDevice) feed(chunk []byte) {
	f.chunks <- chunk
	f.chunks <- []byte{}
}

func (f *fakeDevice) Read(p []byte) (int, error) {
	select {
	case chunk := <-f.chunks:
		return copy(p, chunk), nil
	case <-f.stopped:
		return 0, io.EOF
	}
}

func (f *fakeDevice) Close() error { return f.Stop() }

func (f *fakeDevice) Stop() error {
	f.stopCalls.Add(1)
	f.stopOnce.Do(func() { close(f.stopped) })
	return f.stopErr
}

type fakeCanvas struct {
	size domain.CanvasSize
}

func (f fakeCanvas) CanvasSize() domain.CanvasSize { return f.size }

type fakeConfirmer struct {
	mu     sync.Mutex
	answer bool
	err    error
	asked  int
}

func (f *fakeConfirmer) Confirm(_ context.Context, _ string, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked++
	return f.answer, f.err
}

func (f *fakeConfirmer) askedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.asked
}

type fakeSaver struct {
	mu    sync.Mutex
	names []string
	err   error
	// gate, when set, holds every Save until it is closed.
	gate chan struct{}
}

func (f *fakeSaver) Save(_ context.Context, artifact ports.WAVEncoder, filename string) (string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, filename)
	if f.err != nil {
		return "", f.err
	}
	return "/saved/" + filename, nil
}

func (f *fakeSaver) saved() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

type fakeEventSink struct {
	mu sync.Mutex

	states      []stateEvent
	ticks       []string
	frames      []domain.Frame
	results     []resultEvent
	credentials []domain.Workflow
	endpoints   [][]domain.EndpointStatus
	notices     []domain.Notice
	errors      []errEvent
}

type stateEvent struct {
	status domain.Status
	reason domain.SessionStateReason
}

type resultEvent struct {
	workflow domain.Workflow
	payload  any
}

type errEvent struct {
	workflow domain.Workflow
	code     domain.ErrorCode
	detail   string
}

func (f *fakeEventSink) SessionStateChanged(status domain.Status, reason domain.SessionStateReason) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, stateEvent{status: status, reason: reason})
}

func (f *fakeEventSink) TimerTick(elapsed string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks = append(f.ticks, elapsed)
}

func (f *fakeEventSink) VisualizerFrame(frame domain.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
}

func (f *fakeEventSink) ResultReady(workflow domain.Workflow, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, resultEvent{workflow: workflow, payload: payload})
}

func (f *fakeEventSink) CredentialRequired(workflow domain.Workflow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credentials = append(f.credentials, workflow)
}

func (f *fakeEventSink) EndpointStatus(statuses []domain.EndpointStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoints = append(f.endpoints, statuses)
}

func (f *fakeEventSink) Notify(notice domain.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notice)
}

func (f *fakeEventSink) SessionError(workflow domain.Workflow, code domain.ErrorCode, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, errEvent{workflow: workflow, code: code, detail: detail})
}

func (f *fakeEventSink) snapshotStates() []stateEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stateEvent(nil), f.states...)
}

func (f *fakeEventSink) snapshotTicks() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ticks...)
}

func (f *fakeEventSink) snapshotFrames() []domain.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Frame(nil), f.frames...)
}

func (f *fakeEventSink) snapshotResults() []resultEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]resultEvent(nil), f.results...)
}

func (f *fakeEventSink) snapshotCredentials() []domain.Workflow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Workflow(nil), f.credentials...)
}

func (f *fakeEventSink) snapshotNotices() []domain.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Notice(nil), f.notices...)
}

func (f *fakeEventSink) snapshotErrors() []errEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]errEvent(nil), f.errors...)
}

func (f *fakeEventSink) lastReason() domain.SessionStateReason {
	states := f.snapshotStates()
	if len(states) == 0 {
		return ""
	}
	return states[len(states)-1].reason
}
