package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"minutemic/internal/audio"
	"minutemic/internal/domain"
	"minutemic/internal/errorsx"
	"minutemic/internal/ports"
)

var ErrNoAudioCaptured = errorsx.New(errorsx.ReasonNoAudioCaptured, "no audio was captured")

const (
	confirmTitle   = "Unsaved recording"
	confirmMessage = "You have an unsaved recording. Starting a new one will discard it. Continue?"
)

// Config controls recording behavior.
type Config struct {
	Audio          ports.AudioConfig
	ChunkSize      int
	TickInterval   time.Duration
	FrameInterval  time.Duration
	AnalyserWindow int
	Autosave       bool
	DefaultCanvas  domain.CanvasSize
}

// transitions lists the commands each state accepts. Anything else is a no-op.
var transitions = map[domain.SessionState][]domain.Command{
	domain.SessionStateIdle:      {domain.CommandStart},
	domain.SessionStateRecording: {domain.CommandPause, domain.CommandStop, domain.CommandDiscard},
	domain.SessionStatePaused:    {domain.CommandResume, domain.CommandStop, domain.CommandDiscard},
	domain.SessionStateStopped:   {domain.CommandStart, domain.CommandDiscard},
}

func allowed(state domain.SessionState, cmd domain.Command) bool {
	for _, candidate := range transitions[state] {
		if candidate == cmd {
			return true
		}
	}
	return false
}

// SessionController drives the recording lifecycle. All commands go through
// Dispatch and are serialized.
type SessionController struct {
	audio     ports.AudioCapture
	clock     ports.Clock
	canvas    ports.CanvasSource
	confirmer ports.Confirmer
	persister *Persister
	events    ports.EventSink
	cfg       Config

	mu       sync.Mutex
	current  *RecordingSession
	starting bool
	title    string
}

func NewSessionController(
	audioCapture ports.AudioCapture,
	clock ports.Clock,
	canvas ports.CanvasSource,
	confirmer ports.Confirmer,
	persister *Persister,
	events ports.EventSink,
	cfg Config,
) *SessionController {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &SessionController{
		audio:     audioCapture,
		clock:     clock,
		canvas:    canvas,
		confirmer: confirmer,
		persister: persister,
		events:    events,
		cfg:       cfg,
	}
}

// Dispatch applies cmd to the current session. Commands the current state does
// not accept are ignored.
func (c *SessionController) Dispatch(ctx context.Context, cmd domain.Command) error {
	if cmd == domain.CommandStart {
		return c.start(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.starting || !allowed(c.stateLocked(), cmd) {
		return nil
	}

	switch cmd {
	case domain.CommandPause:
		c.pauseLocked()
	case domain.CommandResume:
		c.resumeLocked()
	case domain.CommandStop:
		return c.stopLocked(ctx)
	case domain.CommandDiscard:
		c.discardLocked()
	}
	return nil
}

// SetMeetingTitle records the title used to name the saved recording.
func (c *SessionController) SetMeetingTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = title
}

func (c *SessionController) MeetingTitle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// Status returns the current backend status.
func (c *SessionController) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Artifact returns the finalized recording of the last stopped session.
func (c *SessionController) Artifact() (*audio.Artifact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.State() != domain.SessionStateStopped {
		return nil, ErrNoArtifact
	}
	artifact := c.current.Artifact()
	if artifact == nil {
		return nil, ErrNoArtifact
	}
	return artifact, nil
}

// SaveRecording writes the current artifact under its derived name, or under
// filename when one is given. Without a filename an already saved recording
// is not written again.
func (c *SessionController) SaveRecording(ctx context.Context, filename string) (string, error) {
	c.mu.Lock()
	session := c.current
	title := c.title
	c.mu.Unlock()

	if session == nil || session.Artifact() == nil {
		return "", ErrNoArtifact
	}
	if filename == "" {
		if path, saved := session.savedTo(); saved {
			return path, nil
		}
		filename = RecordingFilename(title, session.Artifact().StoppedAt())
	}
	path, err := c.persister.Save(ctx, session, filename)
	if err != nil {
		return "", err
	}
	c.events.SessionStateChanged(c.Status(), domain.SessionReasonRecordingSaved)
	return path, nil
}

// WaitSaved blocks until a pending autosave of the current recording has an
// outcome. It returns at once when none is in flight.
func (c *SessionController) WaitSaved(ctx context.Context) error {
	c.mu.Lock()
	session := c.current
	c.mu.Unlock()
	if session == nil {
		return nil
	}
	done := session.persistDone()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SuggestedFilename is the name a manual save would use.
func (c *SessionController) SuggestedFilename() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.Artifact() == nil {
		return RecordingFilename(c.title, c.clock.Now())
	}
	return RecordingFilename(c.title, c.current.Artifact().StoppedAt())
}

func (c *SessionController) start(ctx context.Context) error {
	c.mu.Lock()
	if c.starting || !allowed(c.stateLocked(), domain.CommandStart) {
		c.mu.Unlock()
		return nil
	}
	c.starting = true
	previous := c.current
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.starting = false
		c.mu.Unlock()
	}()

	if previous != nil && previous.unsaved() && c.confirmer != nil {
		ok, err := c.confirmer.Confirm(ctx, confirmTitle, confirmMessage)
		if err != nil {
			return fmt.Errorf("confirm new recording: %w", err)
		}
		if !ok {
			return nil
		}
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	device, err := c.audio.Start(sessionCtx, c.cfg.Audio)
	if err != nil {
		cancel()
		err = errorsx.Wrap(err, errorsx.ReasonDeviceUnavailable)
		c.events.SessionError(domain.WorkflowRecording, domain.ErrorCodeDeviceUnavailable, err.Error())
		c.events.SessionStateChanged(c.Status(), domain.SessionReasonDeviceUnavailable)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	session := newRecordingSession(device, cancel, audio.NewAnalyser(c.cfg.AnalyserWindow, c.cfg.Audio.Channels), c.clock.Now())
	session.timer = NewTimer(c.clock, c.cfg.TickInterval, func() time.Duration {
		return session.Elapsed(c.clock.Now())
	}, c.events.TimerTick)
	session.visualizer = NewVisualizer(c.clock, c.cfg.FrameInterval, session.analyser.Snapshot, session.recording, c.events.VisualizerFrame)
	c.current = session

	go pumpAudioChunks(session, c.cfg.ChunkSize, c.events)

	session.timer.Start()
	session.visualizer.Start(c.canvasSize())

	c.events.SessionStateChanged(c.statusLocked(), domain.SessionReasonRecordingStarted)
	return nil
}

func (c *SessionController) pauseLocked() {
	session := c.current
	session.pause(c.clock.Now())
	session.timer.Cancel()
	session.visualizer.Cancel()
	c.events.SessionStateChanged(c.statusLocked(), domain.SessionReasonRecordingPaused)
}

func (c *SessionController) resumeLocked() {
	session := c.current
	session.resume(c.clock.Now())
	session.timer.Start()
	session.visualizer.Start(c.canvasSize())
	c.events.SessionStateChanged(c.statusLocked(), domain.SessionReasonRecordingResumed)
}

func (c *SessionController) stopLocked(ctx context.Context) error {
	session := c.current
	now := c.clock.Now()

	session.timer.Cancel()
	session.visualizer.Cancel()
	c.release(session)

	artifact := session.finish(now, c.cfg.Audio.SampleRate, c.cfg.Audio.Channels)
	if artifact == nil {
		c.events.SessionError(domain.WorkflowRecording, domain.ErrorCodeNoAudioCaptured, ErrNoAudioCaptured.Error())
		c.events.SessionStateChanged(c.statusLocked(), domain.SessionReasonNoAudioCaptured)
		return ErrNoAudioCaptured
	}

	c.events.SessionStateChanged(c.statusLocked(), domain.SessionReasonRecordingStopped)

	if c.cfg.Autosave && c.persister != nil {
		title := c.title
		session.persistOnce.Do(func() {
			settled := session.beginPersist()
			done := c.persister.Persist(context.WithoutCancel(ctx), session, title)
			go c.reportSaved(session, done, settled)
		})
	}
	return nil
}

func (c *SessionController) reportSaved(session *RecordingSession, done <-chan error, settled chan struct{}) {
	defer close(settled)
	if err := <-done; err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == session {
		c.events.SessionStateChanged(c.statusLocked(), domain.SessionReasonRecordingSaved)
	}
}

func (c *SessionController) discardLocked() {
	session := c.current
	if session.State() != domain.SessionStateStopped {
		session.timer.Cancel()
		session.visualizer.Cancel()
		c.release(session)
	}
	session.discard()
	c.current = nil
	c.events.SessionStateChanged(c.statusLocked(), domain.SessionReasonRecordingDiscarded)
}

// release stops the device and waits for the pump to drain.
func (c *SessionController) release(session *RecordingSession) {
	session.stopping.Store(true)
	if err := session.device.Stop(); err != nil {
		c.events.SessionError(domain.WorkflowRecording, domain.ErrorCodeAudioStop, "failed to stop audio capture cleanly")
	}
	<-session.pumpDone
	session.cancel()
}

func (c *SessionController) stateLocked() domain.SessionState {
	if c.current == nil {
		return domain.SessionStateIdle
	}
	return c.current.State()
}

func (c *SessionController) statusLocked() domain.Status {
	if c.current == nil {
		return domain.Status{State: domain.SessionStateIdle, Elapsed: FormatElapsed(0)}
	}
	return c.current.status(c.clock.Now())
}

func (c *SessionController) canvasSize() domain.CanvasSize {
	if c.canvas != nil {
		if size := c.canvas.CanvasSize(); size.Width > 0 && size.Height > 0 {
			return size
		}
	}
	return c.cfg.DefaultCanvas
}
