package usecase

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"minutemic/internal/audio"
	"minutemic/internal/domain"
	"minutemic/internal/ports"
)

// RecordingSession owns everything about one recording: its device handle,
// captured chunks, clock fields and the finalized artifact.
type RecordingSession struct {
	id       string
	cancel   func()
	device   ports.AudioSession
	analyser *audio.Analyser
	pumpDone chan struct{}
	stopping atomic.Bool

	timer      *Timer
	visualizer *Visualizer

	mu        sync.Mutex
	state     domain.SessionState
	chunks    [][]byte
	startedAt time.Time
	offset    time.Duration
	artifact  *audio.Artifact

	saved     bool
	savedPath string
	discarded bool

	persistOnce sync.Once
	persisted   chan struct{}
}

func newRecordingSession(device ports.AudioSession, cancel func(), analyser *audio.Analyser, now time.Time) *RecordingSession {
	return &RecordingSession{
		id:        uuid.NewString(),
		cancel:    cancel,
		device:    device,
		analyser:  analyser,
		pumpDone:  make(chan struct{}),
		state:     domain.SessionStateRecording,
		startedAt: now,
	}
}

func (s *RecordingSession) ID() string { return s.id }

func (s *RecordingSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *RecordingSession) recording() bool {
	return s.State() == domain.SessionStateRecording
}

// Elapsed is wall time spent recording, pauses excluded.
func (s *RecordingSession) Elapsed(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked(now)
}

func (s *RecordingSession) elapsedLocked(now time.Time) time.Duration {
	if s.state == domain.SessionStateRecording {
		return now.Sub(s.startedAt)
	}
	return s.offset
}

// capture keeps a chunk while recording and drops it otherwise.
func (s *RecordingSession) capture(chunk []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionStateRecording {
		return false
	}
	s.chunks = append(s.chunks, chunk)
	return true
}

func (s *RecordingSession) pause(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = now.Sub(s.startedAt)
	s.state = domain.SessionStatePaused
}

func (s *RecordingSession) resume(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startedAt = now.Add(-s.offset)
	s.state = domain.SessionStateRecording
}

// finish moves to Stopped and builds the artifact from the captured chunks.
// It returns nil when nothing was captured.
func (s *RecordingSession) finish(now time.Time, sampleRate int, channels int) *audio.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.SessionStateRecording {
		s.offset = now.Sub(s.startedAt)
	}
	s.state = domain.SessionStateStopped

	artifact, err := audio.NewArtifact(s.chunks, sampleRate, channels, now)
	s.chunks = nil
	if err != nil {
		return nil
	}
	s.artifact = artifact
	return artifact
}

func (s *RecordingSession) Artifact() *audio.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}

func (s *RecordingSession) markSaved(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = true
	s.savedPath = path
}

// savedTo returns where the artifact was last written.
func (s *RecordingSession) savedTo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedPath, s.saved
}

// beginPersist marks an autosave as in flight; the returned channel is closed
// once its outcome is known.
func (s *RecordingSession) beginPersist() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persisted = make(chan struct{})
	return s.persisted
}

// persistDone is nil when no autosave was started.
func (s *RecordingSession) persistDone() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted
}

func (s *RecordingSession) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discarded = true
	s.artifact = nil
	s.chunks = nil
}

// unsaved reports whether the session holds an artifact that was neither
// saved nor discarded.
func (s *RecordingSession) unsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact != nil && !s.saved && !s.discarded
}

func (s *RecordingSession) status(now time.Time) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Status{
		SessionID:   s.id,
		State:       s.state,
		Elapsed:     FormatElapsed(s.elapsedLocked(now)),
		HasArtifact: s.artifact != nil,
		Saved:       s.saved,
		SavedPath:   s.savedPath,
	}
}
