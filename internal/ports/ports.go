package ports

import (
	"context"
	"io"
	"time"

	"minutemic/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session producing s16le PCM.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture acquires the microphone. Start fails when permission is denied
// or no input device is present.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// Clock abstracts wall time and periodic callbacks.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is a cancellable periodic callback source.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// CanvasSource reports the current drawable size of the waveform canvas.
type CanvasSource interface {
	CanvasSize() domain.CanvasSize
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, title string, message string) (bool, error)
}

// ArtifactSaver writes a WAV artifact under the given file name and returns
// where it ended up. An absolute file name is written as is.
type ArtifactSaver interface {
	Save(ctx context.Context, artifact WAVEncoder, filename string) (string, error)
}

// WAVEncoder is anything that can encode itself as a WAV stream.
type WAVEncoder interface {
	EncodeWAV(w io.WriteSeeker) error
}

// Notifier surfaces non-fatal notifications outside the UI.
type Notifier interface {
	Notify(notice domain.Notice) error
}

// AudioUpload is a named audio payload for the remote service.
type AudioUpload struct {
	Filename string
	Body     io.Reader
}

// SummaryService is the remote transcription/summarization contract.
type SummaryService interface {
	Transcribe(ctx context.Context, credential string, audio AudioUpload) (domain.Transcription, error)
	SummarizeText(ctx context.Context, credential string, title string, participants []string, text string) (domain.SummaryResult, error)
	SummarizeAudio(ctx context.Context, credential string, audio AudioUpload, title string, participants []string) (domain.SummaryResult, error)
	Probe(ctx context.Context, credential string) []domain.EndpointStatus
}

// PreferenceStore persists credential preferences.
type PreferenceStore interface {
	Load() (domain.Preferences, error)
	Save(prefs domain.Preferences) error
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	SessionStateChanged(status domain.Status, reason domain.SessionStateReason)
	TimerTick(elapsed string)
	VisualizerFrame(frame domain.Frame)
	ResultReady(workflow domain.Workflow, payload any)
	CredentialRequired(workflow domain.Workflow)
	EndpointStatus(statuses []domain.EndpointStatus)
	Notify(notice domain.Notice)
	SessionError(workflow domain.Workflow, code domain.ErrorCode, detail string)
}
