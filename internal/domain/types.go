package domain

import "time"

// SessionState models the recording lifecycle.
type SessionState string

const (
	SessionStateIdle      SessionState = "idle"
	SessionStateRecording SessionState = "recording"
	SessionStatePaused    SessionState = "paused"
	SessionStateStopped   SessionState = "stopped"
)

// Command is a user-initiated request dispatched into the session state machine.
type Command string

const (
	CommandStart   Command = "start"
	CommandPause   Command = "pause"
	CommandResume  Command = "resume"
	CommandStop    Command = "stop"
	CommandDiscard Command = "discard"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	SessionReasonReady              SessionStateReason = "ready"
	SessionReasonRecordingStarted   SessionStateReason = "recording_started"
	SessionReasonRecordingPaused    SessionStateReason = "recording_paused"
	SessionReasonRecordingResumed   SessionStateReason = "recording_resumed"
	SessionReasonRecordingStopped   SessionStateReason = "recording_stopped"
	SessionReasonRecordingSaved     SessionStateReason = "recording_saved"
	SessionReasonNoAudioCaptured    SessionStateReason = "no_audio_captured"
	SessionReasonRecordingDiscarded SessionStateReason = "recording_discarded"
	SessionReasonDeviceUnavailable  SessionStateReason = "device_unavailable"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup             ErrorCode = "startup"
	ErrorCodeDeviceUnavailable   ErrorCode = "device_unavailable"
	ErrorCodeAudioStop           ErrorCode = "audio_stop"
	ErrorCodeAudioStream         ErrorCode = "audio_stream"
	ErrorCodeNoAudioCaptured     ErrorCode = "no_audio_captured"
	ErrorCodePersistenceFailed   ErrorCode = "persistence_failed"
	ErrorCodeMissingCredential   ErrorCode = "missing_credential"
	ErrorCodeRemoteRequestFailed ErrorCode = "remote_request_failed"
	ErrorCodeClipboard           ErrorCode = "clipboard"
	ErrorCodeExport              ErrorCode = "export"
	ErrorCodeInvalidInput        ErrorCode = "invalid_input"
)

// Workflow scopes results and errors to one area of the UI.
type Workflow string

const (
	WorkflowRecording      Workflow = "recording"
	WorkflowAudioToText    Workflow = "audio_to_text"
	WorkflowTextToSummary  Workflow = "text_to_summary"
	WorkflowAudioToSummary Workflow = "audio_to_summary"
)

// Status summarizes the current runtime status.
type Status struct {
	SessionID   string       `json:"sessionId,omitempty"`
	State       SessionState `json:"state"`
	Elapsed     string       `json:"elapsed"`
	HasArtifact bool         `json:"hasArtifact"`
	Saved       bool         `json:"saved"`
	SavedPath   string       `json:"savedPath,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// Frame is one waveform polyline ready to draw on a canvas.
type Frame struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Points []Point `json:"points"`
}

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CanvasSize is the drawable area reported by the UI.
type CanvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SummaryResult is the structured meeting summary returned by the remote service.
// Every field is optional; empty strings and empty slices mean absent.
type SummaryResult struct {
	Title        string   `json:"meeting_title,omitempty"`
	Date         string   `json:"date,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	KeyPoints    []string `json:"key_points,omitempty"`
	ActionItems  []string `json:"action_items,omitempty"`
	Decisions    []string `json:"decisions,omitempty"`
}

// Transcription is the audio-to-text response.
type Transcription struct {
	Text string `json:"transcription"`
}

// SummaryView pairs a summary with its rendered form for the UI.
type SummaryView struct {
	Result   SummaryResult   `json:"result"`
	Document DisplayDocument `json:"document"`
}

// BlockKind identifies how a display block is drawn.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockLine      BlockKind = "line"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
)

// Block is one rendered element of a DisplayDocument.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Label string    `json:"label,omitempty"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
}

// DisplayDocument is the render output for a SummaryResult.
type DisplayDocument struct {
	Blocks []Block `json:"blocks"`
}

// Endpoint names a remote service operation.
type Endpoint string

const (
	EndpointAudioToText    Endpoint = "audio-to-text"
	EndpointTextToSummary  Endpoint = "text-to-summary"
	EndpointAudioToSummary Endpoint = "audio-to-summary"
)

// Endpoints lists every remote operation in probe order.
var Endpoints = []Endpoint{EndpointTextToSummary, EndpointAudioToText, EndpointAudioToSummary}

// EndpointStatus reports whether an endpoint answered its liveness probe.
type EndpointStatus struct {
	Endpoint  Endpoint  `json:"endpoint"`
	Available bool      `json:"available"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Preferences are the persisted credential choices.
type Preferences struct {
	UseDefaultCredential bool   `json:"useDefaultCredential" toml:"use_default_credential"`
	CustomCredential     string `json:"customCredential" toml:"custom_credential"`
}

// Notice is a non-fatal, user-facing notification.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// NoticeLevel grades a Notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
)
