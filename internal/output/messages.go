package output

import "minutemic/internal/domain"

// ReasonMessage is the status line shown for a session transition.
func ReasonMessage(reason domain.SessionStateReason) string {
	switch reason {
	case domain.SessionReasonReady:
		return "Ready to record"
	case domain.SessionReasonRecordingStarted:
		return "Recording started"
	case domain.SessionReasonRecordingPaused:
		return "Recording paused"
	case domain.SessionReasonRecordingResumed:
		return "Recording resumed"
	case domain.SessionReasonRecordingStopped:
		return "Recording stopped"
	case domain.SessionReasonRecordingSaved:
		return "Recording saved"
	case domain.SessionReasonNoAudioCaptured:
		return "Recording stopped; no audio was captured"
	case domain.SessionReasonRecordingDiscarded:
		return "Recording discarded"
	case domain.SessionReasonDeviceUnavailable:
		return "Microphone unavailable"
	default:
		return ""
	}
}

// ErrorMessage is the headline for an error code. Unknown codes fall back to detail.
func ErrorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeDeviceUnavailable:
		return "Could not access the microphone"
	case domain.ErrorCodeAudioStop:
		return "Audio stop issue"
	case domain.ErrorCodeAudioStream:
		return "Audio capture issue"
	case domain.ErrorCodeNoAudioCaptured:
		return "No audio was captured"
	case domain.ErrorCodePersistenceFailed:
		return "Saving the recording failed"
	case domain.ErrorCodeMissingCredential:
		return "An API credential is required"
	case domain.ErrorCodeRemoteRequestFailed:
		return "Request to the summary service failed"
	case domain.ErrorCodeClipboard:
		return "Clipboard write failed"
	case domain.ErrorCodeExport:
		return "Export failed"
	case domain.ErrorCodeInvalidInput:
		if detail != "" {
			return detail
		}
		return "Invalid input"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
