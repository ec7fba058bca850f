package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonDeviceUnavailable   ReasonCode = "device_unavailable"
	ReasonNoAudioCaptured     ReasonCode = "no_audio_captured"
	ReasonPersistenceFailed   ReasonCode = "persistence_failed"
	ReasonMissingCredential   ReasonCode = "missing_credential"
	ReasonRemoteRequestFailed ReasonCode = "remote_request_failed"
	ReasonInvalidConfig       ReasonCode = "invalid_config"
	ReasonInvalidInput        ReasonCode = "invalid_input"
)
