package usecase

import (
	"errors"
	"fmt"
	"io"

	"minutemic/internal/domain"
	"minutemic/internal/ports"
)

// pumpAudioChunks drains the device until it reports EOF. Chunks read while
// the session is paused are dropped so the device stays warm.
func pumpAudioChunks(session *RecordingSession, chunkSize int, events ports.EventSink) {
	defer close(session.pumpDone)

	if chunkSize < 256 {
		chunkSize = 4096
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := session.device.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if session.capture(chunk) && session.analyser != nil {
				session.analyser.Write(chunk)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !session.stopping.Load() {
				events.SessionError(domain.WorkflowRecording, domain.ErrorCodeAudioStream, fmt.Sprintf("audio capture error: %v", err))
			}
			return
		}
	}
}
