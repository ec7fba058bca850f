package audio

import (
	"encoding/binary"
	"sync"
)

// Centre is the unsigned 8-bit value of silence in time-domain samples.
const Centre = 128

// Analyser keeps the most recent time-domain samples of a capture as
// unsigned bytes, 128 being silence.
type Analyser struct {
	mu       sync.Mutex
	ring     []byte
	next     int
	channels int
}

func NewAnalyser(window int, channels int) *Analyser {
	if window <= 0 {
		window = 2048
	}
	if channels <= 0 {
		channels = 1
	}
	ring := make([]byte, window)
	for i := range ring {
		ring[i] = Centre
	}
	return &Analyser{ring: ring, channels: channels}
}

// Write feeds s16le PCM. Only the first channel of each frame is kept.
func (a *Analyser) Write(pcm []byte) {
	frame := bytesPerSample * a.channels

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i+1 < len(pcm); i += frame {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		a.ring[a.next] = byte(int(sample>>8) + Centre)
		a.next = (a.next + 1) % len(a.ring)
	}
}

// Snapshot returns the window oldest-first.
func (a *Analyser) Snapshot() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]byte, 0, len(a.ring))
	out = append(out, a.ring[a.next:]...)
	out = append(out, a.ring[:a.next]...)
	return out
}
