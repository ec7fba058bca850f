package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
	wavPCMFormat   = 1
)

// ContentType is the media type of an encoded Artifact.
const ContentType = "audio/wav"

// Artifact is the finalized audio of one recording session. It is immutable
// once built.
type Artifact struct {
	pcm        []byte
	sampleRate int
	channels   int
	stoppedAt  time.Time
}

// ErrNoSamples means the chunks did not hold a single whole frame.
var ErrNoSamples = errors.New("no audio captured")

// NewArtifact joins captured s16le chunks into an Artifact. It copies the data
// and drops a trailing partial frame.
func NewArtifact(chunks [][]byte, sampleRate int, channels int, stoppedAt time.Time) (*Artifact, error) {
	size := 0
	for _, c := range chunks {
		size += len(c)
	}
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid audio format: rate=%d channels=%d", sampleRate, channels)
	}

	frame := bytesPerSample * channels
	pcm := make([]byte, 0, size)
	for _, c := range chunks {
		pcm = append(pcm, c...)
	}
	pcm = pcm[:len(pcm)-len(pcm)%frame]
	if len(pcm) == 0 {
		return nil, ErrNoSamples
	}

	return &Artifact{pcm: pcm, sampleRate: sampleRate, channels: channels, stoppedAt: stoppedAt}, nil
}

func (a *Artifact) SampleRate() int      { return a.sampleRate }
func (a *Artifact) Channels() int        { return a.channels }
func (a *Artifact) StoppedAt() time.Time { return a.stoppedAt }
func (a *Artifact) Size() int            { return len(a.pcm) }

// Duration is the playable length of the captured audio.
func (a *Artifact) Duration() time.Duration {
	bps := a.sampleRate * a.channels * bytesPerSample
	if bps == 0 {
		return 0
	}
	return time.Duration(len(a.pcm)) * time.Second / time.Duration(bps)
}

// EncodeWAV writes the artifact as a 16-bit PCM WAV stream.
func (a *Artifact) EncodeWAV(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, a.sampleRate, bitsPerSample, a.channels, wavPCMFormat)

	samples := len(a.pcm) / bytesPerSample
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: a.channels,
			SampleRate:  a.sampleRate,
		},
		Data:           make([]int, samples),
		SourceBitDepth: bitsPerSample,
	}
	for i := 0; i < samples; i++ {
		buf.Data[i] = int(int16(binary.LittleEndian.Uint16(a.pcm[i*2:])))
	}

	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
