package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
)

func TestNewArtifactRejectsEmptyCapture(t *testing.T) {
	t.Parallel()

	if _, err := NewArtifact(nil, 16000, 1, time.Now()); err == nil {
		t.Fatalf("expected error for empty capture")
	}
	if _, err := NewArtifact([][]byte{{}, {}}, 16000, 1, time.Now()); err == nil {
		t.Fatalf("expected error for zero-length chunks")
	}
}

func TestNewArtifactRejectsLessThanOneFrame(t *testing.T) {
	t.Parallel()

	if _, err := NewArtifact([][]byte{{7}}, 16000, 1, time.Now()); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples for a single byte, got %v", err)
	}
	if _, err := NewArtifact([][]byte{{1, 0}, {2}}, 16000, 2, time.Now()); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples for a partial stereo frame, got %v", err)
	}
}

func TestNewArtifactTrimsPartialFrames(t *testing.T) {
	t.Parallel()

	artifact, err := NewArtifact([][]byte{{1, 0, 2}, {0, 3}}, 8000, 1, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Size() != 4 {
		t.Fatalf("expected 4 bytes after trimming, got %d", artifact.Size())
	}
}

func TestArtifactDuration(t *testing.T) {
	t.Parallel()

	pcm := make([]byte, 16000*2)
	artifact, err := NewArtifact([][]byte{pcm}, 16000, 1, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Duration() != time.Second {
		t.Fatalf("expected 1s, got %s", artifact.Duration())
	}
}

func TestArtifactEncodeWAVRoundTrip(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 1000, -1000, 32767, -32768, 42}
	artifact, err := NewArtifact([][]byte{int16ToBytes(samples)}, 16000, 1, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := artifact.EncodeWAV(f); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		t.Fatalf("encoded file is not a valid wav")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if dec.SampleRate != 16000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("unexpected format: rate=%d chans=%d depth=%d", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(buf.Data))
	}
	for i, want := range samples {
		if buf.Data[i] != int(want) {
			t.Fatalf("sample %d: want %d got %d", i, want, buf.Data[i])
		}
	}
}

func TestInt16ToBytesLittleEndian(t *testing.T) {
	t.Parallel()

	got := int16ToBytes([]int16{1, -1, 256})
	want := []byte{1, 0, 0xff, 0xff, 0, 1}
	if string(got) != string(want) {
		t.Fatalf("unexpected bytes: %v", got)
	}
}
