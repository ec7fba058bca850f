package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"

	"minutemic/internal/errorsx"
	"minutemic/internal/ports"
)

// PortAudioCapture reads an input device through PortAudio. An empty or
// "default" InputDevice selects the host's default input; anything else is
// matched against device names.
type PortAudioCapture struct {
	framesPerBuffer int
}

func NewPortAudioCapture(framesPerBuffer int) *PortAudioCapture {
	if framesPerBuffer <= 0 {
		framesPerBuffer = 1024
	}
	return &PortAudioCapture{framesPerBuffer: framesPerBuffer}
}

func (c *PortAudioCapture) Start(_ context.Context, cfg ports.AudioConfig) (ports.AudioSession, error) {
	deviceName := cfg.InputDevice
	cfg = withCaptureDefaults(cfg)

	if err := portaudio.Initialize(); err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("portaudio init: %w", err), errorsx.ReasonDeviceUnavailable)
	}

	in := make([]int16, c.framesPerBuffer*cfg.Channels)
	stream, err := c.open(deviceName, cfg, in)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, errorsx.Wrap(err, errorsx.ReasonDeviceUnavailable)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, errorsx.Wrap(fmt.Errorf("start input stream: %w", err), errorsx.ReasonDeviceUnavailable)
	}

	return newPortaudioSession(stream, in, portaudio.Terminate), nil
}

func (c *PortAudioCapture) open(deviceName string, cfg ports.AudioConfig, in []int16) (*portaudio.Stream, error) {
	if isDefaultDevice(deviceName) {
		stream, err := portaudio.OpenDefaultStream(cfg.Channels, 0, float64(cfg.SampleRate), c.framesPerBuffer, in)
		if err != nil {
			return nil, fmt.Errorf("open default input stream: %w", err)
		}
		return stream, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	device, err := matchInputDevice(devices, deviceName)
	if err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(cfg.SampleRate),
		FramesPerBuffer: c.framesPerBuffer,
	}, in)
	if err != nil {
		return nil, fmt.Errorf("open input stream on %q: %w", device.Name, err)
	}
	return stream, nil
}

func isDefaultDevice(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, "default")
}

// matchInputDevice prefers an exact (case-insensitive) name, then a
// substring match. Output-only devices never match.
func matchInputDevice(devices []*portaudio.DeviceInfo, name string) (*portaudio.DeviceInfo, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	var partial *portaudio.DeviceInfo
	for _, d := range devices {
		if d == nil || d.MaxInputChannels <= 0 {
			continue
		}
		got := strings.ToLower(d.Name)
		if got == want {
			return d, nil
		}
		if partial == nil && strings.Contains(got, want) {
			partial = d
		}
	}
	if partial != nil {
		return partial, nil
	}
	return nil, fmt.Errorf("no input device matches %q", name)
}

// blockingStream is the part of *portaudio.Stream a session drives.
type blockingStream interface {
	Read() error
	Stop() error
	Close() error
}

// portaudioSession serializes every stream call under mu. The blocking
// PortAudio API must never see Stop or Close while a Read is in flight, so
// Stop waits for the current buffer and then tears down.
type portaudioSession struct {
	mu        sync.Mutex
	stream    blockingStream
	in        []int16
	terminate func() error
	closed    bool
	stopErr   error

	pending []byte
}

func newPortaudioSession(stream blockingStream, in []int16, terminate func() error) *portaudioSession {
	return &portaudioSession{stream: stream, in: in, terminate: terminate}
}

// Read blocks for one buffer and hands it out as s16le bytes.
func (s *portaudioSession) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return 0, io.EOF
		}
		err := s.stream.Read()
		if err == nil {
			s.pending = int16ToBytes(s.in)
		}
		s.mu.Unlock()
		if err != nil {
			return 0, fmt.Errorf("read input stream: %w", err)
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *portaudioSession) Close() error {
	return s.Stop()
}

func (s *portaudioSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.stopErr
	}
	s.closed = true

	if err := s.stream.Stop(); err != nil {
		s.stopErr = err
	}
	if err := s.stream.Close(); err != nil && s.stopErr == nil {
		s.stopErr = err
	}
	if s.terminate != nil {
		_ = s.terminate()
	}
	return s.stopErr
}

func int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out
}
