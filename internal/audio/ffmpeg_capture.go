package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"minutemic/internal/errorsx"
	"minutemic/internal/ports"
)

// startupGrace is how long ffmpeg must survive before the device counts as acquired.
const startupGrace = 250 * time.Millisecond

// FFmpegCapture reads microphone PCM from an ffmpeg child process.
type FFmpegCapture struct {
	command string
}

func NewFFmpegCapture(command string) *FFmpegCapture {
	if command == "" {
		command = "ffmpeg"
	}
	return &FFmpegCapture{command: command}
}

// Check reports whether the ffmpeg binary can be found.
func (c *FFmpegCapture) Check() error {
	if _, err := exec.LookPath(c.command); err != nil {
		return fmt.Errorf("%s not found: install ffmpeg or set audio.command", c.command)
	}
	return nil
}

func (c *FFmpegCapture) Start(ctx context.Context, cfg ports.AudioConfig) (ports.AudioSession, error) {
	cfg = withCaptureDefaults(cfg)

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "s16le",
		"-",
	}

	cmd := exec.CommandContext(ctx, c.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("ffmpeg stdout pipe: %w", err), errorsx.ReasonDeviceUnavailable)
	}
	if err := cmd.Start(); err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("start ffmpeg: %w", err), errorsx.ReasonDeviceUnavailable)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	select {
	case err := <-waitErr:
		detail := trimStderr(stderr.String())
		if err != nil {
			return nil, errorsx.Wrap(fmt.Errorf("microphone unavailable: %w: %s", err, detail), errorsx.ReasonDeviceUnavailable)
		}
		return nil, errorsx.New(errorsx.ReasonDeviceUnavailable, "microphone unavailable: ffmpeg exited before capture started")
	case <-time.After(startupGrace):
	}

	return &ffmpegSession{
		stdout:  stdout,
		stderr:  &stderr,
		process: cmd.Process,
		waitErr: waitErr,
	}, nil
}

func withCaptureDefaults(cfg ports.AudioConfig) ports.AudioConfig {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = defaultInputFormat(runtime.GOOS)
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = defaultInputDevice(runtime.GOOS)
	}
	return cfg
}

func defaultInputFormat(goos string) string {
	switch goos {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "pulse"
	}
}

func defaultInputDevice(goos string) string {
	switch goos {
	case "darwin":
		return ":default"
	case "windows":
		return "audio=default"
	default:
		return "default"
	}
}

type ffmpegSession struct {
	stdout io.ReadCloser
	stderr *bytes.Buffer

	process *os.Process
	waitErr <-chan error

	stopOnce sync.Once
	stopErr  error
}

func (s *ffmpegSession) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *ffmpegSession) Close() error {
	return s.Stop()
}

// Stop interrupts ffmpeg so it flushes, then kills it if it lingers.
func (s *ffmpegSession) Stop() error {
	s.stopOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-s.waitErr:
			if ok {
				s.stopErr = ignoreExitStatus(err)
			}
		case <-time.After(1200 * time.Millisecond):
			if s.process != nil {
				_ = s.process.Kill()
			}
			if err, ok := <-s.waitErr; ok {
				s.stopErr = ignoreExitStatus(err)
			}
		}

		if closeErr := s.stdout.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) && s.stopErr == nil {
			s.stopErr = closeErr
		}

		if s.stopErr != nil && s.stderr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, trimStderr(s.stderr.String()))
		}
	})

	return s.stopErr
}

// ignoreExitStatus treats a non-zero exit after SIGINT as a clean stop.
func ignoreExitStatus(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func trimStderr(input string) string {
	return string(bytes.TrimSpace([]byte(input)))
}
