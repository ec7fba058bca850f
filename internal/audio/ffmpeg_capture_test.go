package audio

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"minutemic/internal/errorsx"
	"minutemic/internal/ports"
)

func TestFFmpegCaptureStartReadAndStop(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "capture.sh", "#!/usr/bin/env bash\nprintf 'pcm!'\nsleep 2\n")
	capture := NewFFmpegCapture(script)

	session, err := capture.Start(context.Background(), ports.AudioConfig{})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	buf := make([]byte, 8)
	n, readErr := session.Read(buf)
	if n <= 0 {
		t.Fatalf("expected audio bytes, got n=%d err=%v", n, readErr)
	}
	if !strings.Contains(string(buf[:n]), "pcm!") {
		t.Fatalf("unexpected bytes: %q", string(buf[:n]))
	}

	if err := session.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := session.Stop(); err != nil {
		t.Fatalf("second stop should be idempotent, got %v", err)
	}
}

func TestFFmpegCaptureEarlyExitIsDeviceUnavailable(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "fail.sh", "#!/usr/bin/env bash\necho 'no such device' 1>&2\nexit 1\n")
	capture := NewFFmpegCapture(script)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := capture.Start(ctx, ports.AudioConfig{})
	if err == nil {
		t.Fatalf("expected early exit error")
	}
	if !errorsx.HasReason(err, errorsx.ReasonDeviceUnavailable) {
		t.Fatalf("expected device_unavailable reason, got %s", errorsx.Reason(err))
	}
	if !strings.Contains(err.Error(), "no such device") {
		t.Fatalf("expected stderr detail in error: %v", err)
	}
}

func TestFFmpegCaptureMissingBinary(t *testing.T) {
	t.Parallel()

	capture := NewFFmpegCapture(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := capture.Check(); err == nil {
		t.Fatalf("expected check to fail")
	}
	_, err := capture.Start(context.Background(), ports.AudioConfig{})
	if !errorsx.HasReason(err, errorsx.ReasonDeviceUnavailable) {
		t.Fatalf("expected device_unavailable, got %v", err)
	}
}

func TestWithCaptureDefaults(t *testing.T) {
	t.Parallel()

	cfg := withCaptureDefaults(ports.AudioConfig{})
	if cfg.SampleRate != 16000 || cfg.Channels != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.InputFormat == "" || cfg.InputDevice == "" {
		t.Fatalf("expected platform input defaults: %+v", cfg)
	}

	kept := withCaptureDefaults(ports.AudioConfig{SampleRate: 44100, Channels: 2, InputFormat: "alsa", InputDevice: "hw:1"})
	if kept.SampleRate != 44100 || kept.Channels != 2 || kept.InputFormat != "alsa" || kept.InputDevice != "hw:1" {
		t.Fatalf("overrides not kept: %+v", kept)
	}
}

func TestDefaultInputsPerPlatform(t *testing.T) {
	t.Parallel()

	if defaultInputFormat("darwin") != "avfoundation" || defaultInputDevice("darwin") != ":default" {
		t.Fatalf("unexpected darwin defaults")
	}
	if defaultInputFormat("windows") != "dshow" {
		t.Fatalf("unexpected windows format")
	}
	if defaultInputFormat("linux") != "pulse" || defaultInputDevice("linux") != "default" {
		t.Fatalf("unexpected linux defaults")
	}
}

func TestIgnoreExitStatus(t *testing.T) {
	t.Parallel()

	err := exec.Command("bash", "-lc", "exit 1").Run()
	if err == nil {
		t.Fatalf("expected command to fail")
	}
	if got := ignoreExitStatus(err); got != nil {
		t.Fatalf("expected nil for exit error, got %v", got)
	}
}

func writeScript(t *testing.T, name string, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o700); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}
