package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"minutemic/internal/domain"
	"minutemic/internal/output"
)

func newTestTerminal() (*Terminal, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewTerminal(output.NewFormatter(&buf)), &buf
}

func TestConfirmReadsNextLine(t *testing.T) {
	t.Parallel()

	term, buf := newTestTerminal()
	term.Listen(strings.NewReader("y\nno\n"))

	ok, err := term.Confirm(context.Background(), "Unsaved recording", "Discard it?")
	if err != nil || !ok {
		t.Fatalf("expected confirmation, got ok=%v err=%v", ok, err)
	}
	ok, err = term.Confirm(context.Background(), "Unsaved recording", "Discard it?")
	if err != nil || ok {
		t.Fatalf("expected decline, got ok=%v err=%v", ok, err)
	}
	if !strings.Contains(buf.String(), "Discard it? [y/N]") {
		t.Fatalf("missing prompt: %q", buf.String())
	}
}

func TestConfirmWithoutInput(t *testing.T) {
	t.Parallel()

	term, _ := newTestTerminal()
	if _, err := term.Confirm(context.Background(), "t", "m"); !errors.Is(err, errNoInput) {
		t.Fatalf("expected errNoInput, got %v", err)
	}

	term.Listen(strings.NewReader(""))
	if _, err := term.Confirm(context.Background(), "t", "m"); !errors.Is(err, errNoInput) {
		t.Fatalf("expected errNoInput at EOF, got %v", err)
	}
}

func TestTickUsesLatestFrameLevel(t *testing.T) {
	t.Parallel()

	term, buf := newTestTerminal()
	term.VisualizerFrame(domain.Frame{Width: 4, Height: 100, Points: []domain.Point{{X: 0, Y: 50}, {X: 1, Y: 0}}})
	term.TimerTick("00:00:03")

	if !strings.Contains(buf.String(), "00:00:03 ▮▮▮▮▮▮▮▮▮▮") {
		t.Fatalf("expected full meter: %q", buf.String())
	}
}

func TestSessionErrorPrintsRecordingOnly(t *testing.T) {
	t.Parallel()

	term, buf := newTestTerminal()
	term.SessionError(domain.WorkflowAudioToText, domain.ErrorCodeRemoteRequestFailed, "status 500")
	if buf.Len() != 0 {
		t.Fatalf("remote errors should be left to the command: %q", buf.String())
	}

	term.SessionError(domain.WorkflowRecording, domain.ErrorCodeDeviceUnavailable, "permission denied")
	if !strings.Contains(buf.String(), "Could not access the microphone: permission denied") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestFrameLevel(t *testing.T) {
	t.Parallel()

	if got := frameLevel(domain.Frame{}); got != 0 {
		t.Fatalf("expected 0 for empty frame, got %v", got)
	}
	flat := domain.Frame{Height: 100, Points: []domain.Point{{Y: 50}, {Y: 50}}}
	if got := frameLevel(flat); got != 0 {
		t.Fatalf("expected 0 for silence, got %v", got)
	}
	half := domain.Frame{Height: 100, Points: []domain.Point{{Y: 75}, {Y: 40}}}
	if got := frameLevel(half); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}
