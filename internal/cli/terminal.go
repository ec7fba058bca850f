package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"sync"

	"minutemic/internal/domain"
	"minutemic/internal/output"
)

var errNoInput = errors.New("no terminal input")

// Terminal is the headless event sink and confirmer. Input lines are shared
// between the record loop and confirmation prompts.
type Terminal struct {
	out *output.Formatter

	mu    sync.Mutex
	level float64
	lines <-chan string
}

func NewTerminal(out *output.Formatter) *Terminal {
	return &Terminal{out: out}
}

// Listen starts reading lines from in. It is safe to call once per process.
func (t *Terminal) Listen(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	t.mu.Lock()
	t.lines = lines
	t.mu.Unlock()
	return lines
}

func (t *Terminal) Confirm(ctx context.Context, _ string, message string) (bool, error) {
	t.mu.Lock()
	lines := t.lines
	t.mu.Unlock()
	if lines == nil {
		return false, errNoInput
	}

	t.out.Prompt(message)
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line, ok := <-lines:
		if !ok {
			return false, errNoInput
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

func (t *Terminal) SessionStateChanged(status domain.Status, reason domain.SessionStateReason) {
	t.out.State(status, reason)
}

func (t *Terminal) TimerTick(elapsed string) {
	t.mu.Lock()
	level := t.level
	t.mu.Unlock()
	t.out.Tick(elapsed, level)
}

// VisualizerFrame keeps the latest peak level for the ticker line.
func (t *Terminal) VisualizerFrame(frame domain.Frame) {
	level := frameLevel(frame)
	t.mu.Lock()
	t.level = level
	t.mu.Unlock()
}

// ResultReady is a no-op; commands print their own results.
func (t *Terminal) ResultReady(domain.Workflow, any) {}

func (t *Terminal) CredentialRequired(domain.Workflow) {
	t.out.Warning("No credential configured; run `minutemic-cli prefs set --credential KEY`")
}

func (t *Terminal) EndpointStatus([]domain.EndpointStatus) {}

func (t *Terminal) Notify(notice domain.Notice) {
	t.out.Notice(notice)
}

// SessionError prints recording errors. Remote workflow errors are returned
// by the command that started them.
func (t *Terminal) SessionError(workflow domain.Workflow, code domain.ErrorCode, detail string) {
	if workflow != domain.WorkflowRecording {
		return
	}
	msg := output.ErrorMessage(code, detail)
	if detail != "" && msg != detail {
		msg += ": " + detail
	}
	t.out.Error(msg)
}

// frameLevel is the peak distance of the polyline from the centre line,
// scaled to [0,1].
func frameLevel(frame domain.Frame) float64 {
	if frame.Height <= 0 {
		return 0
	}
	mid := float64(frame.Height) / 2
	peak := 0.0
	for _, p := range frame.Points {
		peak = math.Max(peak, math.Abs(p.Y-mid))
	}
	return math.Min(peak/mid, 1)
}
