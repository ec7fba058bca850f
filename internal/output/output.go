package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"minutemic/internal/domain"
	"minutemic/internal/render"
)

const meterWidth = 10

// Formatter prints CLI progress. The elapsed ticker rewrites one line in
// place; any other message first ends that line.
type Formatter struct {
	mu     sync.Mutex
	w      io.Writer
	inline bool
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Tick redraws the live elapsed/level line.
func (f *Formatter) Tick(elapsed string, level float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.w, "\r⏺️  %s %s", elapsed, Meter(level, meterWidth))
	f.inline = true
}

func (f *Formatter) State(status domain.Status, reason domain.SessionStateReason) {
	msg := ReasonMessage(reason)
	if msg == "" {
		return
	}
	switch reason {
	case domain.SessionReasonRecordingStopped:
		f.printf("⏹️  %s (%s)\n", msg, status.Elapsed)
	case domain.SessionReasonRecordingSaved:
		f.printf("💾 %s: %s\n", msg, status.SavedPath)
	case domain.SessionReasonRecordingPaused:
		f.printf("⏸️  %s at %s\n", msg, status.Elapsed)
	default:
		f.printf("ℹ️  %s\n", msg)
	}
}

func (f *Formatter) Notice(notice domain.Notice) {
	text := notice.Title
	if notice.Message != "" {
		text += ": " + notice.Message
	}
	switch notice.Level {
	case domain.NoticeSuccess:
		f.Success(text)
	case domain.NoticeWarning:
		f.Warning(text)
	default:
		f.Info(text)
	}
}

func (f *Formatter) Summary(view domain.SummaryView) {
	doc := view.Document
	if len(doc.Blocks) == 0 {
		doc = render.Render(view.Result)
	}
	f.printf("\n%s\n", strings.TrimRight(render.Markdown(doc), "\n"))
}

func (f *Formatter) Transcript(t domain.Transcription) {
	f.printf("\n%s\n", strings.TrimSpace(t.Text))
}

func (f *Formatter) Endpoints(statuses []domain.EndpointStatus) {
	f.printf("🌐 Endpoints:\n")
	for _, s := range statuses {
		if s.Available {
			f.printf("  ✅ %s: available\n", s.Endpoint)
		} else {
			f.printf("  ❌ %s: unavailable\n", s.Endpoint)
		}
	}
}

// Preferences prints the credential choice without revealing the secret.
func (f *Formatter) Preferences(prefs domain.Preferences, path string) {
	f.printf("⚙️  Preferences (%s):\n", path)
	f.printf("  use default credential: %t\n", prefs.UseDefaultCredential)
	f.printf("  custom credential: %s\n", MaskCredential(prefs.CustomCredential))
}

func (f *Formatter) Keys(help string) {
	f.printf("⌨️  %s\n", help)
}

func (f *Formatter) Prompt(question string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endLine()
	fmt.Fprintf(f.w, "❓ %s [y/N] ", question)
}

func (f *Formatter) Error(msg string) {
	f.printf("❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	f.printf("ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	f.printf("✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	f.printf("⚠️  %s\n", msg)
}

func (f *Formatter) printf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endLine()
	fmt.Fprintf(f.w, format, args...)
}

func (f *Formatter) endLine() {
	if f.inline {
		fmt.Fprintln(f.w)
		f.inline = false
	}
}

// Meter draws level in [0,1] as a fixed-width bar.
func Meter(level float64, width int) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level*float64(width) + 0.5)
	return strings.Repeat("▮", filled) + strings.Repeat("▯", width-filled)
}

// MaskCredential keeps only the last four characters visible.
func MaskCredential(credential string) string {
	switch {
	case credential == "":
		return "(not set)"
	case len(credential) <= 4:
		return "****"
	default:
		return "****" + credential[len(credential)-4:]
	}
}
