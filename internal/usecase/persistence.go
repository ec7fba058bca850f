package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"minutemic/internal/domain"
	"minutemic/internal/errorsx"
	"minutemic/internal/ports"
)

var ErrNoArtifact = errors.New("no recording available")

var unsafeFilenameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// RecordingFilename derives the WAV file name for a recording: the meeting
// title when one was given, otherwise a timestamp from the stop time.
func RecordingFilename(title string, stoppedAt time.Time) string {
	name := sanitizeTitle(title)
	if name == "" {
		return "Recording_" + stoppedAt.Format("20060102_1504") + ".wav"
	}
	if strings.HasSuffix(strings.ToLower(name), ".wav") {
		return name
	}
	return name + ".wav"
}

func sanitizeTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, title)
	title = unsafeFilenameChars.Replace(title)
	return strings.Trim(title, " .")
}

// Persister writes finalized recordings and reports the outcome as
// notifications. Failures never change session state.
type Persister struct {
	saver    ports.ArtifactSaver
	notifier ports.Notifier
	events   ports.EventSink
}

func NewPersister(saver ports.ArtifactSaver, notifier ports.Notifier, events ports.EventSink) *Persister {
	return &Persister{saver: saver, notifier: notifier, events: events}
}

// Persist saves the session artifact in the background. The returned channel
// yields the outcome once.
func (p *Persister) Persist(ctx context.Context, session *RecordingSession, title string) <-chan error {
	done := make(chan error, 1)
	artifact := session.Artifact()
	if artifact == nil {
		done <- ErrNoArtifact
		close(done)
		return done
	}

	filename := RecordingFilename(title, artifact.StoppedAt())
	go func() {
		defer close(done)
		_, err := p.Save(ctx, session, filename)
		done <- err
	}()
	return done
}

// Save writes the session artifact synchronously under filename.
func (p *Persister) Save(ctx context.Context, session *RecordingSession, filename string) (string, error) {
	artifact := session.Artifact()
	if artifact == nil {
		return "", ErrNoArtifact
	}

	path, err := p.saver.Save(ctx, artifact, filename)
	if err != nil {
		err = errorsx.Wrap(fmt.Errorf("save recording: %w", err), errorsx.ReasonPersistenceFailed)
		p.events.SessionError(domain.WorkflowRecording, domain.ErrorCodePersistenceFailed, err.Error())
		p.notify(domain.Notice{Level: domain.NoticeWarning, Title: "Recording not saved", Message: err.Error()})
		return "", err
	}

	session.markSaved(path)
	p.notify(domain.Notice{Level: domain.NoticeSuccess, Title: "Recording saved", Message: path})
	return path, nil
}

func (p *Persister) notify(notice domain.Notice) {
	p.events.Notify(notice)
	if p.notifier != nil {
		_ = p.notifier.Notify(notice)
	}
}
