package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"minutemic/internal/audio"
	"minutemic/internal/domain"
	"minutemic/internal/errorsx"
	"minutemic/internal/ports"
	"minutemic/internal/render"
)

var (
	ErrMissingCredential = errorsx.New(errorsx.ReasonMissingCredential, "no credential configured")
	ErrEmptyText         = errorsx.New(errorsx.ReasonInvalidInput, "meeting text is required")
	ErrNoResult          = errors.New("no result available")
	ErrEmptyCustomKey    = errorsx.New(errorsx.ReasonInvalidInput, "enter a credential or use the default one")
)

// ArtifactSource yields the finalized recording to submit.
type ArtifactSource interface {
	Artifact() (*audio.Artifact, error)
}

// SubmitConfig controls the submission workflows.
type SubmitConfig struct {
	DefaultCredential string
	TempDir           string
}

// Submitter runs the remote workflows and keeps the last result of each.
// A failure in one workflow never touches another workflow's result.
type Submitter struct {
	service    ports.SummaryService
	prefs      ports.PreferenceStore
	recordings ArtifactSource
	events     ports.EventSink
	clock      ports.Clock
	cfg        SubmitConfig

	mu          sync.Mutex
	summaries   map[domain.Workflow]domain.SummaryResult
	transcripts map[domain.Workflow]domain.Transcription
}

func NewSubmitter(
	service ports.SummaryService,
	prefs ports.PreferenceStore,
	recordings ArtifactSource,
	events ports.EventSink,
	clock ports.Clock,
	cfg SubmitConfig,
) *Submitter {
	if clock == nil {
		clock = SystemClock()
	}
	return &Submitter{
		service:     service,
		prefs:       prefs,
		recordings:  recordings,
		events:      events,
		clock:       clock,
		cfg:         cfg,
		summaries:   make(map[domain.Workflow]domain.SummaryResult),
		transcripts: make(map[domain.Workflow]domain.Transcription),
	}
}

// ResolveCredential picks the credential to send. An empty result is
// ErrMissingCredential.
func ResolveCredential(prefs domain.Preferences, defaultCredential string) (string, error) {
	credential := prefs.CustomCredential
	if prefs.UseDefaultCredential {
		credential = defaultCredential
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", ErrMissingCredential
	}
	return credential, nil
}

// ValidatePreferences rejects a custom-credential choice without a credential.
func ValidatePreferences(prefs domain.Preferences) error {
	if !prefs.UseDefaultCredential && strings.TrimSpace(prefs.CustomCredential) == "" {
		return ErrEmptyCustomKey
	}
	return nil
}

// ParseParticipants splits a comma-separated list, trimming names and
// dropping empties.
func ParseParticipants(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// SubmitRecording sends the current recording for an audio summary.
func (s *Submitter) SubmitRecording(ctx context.Context, title string, participants string) (domain.SummaryView, error) {
	workflow := domain.WorkflowAudioToSummary
	artifact, err := s.artifact(workflow)
	if err != nil {
		return domain.SummaryView{}, err
	}
	return s.summarize(workflow, func(credential string) (domain.SummaryResult, error) {
		var result domain.SummaryResult
		err := s.withArtifactUpload(artifact, func(upload ports.AudioUpload) error {
			var callErr error
			result, callErr = s.service.SummarizeAudio(ctx, credential, upload, title, ParseParticipants(participants))
			return callErr
		})
		return result, err
	})
}

// TranscribeRecording sends the current recording for transcription.
func (s *Submitter) TranscribeRecording(ctx context.Context) (domain.Transcription, error) {
	workflow := domain.WorkflowAudioToText
	artifact, err := s.artifact(workflow)
	if err != nil {
		return domain.Transcription{}, err
	}
	return s.transcribe(workflow, func(credential string) (domain.Transcription, error) {
		var result domain.Transcription
		err := s.withArtifactUpload(artifact, func(upload ports.AudioUpload) error {
			var callErr error
			result, callErr = s.service.Transcribe(ctx, credential, upload)
			return callErr
		})
		return result, err
	})
}

// SummarizeText summarizes a written transcript.
func (s *Submitter) SummarizeText(ctx context.Context, title string, participants string, text string) (domain.SummaryView, error) {
	workflow := domain.WorkflowTextToSummary
	if strings.TrimSpace(text) == "" {
		s.events.SessionError(workflow, domain.ErrorCodeInvalidInput, ErrEmptyText.Error())
		return domain.SummaryView{}, ErrEmptyText
	}
	return s.summarize(workflow, func(credential string) (domain.SummaryResult, error) {
		return s.service.SummarizeText(ctx, credential, title, ParseParticipants(participants), text)
	})
}

// TranscribeFile transcribes an audio file from disk.
func (s *Submitter) TranscribeFile(ctx context.Context, path string) (domain.Transcription, error) {
	workflow := domain.WorkflowAudioToText
	return s.transcribe(workflow, func(credential string) (domain.Transcription, error) {
		var result domain.Transcription
		err := withFileUpload(path, func(upload ports.AudioUpload) error {
			var callErr error
			result, callErr = s.service.Transcribe(ctx, credential, upload)
			return callErr
		})
		return result, err
	})
}

// SummarizeFile summarizes an audio file from disk.
func (s *Submitter) SummarizeFile(ctx context.Context, path string, title string, participants string) (domain.SummaryView, error) {
	workflow := domain.WorkflowAudioToSummary
	return s.summarize(workflow, func(credential string) (domain.SummaryResult, error) {
		var result domain.SummaryResult
		err := withFileUpload(path, func(upload ports.AudioUpload) error {
			var callErr error
			result, callErr = s.service.SummarizeAudio(ctx, credential, upload, title, ParseParticipants(participants))
			return callErr
		})
		return result, err
	})
}

// CheckEndpoints probes the remote service and publishes availability.
func (s *Submitter) CheckEndpoints(ctx context.Context) []domain.EndpointStatus {
	credential, _ := s.credential()
	statuses := s.service.Probe(ctx, credential)
	s.events.EndpointStatus(statuses)
	return statuses
}

// ResultText returns the last result of workflow as Markdown or plain text.
func (s *Submitter) ResultText(workflow domain.Workflow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result, ok := s.summaries[workflow]; ok {
		return render.Markdown(render.Render(result)), nil
	}
	if transcript, ok := s.transcripts[workflow]; ok {
		return transcript.Text, nil
	}
	return "", ErrNoResult
}

// ExportResult writes the last result of workflow as JSON into dir and
// returns the file path.
func (s *Submitter) ExportResult(workflow domain.Workflow, dir string) (string, error) {
	s.mu.Lock()
	var (
		payload any
		title   string
	)
	if result, ok := s.summaries[workflow]; ok {
		payload, title = result, result.Title
	} else if transcript, ok := s.transcripts[workflow]; ok {
		payload = transcript
	}
	s.mu.Unlock()

	if payload == nil {
		return "", ErrNoResult
	}

	name := sanitizeTitle(title)
	if name == "" {
		name = "meeting"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, s.clock.Now().Format("20060102_150405")))

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func (s *Submitter) summarize(
	workflow domain.Workflow,
	call func(credential string) (domain.SummaryResult, error),
) (domain.SummaryView, error) {
	credential, err := s.credentialFor(workflow)
	if err != nil {
		return domain.SummaryView{}, err
	}

	result, err := call(credential)
	if err != nil {
		return domain.SummaryView{}, s.fail(workflow, err)
	}

	view := domain.SummaryView{Result: result, Document: render.Render(result)}
	s.mu.Lock()
	s.summaries[workflow] = result
	delete(s.transcripts, workflow)
	s.mu.Unlock()

	s.events.ResultReady(workflow, view)
	return view, nil
}

func (s *Submitter) transcribe(
	workflow domain.Workflow,
	call func(credential string) (domain.Transcription, error),
) (domain.Transcription, error) {
	credential, err := s.credentialFor(workflow)
	if err != nil {
		return domain.Transcription{}, err
	}

	result, err := call(credential)
	if err != nil {
		return domain.Transcription{}, s.fail(workflow, err)
	}

	s.mu.Lock()
	s.transcripts[workflow] = result
	delete(s.summaries, workflow)
	s.mu.Unlock()

	s.events.ResultReady(workflow, result)
	return result, nil
}

func (s *Submitter) credential() (string, error) {
	prefs, err := s.prefs.Load()
	if err != nil {
		return "", fmt.Errorf("load preferences: %w", err)
	}
	return ResolveCredential(prefs, s.cfg.DefaultCredential)
}

func (s *Submitter) credentialFor(workflow domain.Workflow) (string, error) {
	credential, err := s.credential()
	if err != nil {
		if errors.Is(err, ErrMissingCredential) {
			s.events.CredentialRequired(workflow)
			s.events.SessionError(workflow, domain.ErrorCodeMissingCredential, err.Error())
		} else {
			s.events.SessionError(workflow, domain.ErrorCodeStartup, err.Error())
		}
		return "", err
	}
	return credential, nil
}

func (s *Submitter) artifact(workflow domain.Workflow) (*audio.Artifact, error) {
	artifact, err := s.recordings.Artifact()
	if err != nil {
		s.events.SessionError(workflow, domain.ErrorCodeInvalidInput, err.Error())
		return nil, err
	}
	return artifact, nil
}

func (s *Submitter) fail(workflow domain.Workflow, err error) error {
	if errorsx.Reason(err) == errorsx.ReasonUnknown {
		err = errorsx.Wrap(err, errorsx.ReasonRemoteRequestFailed)
	}
	code := domain.ErrorCodeRemoteRequestFailed
	if errorsx.HasReason(err, errorsx.ReasonInvalidInput) {
		code = domain.ErrorCodeInvalidInput
	}
	s.events.SessionError(workflow, code, err.Error())
	return err
}

// withArtifactUpload encodes the artifact into a temporary WAV file, since
// the encoder needs to seek back and patch the header.
func (s *Submitter) withArtifactUpload(artifact *audio.Artifact, fn func(ports.AudioUpload) error) error {
	f, err := os.CreateTemp(s.cfg.TempDir, "minutemic-*.wav")
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := artifact.EncodeWAV(f); err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload file: %w", err)
	}
	return fn(ports.AudioUpload{Filename: "recording.wav", Body: f})
}

func withFileUpload(path string, fn func(ports.AudioUpload) error) error {
	if strings.TrimSpace(path) == "" {
		return errorsx.New(errorsx.ReasonInvalidInput, "audio file is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return errorsx.Wrap(fmt.Errorf("open audio file: %w", err), errorsx.ReasonInvalidInput)
	}
	defer f.Close()
	return fn(ports.AudioUpload{Filename: filepath.Base(path), Body: f})
}
