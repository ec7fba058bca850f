package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"minutemic/internal/bootstrap"
	"minutemic/internal/config"
	"minutemic/internal/domain"
	"minutemic/internal/logging"
	"minutemic/internal/output"
	"minutemic/internal/usecase"
)

const (
	eventSession    = "minutemic:session"
	eventTimer      = "minutemic:timer"
	eventFrame      = "minutemic:frame"
	eventResult     = "minutemic:result"
	eventCredential = "minutemic:credential"
	eventEndpoints  = "minutemic:endpoints"
	eventNotice     = "minutemic:notice"
	eventError      = "minutemic:error"
)

const shutdownSaveTimeout = 30 * time.Second

// App is the Wails application root.
type App struct {
	ctx  context.Context
	emit func(ctx context.Context, name string, data ...interface{})

	controller *usecase.SessionController
	submitter  *usecase.Submitter
	services   bootstrap.Services
	cfg        config.Config
	log        *zap.SugaredLogger
	bootErr    error

	canvasMu sync.Mutex
	canvas   domain.CanvasSize
}

func NewApp() *App {
	return &App{log: logging.Nop(), emit: runtime.EventsEmit}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(bootstrap.Adapters{
		Events:    a,
		Confirmer: nativeConfirmer{},
		Canvas:    a,
	})
	if err != nil {
		a.bootErr = err
		a.log.Errorw("startup failed", "error", err)
		a.SessionError(domain.WorkflowRecording, domain.ErrorCodeStartup, err.Error())
		return
	}

	a.services = services
	a.cfg = services.Config
	a.log = logging.Component(services.Logger, "app")
	a.controller = services.Controller
	a.submitter = services.Submitter
	a.SessionStateChanged(a.controller.Status(), domain.SessionReasonReady)

	if a.cfg.Remote.ProbeOnStartup {
		go a.submitter.CheckEndpoints(ctx)
	}
}

// shutdown stops a live recording and gives its save a bounded time to land
// before the process exits.
func (a *App) shutdown(_ context.Context) {
	if a.controller == nil {
		return
	}
	switch a.controller.Status().State {
	case domain.SessionStateRecording, domain.SessionStatePaused:
		if err := a.controller.Dispatch(a.ctx, domain.CommandStop); err != nil {
			a.log.Warnw("stop on shutdown", "error", err)
		}
		if !a.cfg.Session.Autosave {
			if _, err := a.controller.SaveRecording(a.ctx, ""); err != nil && !errors.Is(err, usecase.ErrNoArtifact) {
				a.log.Warnw("save on shutdown", "error", err)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownSaveTimeout)
	defer cancel()
	if err := a.controller.WaitSaved(ctx); err != nil {
		a.log.Warnw("recording save still pending at exit", "error", err)
	}
	_ = a.services.Logger.Sync()
}

// StartRecording acquires the microphone and starts a new recording.
func (a *App) StartRecording() (domain.Status, error) {
	return a.dispatch(domain.CommandStart)
}

func (a *App) PauseRecording() (domain.Status, error) {
	return a.dispatch(domain.CommandPause)
}

func (a *App) ResumeRecording() (domain.Status, error) {
	return a.dispatch(domain.CommandResume)
}

// StopRecording finalizes the recording and, with autosave on, saves it.
func (a *App) StopRecording() (domain.Status, error) {
	return a.dispatch(domain.CommandStop)
}

// DiscardRecording drops the current recording without saving it.
func (a *App) DiscardRecording() (domain.Status, error) {
	return a.dispatch(domain.CommandDiscard)
}

// SetCanvasSize records the waveform canvas size; it applies from the next start.
func (a *App) SetCanvasSize(width int, height int) {
	a.canvasMu.Lock()
	defer a.canvasMu.Unlock()
	a.canvas = domain.CanvasSize{Width: width, Height: height}
}

// CanvasSize implements ports.CanvasSource.
func (a *App) CanvasSize() domain.CanvasSize {
	a.canvasMu.Lock()
	defer a.canvasMu.Unlock()
	return a.canvas
}

func (a *App) SetMeetingTitle(title string) {
	if a.controller != nil {
		a.controller.SetMeetingTitle(title)
	}
}

// SaveRecording saves the current recording into the download folder.
func (a *App) SaveRecording() (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	return a.controller.SaveRecording(a.ctx, "")
}

// SaveRecordingAs asks for a destination and saves the current recording there.
func (a *App) SaveRecordingAs() (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:            "Save recording",
		DefaultDirectory: a.services.Downloads.Dir(),
		DefaultFilename:  a.controller.SuggestedFilename(),
		Filters:          []runtime.FileFilter{wavFilter},
	})
	if err != nil || path == "" {
		return "", err
	}
	return a.controller.SaveRecording(a.ctx, path)
}

// SubmitRecording sends the current recording for an audio summary.
func (a *App) SubmitRecording(title string, participants string) (domain.SummaryView, error) {
	if err := a.requireReady(); err != nil {
		return domain.SummaryView{}, err
	}
	view, err := a.submitter.SubmitRecording(a.ctx, title, participants)
	a.logOutcome(domain.WorkflowAudioToSummary, err)
	return view, err
}

// TranscribeRecording sends the current recording for transcription.
func (a *App) TranscribeRecording() (domain.Transcription, error) {
	if err := a.requireReady(); err != nil {
		return domain.Transcription{}, err
	}
	out, err := a.submitter.TranscribeRecording(a.ctx)
	a.logOutcome(domain.WorkflowAudioToText, err)
	return out, err
}

func (a *App) SummarizeText(title string, participants string, text string) (domain.SummaryView, error) {
	if err := a.requireReady(); err != nil {
		return domain.SummaryView{}, err
	}
	view, err := a.submitter.SummarizeText(a.ctx, title, participants, text)
	a.logOutcome(domain.WorkflowTextToSummary, err)
	return view, err
}

// ChooseAudioFile opens a file picker for the upload workflows.
func (a *App) ChooseAudioFile() (string, error) {
	if a.ctx == nil {
		return "", fmt.Errorf("application is not initialized")
	}
	return runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:   "Choose audio file",
		Filters: []runtime.FileFilter{audioFilter},
	})
}

func (a *App) TranscribeFile(path string) (domain.Transcription, error) {
	if err := a.requireReady(); err != nil {
		return domain.Transcription{}, err
	}
	out, err := a.submitter.TranscribeFile(a.ctx, path)
	a.logOutcome(domain.WorkflowAudioToText, err)
	return out, err
}

func (a *App) SummarizeFile(path string, title string, participants string) (domain.SummaryView, error) {
	if err := a.requireReady(); err != nil {
		return domain.SummaryView{}, err
	}
	view, err := a.submitter.SummarizeFile(a.ctx, path, title, participants)
	a.logOutcome(domain.WorkflowAudioToSummary, err)
	return view, err
}

// CheckEndpoints probes the remote service.
func (a *App) CheckEndpoints() []domain.EndpointStatus {
	if a.requireReady() != nil {
		return nil
	}
	return a.submitter.CheckEndpoints(a.ctx)
}

func (a *App) GetPreferences() (domain.Preferences, error) {
	if err := a.requireReady(); err != nil {
		return domain.Preferences{}, err
	}
	return a.services.Preferences.Load()
}

// SavePreferences stores the credential choice and re-probes the service.
func (a *App) SavePreferences(prefs domain.Preferences) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := usecase.ValidatePreferences(prefs); err != nil {
		return err
	}
	if err := a.services.Preferences.Save(prefs); err != nil {
		a.log.Errorw("save preferences", "error", err)
		return err
	}
	a.Notify(domain.Notice{Level: domain.NoticeSuccess, Title: "Settings saved"})
	go a.submitter.CheckEndpoints(a.ctx)
	return nil
}

// CopyResult copies the last result of a workflow to the clipboard.
func (a *App) CopyResult(workflow string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	text, err := a.submitter.ResultText(domain.Workflow(workflow))
	if err != nil {
		return err
	}
	if err := (&wailsClipboard{}).SetText(a.ctx, text); err != nil {
		a.SessionError(domain.Workflow(workflow), domain.ErrorCodeClipboard, err.Error())
		return err
	}
	a.Notify(domain.Notice{Level: domain.NoticeInfo, Title: "Copied to clipboard"})
	return nil
}

// ExportResult writes the last result of a workflow as JSON.
func (a *App) ExportResult(workflow string) (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	path, err := a.submitter.ExportResult(domain.Workflow(workflow), a.cfg.Storage.ExportDir)
	if err != nil {
		a.SessionError(domain.Workflow(workflow), domain.ErrorCodeExport, err.Error())
		return "", err
	}
	a.Notify(domain.Notice{Level: domain.NoticeSuccess, Title: "Result exported", Message: path})
	return path, nil
}

// GetStatus returns the current session status.
func (a *App) GetStatus() domain.Status {
	if a.controller == nil {
		status := domain.Status{State: domain.SessionStateIdle, Elapsed: usecase.FormatElapsed(0)}
		if a.bootErr != nil {
			status.Message = a.bootErr.Error()
		}
		return status
	}
	return a.controller.Status()
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"remote":           a.cfg.Remote.BaseURL,
		"audioBackend":     a.cfg.Audio.Backend,
		"audioInput":       a.cfg.Audio.InputDevice,
		"audioInputFormat": a.cfg.Audio.InputFormat,
		"downloads":        a.cfg.Storage.DownloadDir,
		"autosave":         fmt.Sprintf("%t", a.cfg.Session.Autosave),
	}
}

func (a *App) dispatch(cmd domain.Command) (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.controller.Dispatch(a.ctx, cmd); err != nil {
		a.log.Warnw("command failed", "command", cmd, "error", err)
		return a.controller.Status(), err
	}
	return a.controller.Status(), nil
}

func (a *App) logOutcome(workflow domain.Workflow, err error) {
	if err != nil {
		a.log.Warnw("workflow failed", "workflow", workflow, "error", err)
		return
	}
	a.log.Infow("workflow finished", "workflow", workflow)
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// nativeConfirmer asks yes/no questions with a native dialog. ctx must be the
// Wails application context.
type nativeConfirmer struct{}

func (nativeConfirmer) Confirm(ctx context.Context, title string, message string) (bool, error) {
	answer, err := runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         title,
		Message:       message,
		Buttons:       []string{"Yes", "No"},
		DefaultButton: "No",
	})
	if err != nil {
		return false, err
	}
	return isAffirmative(answer), nil
}

// SessionStateChanged emits session lifecycle updates to the frontend.
func (a *App) SessionStateChanged(status domain.Status, reason domain.SessionStateReason) {
	a.log.Debugw("session state", "state", status.State, "reason", reason, "session", status.SessionID)
	if a.ctx == nil {
		return
	}
	a.emit(a.ctx, eventSession, map[string]any{
		"status":  status,
		"reason":  string(reason),
		"message": output.ReasonMessage(reason),
	})
}

func (a *App) TimerTick(elapsed string) {
	if a.ctx == nil {
		return
	}
	a.emit(a.ctx, eventTimer, map[string]string{"elapsed": elapsed})
}

func (a *App) VisualizerFrame(frame domain.Frame) {
	if a.ctx == nil {
		return
	}
	a.emit(a.ctx, eventFrame, frame)
}

func (a *App) ResultReady(workflow domain.Workflow, payload any) {
	if a.ctx == nil {
		return
	}
	a.emit(a.ctx, eventResult, map[string]any{
		"workflow": string(workflow),
		"payload":  payload,
	})
}

// CredentialRequired prompts the UI to open the credential settings.
func (a *App) CredentialRequired(workflow domain.Workflow) {
	if a.ctx == nil {
		return
	}
	a.emit(a.ctx, eventCredential, map[string]string{
		"workflow": string(workflow),
		"message":  "Set an API credential first",
	})
}

func (a *App) EndpointStatus(statuses []domain.EndpointStatus) {
	if a.ctx == nil {
		return
	}
	a.emit(a.ctx, eventEndpoints, statuses)
}

func (a *App) Notify(notice domain.Notice) {
	if a.ctx == nil {
		return
	}
	a.emit(a.ctx, eventNotice, notice)
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(workflow domain.Workflow, code domain.ErrorCode, detail string) {
	a.log.Warnw("session error", "workflow", workflow, "code", code, "detail", detail)
	if a.ctx == nil {
		return
	}
	a.emit(a.ctx, eventError, map[string]string{
		"workflow": string(workflow),
		"code":     string(code),
		"message":  output.ErrorMessage(code, detail),
		"detail":   detail,
	})
}

var (
	wavFilter   = runtime.FileFilter{DisplayName: "WAV audio (*.wav)", Pattern: "*.wav"}
	audioFilter = runtime.FileFilter{DisplayName: "Audio files", Pattern: "*.wav;*.mp3;*.m4a;*.webm;*.ogg"}
)

func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "ok":
		return true
	default:
		return false
	}
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}
