package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"minutemic/internal/domain"
	"minutemic/internal/usecase"
)

const (
	keyHelp     = "Enter a key: p pause, r resume, s stop, n new, w save, d discard, q quit"
	saveTimeout = 15 * time.Second
)

type keyAction int

const (
	keyUnknown keyAction = iota
	keyCommand
	keySave
	keyQuit
)

// parseKey maps one input line to a recorder action.
func parseKey(line string) (keyAction, domain.Command) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "new", "start":
		return keyCommand, domain.CommandStart
	case "p", "pause":
		return keyCommand, domain.CommandPause
	case "r", "resume":
		return keyCommand, domain.CommandResume
	case "s", "stop":
		return keyCommand, domain.CommandStop
	case "d", "discard":
		return keyCommand, domain.CommandDiscard
	case "w", "save":
		return keySave, ""
	case "q", "quit", "exit":
		return keyQuit, ""
	default:
		return keyUnknown, ""
	}
}

type recordOptions struct {
	title        string
	participants string
	summarize    bool
	transcribe   bool
	result       resultFlags
}

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var opts recordOptions

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the microphone interactively",
		Long:  "Start recording immediately and control the session with single-key commands on stdin.\nCtrl+C stops the recording and exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, deps, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Meeting title (used for the file name)")
	cmd.Flags().StringVarP(&opts.participants, "participants", "p", "", "Comma-separated participants")
	cmd.Flags().BoolVar(&opts.summarize, "summarize", false, "Summarize the recording after quitting")
	cmd.Flags().BoolVar(&opts.transcribe, "transcribe", false, "Transcribe the recording after quitting")
	opts.result.register(cmd)
	return cmd
}

func runRecord(cmd *cobra.Command, deps *Dependencies, opts recordOptions) error {
	ctx := cmd.Context()
	controller := deps.Services.Controller
	controller.SetMeetingTitle(opts.title)

	lines := deps.Terminal.Listen(cmd.InOrStdin())
	deps.Out.Keys(keyHelp)

	// The device outlives Ctrl+C so the stop below can flush it.
	sessionCtx := context.WithoutCancel(ctx)
	if err := controller.Dispatch(sessionCtx, domain.CommandStart); err != nil {
		return err
	}

	recordLoop(ctx, sessionCtx, deps, lines)
	finishRecording(deps, controller)

	status := controller.Status()
	if ctx.Err() != nil || status.State != domain.SessionStateStopped || !status.HasArtifact {
		return nil
	}
	return processRecording(sessionCtx, deps, opts)
}

// recordLoop runs until quit, end of input or interrupt.
func recordLoop(interrupt context.Context, ctx context.Context, deps *Dependencies, lines <-chan string) {
	controller := deps.Services.Controller
	for {
		select {
		case <-interrupt.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			action, command := parseKey(line)
			switch action {
			case keyQuit:
				return
			case keySave:
				if _, err := controller.SaveRecording(ctx, ""); errors.Is(err, usecase.ErrNoArtifact) {
					deps.Out.Warning("Nothing to save yet; stop the recording first")
				}
			case keyCommand:
				// Failures are reported through the terminal event sink.
				_ = controller.Dispatch(ctx, command)
			default:
				deps.Out.Keys(keyHelp)
			}
		}
	}
}

// finishRecording stops a live session and waits for a pending autosave.
func finishRecording(deps *Dependencies, controller *usecase.SessionController) {
	switch controller.Status().State {
	case domain.SessionStateRecording, domain.SessionStatePaused:
		_ = controller.Dispatch(context.Background(), domain.CommandStop)
	}

	status := controller.Status()
	if status.State != domain.SessionStateStopped || !status.HasArtifact || status.Saved {
		return
	}
	if !deps.Services.Config.Session.Autosave {
		deps.Out.Warning("Recording was not saved")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := controller.WaitSaved(ctx); err != nil {
		deps.Out.Warning("Recording is still being saved")
	}
}

func processRecording(ctx context.Context, deps *Dependencies, opts recordOptions) error {
	submitter := deps.Services.Submitter

	if opts.transcribe {
		deps.Out.Info("Transcribing audio...")
		transcript, err := submitter.TranscribeRecording(ctx)
		if err != nil {
			return err
		}
		deps.Out.Transcript(transcript)
		if !opts.summarize {
			return opts.result.apply(ctx, deps, domain.WorkflowAudioToText)
		}
	}

	if opts.summarize {
		deps.Out.Info("Generating summary...")
		view, err := submitter.SubmitRecording(ctx, opts.title, opts.participants)
		if err != nil {
			return err
		}
		deps.Out.Summary(view)
		return opts.result.apply(ctx, deps, domain.WorkflowAudioToSummary)
	}
	return nil
}
