package bootstrap

import (
	"io"
	"os"

	"go.uber.org/zap"

	"minutemic/internal/audio"
	"minutemic/internal/config"
	"minutemic/internal/domain"
	"minutemic/internal/logging"
	"minutemic/internal/notify"
	"minutemic/internal/ports"
	"minutemic/internal/prefs"
	"minutemic/internal/remote"
	"minutemic/internal/storage"
	"minutemic/internal/usecase"
)

// Adapters are the front-end specific pieces the graph depends on.
type Adapters struct {
	Events    ports.EventSink
	Confirmer ports.Confirmer
	Canvas    ports.CanvasSource
	// Notifier defaults to desktop notifications.
	Notifier ports.Notifier
	// LogConsole defaults to stderr.
	LogConsole io.Writer
}

// Services is the assembled runtime graph.
type Services struct {
	Config      config.Config
	Logger      *zap.SugaredLogger
	Controller  *usecase.SessionController
	Submitter   *usecase.Submitter
	Preferences *prefs.FileStore
	Remote      *remote.Client
	Downloads   *storage.Directory
}

// Build wires all backend dependencies for the current runtime.
func Build(adapters Adapters) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    adapters.LogConsole,
	})
	if err != nil {
		return Services{}, err
	}

	notifier := adapters.Notifier
	if notifier == nil {
		notifier = notify.NewDesktop()
	}

	capture := NewCapture(cfg.Audio, logging.Component(logger, "audio"))
	downloads := storage.NewDirectory(cfg.Storage.DownloadDir)
	preferences := prefs.NewFileStore(cfg.PreferencesPath())
	client := remote.NewClient(remote.Config{
		BaseURL: cfg.Remote.BaseURL,
		Timeout: cfg.Remote.Timeout,
		Logger:  logging.Component(logger, "remote"),
	})
	clock := usecase.SystemClock()

	controller := usecase.NewSessionController(
		capture,
		clock,
		adapters.Canvas,
		adapters.Confirmer,
		usecase.NewPersister(downloads, notifier, adapters.Events),
		adapters.Events,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			ChunkSize:      cfg.Audio.ChunkSize,
			TickInterval:   cfg.Session.TickInterval,
			FrameInterval:  cfg.Visualizer.FrameInterval,
			AnalyserWindow: cfg.Visualizer.Window,
			Autosave:       cfg.Session.Autosave,
			DefaultCanvas: domain.CanvasSize{
				Width:  cfg.Visualizer.CanvasWidth,
				Height: cfg.Visualizer.CanvasHeight,
			},
		},
	)

	submitter := usecase.NewSubmitter(
		client,
		preferences,
		controller,
		adapters.Events,
		clock,
		usecase.SubmitConfig{
			DefaultCredential: cfg.Remote.DefaultCredential,
			TempDir:           os.TempDir(),
		},
	)

	logger.Infow("services ready",
		"audio_backend", cfg.Audio.Backend,
		"remote", cfg.Remote.BaseURL,
		"downloads", cfg.Storage.DownloadDir,
		"autosave", cfg.Session.Autosave,
	)

	return Services{
		Config:      cfg,
		Logger:      logger,
		Controller:  controller,
		Submitter:   submitter,
		Preferences: preferences,
		Remote:      client,
		Downloads:   downloads,
	}, nil
}

// NewCapture picks the capture backend named in cfg.
func NewCapture(cfg config.AudioConfig, logger *zap.SugaredLogger) ports.AudioCapture {
	if cfg.Backend == "portaudio" {
		return audio.NewPortAudioCapture(0)
	}
	capture := audio.NewFFmpegCapture(cfg.Command)
	if err := capture.Check(); err != nil {
		logger.Warnw("audio capture unavailable", "error", err)
	}
	return capture
}
