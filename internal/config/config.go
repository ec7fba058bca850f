package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"minutemic/internal/errorsx"
)

// EnvPrefix prefixes every environment override, e.g. MINUTEMIC_AUDIO_BACKEND.
const EnvPrefix = "MINUTEMIC"

// Config stores runtime configuration.
type Config struct {
	Audio      AudioConfig      `mapstructure:"audio"`
	Session    SessionConfig    `mapstructure:"session"`
	Visualizer VisualizerConfig `mapstructure:"visualizer"`
	Remote     RemoteConfig     `mapstructure:"remote"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
	Paths      PathsConfig      `mapstructure:"paths"`
}

type AudioConfig struct {
	Backend     string `mapstructure:"backend" validate:"oneof=ffmpeg portaudio"`
	Command     string `mapstructure:"command"`
	InputFormat string `mapstructure:"input_format"`
	InputDevice string `mapstructure:"input_device"`
	SampleRate  int    `mapstructure:"sample_rate" validate:"min=8000,max=192000"`
	Channels    int    `mapstructure:"channels" validate:"min=1,max=2"`
	ChunkSize   int    `mapstructure:"chunk_size" validate:"min=256"`
}

type SessionConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"gt=0"`
	Autosave     bool          `mapstructure:"autosave"`
}

type VisualizerConfig struct {
	FrameInterval time.Duration `mapstructure:"frame_interval" validate:"gt=0"`
	Window        int           `mapstructure:"window" validate:"min=32"`
	CanvasWidth   int           `mapstructure:"canvas_width" validate:"min=1"`
	CanvasHeight  int           `mapstructure:"canvas_height" validate:"min=1"`
}

type RemoteConfig struct {
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	DefaultCredential string        `mapstructure:"default_credential"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gte=0"`
	ProbeOnStartup    bool          `mapstructure:"probe_on_startup"`
}

type StorageConfig struct {
	DownloadDir string `mapstructure:"download_dir" validate:"required"`
	ExportDir   string `mapstructure:"export_dir" validate:"required"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
}

type PathsConfig struct {
	ConfigDir string `mapstructure:"config_dir" validate:"required"`
	StateDir  string `mapstructure:"state_dir" validate:"required"`
}

// PreferencesPath is where credential preferences are kept.
func (c Config) PreferencesPath() string {
	return filepath.Join(c.Paths.ConfigDir, "preferences.toml")
}

// Load resolves configuration from defaults, an optional config file and
// MINUTEMIC_* environment variables, in increasing priority.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.New("could not determine home directory")
	}

	v := viper.New()
	setDefaults(v, home)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, home); err != nil {
		return Config{}, errorsx.Wrap(err, errorsx.ReasonInvalidConfig)
	}

	var cfg Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return Config{}, errorsx.Wrap(fmt.Errorf("decode config: %w", err), errorsx.ReasonInvalidConfig)
	}

	cfg.Paths.ConfigDir = expandHome(cfg.Paths.ConfigDir, home)
	cfg.Paths.StateDir = expandHome(cfg.Paths.StateDir, home)
	cfg.Storage.DownloadDir = expandHome(cfg.Storage.DownloadDir, home)
	cfg.Storage.ExportDir = expandHome(cfg.Storage.ExportDir, home)
	cfg.Log.File = expandHome(cfg.Log.File, home)
	if cfg.Storage.ExportDir == "" {
		cfg.Storage.ExportDir = filepath.Join(cfg.Paths.StateDir, "exports")
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Paths.StateDir, "minutemic.log")
	}
	cfg.Audio.Command = firstNonEmpty(cfg.Audio.Command, "ffmpeg")
	cfg.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Remote.BaseURL), "/")
	cfg.Remote.DefaultCredential = strings.TrimSpace(cfg.Remote.DefaultCredential)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, errorsx.Wrap(fmt.Errorf("invalid config: %w", err), errorsx.ReasonInvalidConfig)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	configDir := filepath.Join(home, ".config", "minutemic")
	stateDir := filepath.Join(home, ".local", "state", "minutemic")

	v.SetDefault("audio.backend", "ffmpeg")
	v.SetDefault("audio.command", "ffmpeg")
	v.SetDefault("audio.input_format", "")
	v.SetDefault("audio.input_device", "")
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.chunk_size", 4096)

	v.SetDefault("session.tick_interval", "1s")
	v.SetDefault("session.autosave", true)

	v.SetDefault("visualizer.frame_interval", "33ms")
	v.SetDefault("visualizer.window", 2048)
	v.SetDefault("visualizer.canvas_width", 600)
	v.SetDefault("visualizer.canvas_height", 100)

	v.SetDefault("remote.base_url", "http://localhost:8080/api")
	v.SetDefault("remote.default_credential", "")
	v.SetDefault("remote.timeout", "0s")
	v.SetDefault("remote.probe_on_startup", true)

	v.SetDefault("storage.download_dir", filepath.Join(home, "Downloads"))
	v.SetDefault("storage.export_dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("paths.config_dir", configDir)
	v.SetDefault("paths.state_dir", stateDir)
}

// readConfigFile loads MINUTEMIC_CONFIG or config.yaml from the config dir.
// A missing default file is not an error.
func readConfigFile(v *viper.Viper, home string) error {
	if explicit := strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG")); explicit != "" {
		v.SetConfigFile(expandHome(explicit, home))
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", explicit, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(expandHome(v.GetString("paths.config_dir"), home))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func expandHome(path string, home string) string {
	path = strings.TrimSpace(path)
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
