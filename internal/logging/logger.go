package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the root logger.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	Console    io.Writer
}

// New builds a logger that writes human-readable lines to the console and
// JSON lines to a rotated file. An empty File disables the file sink.
func New(opts Options) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleEncoder := zap.NewDevelopmentEncoderConfig()
	consoleEncoder.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoder), zapcore.AddSync(console), level),
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar(), nil
}

// Component tags every entry of the returned logger with a component name.
func Component(base *zap.SugaredLogger, component string) *zap.SugaredLogger {
	return base.With("component", component)
}

// Nop discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
