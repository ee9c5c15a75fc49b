package logger

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"mocktest-engine/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[zap.Logger]

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.LowercaseLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.MillisDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// New builds a logger writing to w. Production uses JSON, every other env the console encoder.
func New(cfg config.LoggerConfig, w io.Writer) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logger level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	if cfg.Env == "production" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Initialize installs the process-wide logger. Output goes to stderr so
// command output on stdout stays machine readable.
func Initialize(cfg config.LoggerConfig) error {
	l, err := New(cfg, os.Stderr)
	if err != nil {
		return err
	}
	global.Store(l)
	return nil
}

// Get returns the global logger, or a no-op logger before Initialize.
func Get() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

func Sync() error {
	if l := global.Load(); l != nil {
		return l.Sync()
	}
	return nil
}
