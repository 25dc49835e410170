// Package logging wraps zap for structured logs.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a structured logger used throughout the application.
type Logger struct {
	*zap.SugaredLogger
}

// Config holds configuration for the logger.
type Config struct {
	Level      string `json:"level"`
	OutputPath string `json:"outputPath"`
	Encoding   string `json:"encoding"`
	DevMode    bool   `json:"devMode"`
}

// DefaultConfig logs warnings and above to stderr as console text,
// keeping stdout free for command output.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		OutputPath: "stderr",
		Encoding:   "console",
	}
}

// New creates a logger from cfg.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapConfig zap.Config
	if cfg.DevMode {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.TimeKey = "timestamp"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig.Level = zap.NewAtomicLevelAt(level)
	if cfg.OutputPath != "" {
		zapConfig.OutputPaths = []string{cfg.OutputPath}
	}
	if cfg.Encoding != "" {
		zapConfig.Encoding = cfg.Encoding
	}

	zapLogger, err := zapConfig.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return &Logger{zapLogger.Sugar()}, nil
}

// NewDebug creates a verbose console logger on stderr (the --debug flag).
func NewDebug() (*Logger, error) {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	cfg.DevMode = true
	return New(cfg)
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// OrNop returns l, or a no-op logger if l is nil.
func OrNop(l *Logger) *Logger {
	if l == nil {
		return NewNop()
	}
	return l
}

// WithField adds a field to the logger context.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{l.With(key, value)}
}

// WithFields adds multiple fields to the logger context.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{l.With(args...)}
}

// WithError adds an error field to the logger context.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{l.With("error", err)}
}
