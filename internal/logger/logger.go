// Package logger builds the service's zap loggers.
package logger

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console or JSON logger writing to stdout.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// WithFields returns logger enriched with fields. A nil logger falls back to a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// ProjectField tags a log entry with the project it concerns.
func ProjectField(id uuid.UUID) zap.Field {
	return zap.String("project_id", id.String())
}

// SelectionFields describes one selector run: the eligible pool size, how many
// cleared the threshold and how many were picked.
func SelectionFields(initial, qualified, selected int) []zap.Field {
	return []zap.Field{
		zap.Int("initial", initial),
		zap.Int("qualified", qualified),
		zap.Int("selected", selected),
	}
}
