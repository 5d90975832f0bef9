// Package log wraps zap with the quiet/normal/verbose levels the
// driver's CLI exposes (§4.G, §6). Components receive a *Logger by
// value/reference rather than consulting a package-level global.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level selects the CLI's three output levels.
type Level int

const (
	// Quiet logs errors only.
	Quiet Level = iota
	// Normal logs errors and per-run counts.
	Normal
	// Verbose logs errors, counts, and per-file lines.
	Verbose
)

// Logger is the driver-wide logging handle.
type Logger struct {
	z     *zap.Logger
	level Level
}

// New builds a Logger at the requested level. Log entries of every
// level, errors included, go to stdout; stderr receives only zap's own
// internal errors.
func New(level Level) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zapcore.EncoderConfig{
		MessageKey:  "msg",
		LevelKey:    "level",
		EncodeLevel: zapcore.CapitalColorLevelEncoder,
		LineEnding:  zapcore.DefaultLineEnding,
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if level == Quiet {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{z: z, level: level}, nil
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() {
	_ = l.z.Sync()
}

// Error logs at error level regardless of verbosity.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.z.Error(msg, fields...)
}

// Info logs a normal-level message (counts, summaries).
func (l *Logger) Info(msg string, fields ...zap.Field) {
	if l.level >= Normal {
		l.z.Info(msg, fields...)
	}
}

// Verbose logs a per-file-line message, only at verbose level.
func (l *Logger) Verbose(msg string, fields ...zap.Field) {
	if l.level >= Verbose {
		l.z.Info(msg, fields...)
	}
}

// Warn logs a warning; shown at normal and verbose levels.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	if l.level >= Normal {
		l.z.Warn(msg, fields...)
	}
}
