// Package log provides structured logging for the jbundle CLI.
//
// Log output is diagnostic only and goes to stderr; stdout stays
// reserved for program data. The progress renderer owns the
// user-facing stage lines, so the logger defaults to warn level and
// only --verbose raises it to debug.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging with build context.
type Logger struct {
	zap *zap.Logger
}

// New creates a logger writing to stderr. With verbose=false only
// warnings and errors are emitted.
func New(verbose bool) *Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return newWithWriter(os.Stderr, level)
}

// WithOutput returns a logger writing to w at debug level.
// Intended for tests.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	return newWithWriter(w, zapcore.DebugLevel)
}

// Stage returns a logger with the stage name attached to every entry.
func (l *Logger) Stage(name string) *Logger {
	return &Logger{zap: l.zap.With(zap.String("stage", name))}
}

// Sync flushes buffered entries. Call before process exit.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func newWithWriter(w io.Writer, level zapcore.Level) *Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
	return &Logger{zap: zap.New(core)}
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zap.Any("fields", fields))
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, zap.Any("fields", fields))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zap.Any("fields", fields))
}

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, zap.Any("fields", fields))
}

// Nop returns a logger that discards everything. Used as the default
// when a component is constructed without a logger.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}
