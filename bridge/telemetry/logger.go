package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// SlogLogger implements the bridge.Logger interface using log/slog.
type SlogLogger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger that writes JSON to stdout.
func NewLogger() *SlogLogger {
	return NewLoggerWithLevel(os.Stdout, slog.LevelInfo)
}

// NewLoggerWithLevel writes JSON lines at or above level to w.
func NewLoggerWithLevel(w io.Writer, level slog.Level) *SlogLogger {
	return &SlogLogger{
		logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// ParseLevel maps debug, info, warn and error to slog levels; anything else is info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Slog exposes the underlying logger.
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

// Info logs an informational message.
func (l *SlogLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

// Error logs an error message.
func (l *SlogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	// We append the error to the keysAndValues
	args := append(keysAndValues, "error", err)
	l.logger.Error(msg, args...)
}
