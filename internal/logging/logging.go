// Package logging configures structured logging to a file.
//
// The terminal belongs to the Bubble Tea program while a test runs, so logs
// are written to a file under the XDG state directory instead of stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Setup installs a default slog logger writing to path and returns a closer.
func Setup(path string, verbose bool) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(New(file, verbose))
	return file, nil
}

// New builds a text logger for w.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard silences the default logger.
func Discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// System logs a system event.
func System(msg string, attrs ...any) {
	base := []any{slog.String("type", "sys")}
	slog.Info(msg, append(base, attrs...)...)
}

// Session logs a typing session lifecycle event at debug level.
func Session(msg string, attrs ...any) {
	base := []any{slog.String("type", "session")}
	slog.Debug(msg, append(base, attrs...)...)
}

// Warn logs a recovered failure.
func Warn(msg string, err error, attrs ...any) {
	base := []any{
		slog.String("type", "warn"),
		slog.Any("error", err),
	}
	slog.Warn(msg, append(base, attrs...)...)
}

// Error logs an error event.
func Error(msg string, err error, attrs ...any) {
	base := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(base, attrs...)...)
}
