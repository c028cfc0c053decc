package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates the application logger writing JSON records to stdout.
func New() *slog.Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter creates a JSON logger for an arbitrary destination.
func NewWithWriter(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler)
}
