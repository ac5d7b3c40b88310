package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds a logger writing to w. JSON output is used when stdout carries
// machine-readable data, text otherwise.
func New(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Init sets the default slog logger to one writing on stderr.
func Init(json bool, level slog.Level) *slog.Logger {
	logger := New(os.Stderr, json, level)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
