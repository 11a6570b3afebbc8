// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: CLI commands log to stderr; the TUI logs to a file so the screen stays clean.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init configures the default slog logger to write to w.
// LOG_LEVEL: debug, info, warn, error (default: info)
// LOG_FORMAT: text, json (default: text)
func Init(w io.Writer) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// InitFile points the default logger at <dir>/debug.log.
// If dir is empty, or the file cannot be opened, log output is discarded.
func InitFile(dir string) (*slog.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if dir == "" {
		return Init(io.Discard), nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return Init(io.Discard), err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return Init(io.Discard), err
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	return Init(f), nil
}

// Close closes the log file opened by InitFile, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
