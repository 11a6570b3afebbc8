// ABOUTME: Tests for logger configuration
// ABOUTME: Verifies level parsing and file sink behaviour

package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := parseLevel(tc.in); got != tc.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "info")

	var buf bytes.Buffer
	l := Init(&buf)
	l.Info("hello", "key", "value")

	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestInit_LevelFilters(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "error")

	var buf bytes.Buffer
	l := Init(&buf)
	l.Info("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}
}

func TestInitFile_WritesDebugLog(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	dir := t.TempDir()

	l, err := InitFile(dir)
	if err != nil {
		t.Fatalf("InitFile() error: %v", err)
	}
	defer Close()

	l.Debug("written to file")

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("reading debug.log: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("expected message in debug.log, got %q", string(data))
	}
}

func TestInitFile_EmptyDirDiscards(t *testing.T) {
	l, err := InitFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l == nil {
		t.Fatal("expected a logger")
	}
}
