package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spacebird/cosmicflight/internal/config"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestInitWritesToFile(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	closer, err := Init(config.LoggingConfig{Level: "info", Format: "text", File: path})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	slog.Info("hello", "component", "test")
	slog.Debug("hidden")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "component=test") {
		t.Fatalf("log = %q, want hello record", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record written at info level: %q", out)
	}
}

func TestInitJSON(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "app.log")

	closer, err := Init(config.LoggingConfig{Level: "debug", Format: "json", JSONFormat: true, File: path})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	slog.Warn("careful")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &rec); err != nil {
		t.Fatalf("last line is not JSON: %v", err)
	}
	if rec["msg"] != "careful" || rec["level"] != "WARN" {
		t.Fatalf("record = %v", rec)
	}
}

func TestInitOff(t *testing.T) {
	restoreDefault(t)
	closer, err := Init(config.LoggingConfig{Level: "debug", File: Off})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
