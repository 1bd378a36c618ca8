package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/videodb-stack/vdbctl/internal/config"
)

func TestNewFromConfig_DefaultsToStderr(t *testing.T) {
	cfg := &config.Config{
		Logging: config.LoggingConfig{
			Level:  config.LogLevelInfo,
			Format: config.LogFormatText,
			File:   "", // No file
		},
	}

	logger, closer, err := NewFromConfig(cfg, "/tmp")
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if closer != nil {
		t.Error("Expected no closer when no file configured")
	}
	if logger == nil {
		t.Fatal("Expected logger to be non-nil")
	}
}

func TestNewFromConfig_FileLogging(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Logging: config.LoggingConfig{
			Level:  config.LogLevelDebug,
			Format: config.LogFormatJSON,
			File:   "logs/vdbctl.log",
		},
	}

	logger, closer, err := NewFromConfig(cfg, dir)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if closer == nil {
		t.Fatal("Expected closer for file logging")
	}
	defer closer.Close()

	logger.Info("test message", "key", "value")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "vdbctl.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "test message") {
		t.Errorf("log file missing message, got: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   config.LogLevel
		want slog.Level
	}{
		{config.LogLevelDebug, slog.LevelDebug},
		{config.LogLevelInfo, slog.LevelInfo},
		{config.LogLevelWarn, slog.LevelWarn},
		{config.LogLevelError, slog.LevelError},
		{config.LogLevel("bogus"), slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewForTest_Silent(t *testing.T) {
	logger := NewForTest()
	if logger == nil {
		t.Fatal("Expected logger")
	}
	// Should not panic or write anywhere visible
	logger.Info("discarded")
}
