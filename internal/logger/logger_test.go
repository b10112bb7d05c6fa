package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()
	t.Cleanup(func() { Set(nil) })

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{level: "error", expected: []string{"error"}, excluded: []string{"warn", "info", "debug"}},
		{level: "warn", expected: []string{"error", "warn"}, excluded: []string{"info", "debug"}},
		{level: "info", expected: []string{"error", "warn", "info"}, excluded: []string{"debug"}},
		{level: "debug", expected: []string{"error", "warn", "info", "debug"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}

			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}

			seen := map[string]bool{}
			for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
				var entry struct {
					Level string `json:"level"`
				}
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("log line is not JSON: %q: %v", line, err)
				}
				seen[entry.Level] = true
			}

			for _, exp := range tt.expected {
				if !seen[exp] {
					t.Errorf("expected %s entry in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if seen[exc] {
					t.Errorf("unexpected %s entry for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestDefaultLoggerIsNop(t *testing.T) {
	Set(nil)
	// Must not panic before Init.
	Info("dropped")
	Warn("dropped", zap.Int("n", 1))
	Sync()
}

func TestSetRoutesPackageHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Named("shadow").Warn("framebuffer incomplete", zap.Uint32("status", 0x8CDD))
	Sugar.Infof("frame %d", 3)

	if logs.Len() != 2 {
		t.Fatalf("logged %d entries, want 2", logs.Len())
	}
	first := logs.All()[0]
	if first.LoggerName != "shadow" {
		t.Errorf("LoggerName = %q, want %q", first.LoggerName, "shadow")
	}
	if first.ContextMap()["status"] != uint32(0x8CDD) {
		t.Errorf("status field = %v", first.ContextMap()["status"])
	}
	if logs.All()[1].Message != "frame 3" {
		t.Errorf("sugared message = %q", logs.All()[1].Message)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/viewer.log")

	if cfg.Path != "/tmp/viewer.log" {
		t.Errorf("expected path /tmp/viewer.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
