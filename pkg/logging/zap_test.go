package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

	logger, err := New(Config{Path: logPath, Format: FormatText, Level: InfoLevel})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestZapLogger_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatText, Level: WarnLevel, Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", errors.New("boom"), nil)
	logger.Close()

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Error("warn message missing")
	}
	if !strings.Contains(out, "error message") || !strings.Contains(out, "boom") {
		t.Error("error message or its error missing")
	}
}

func TestZapLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatJSON, Level: DebugLevel, Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info(context.Background(), "image corrupt", Fields{"path": "/p/bad (1).JPG", "size": 12})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}

	if entry["message"] != "image corrupt" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
	if entry["path"] != "/p/bad (1).JPG" {
		t.Errorf("path = %v", entry["path"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestZapLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatJSON, Level: InfoLevel, Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	child := logger.WithFields(Fields{"session": "abc"})
	child.Info(context.Background(), "hello", Fields{"n": 1})
	if err := child.Close(); err != nil {
		t.Errorf("child Close() error = %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["session"] != "abc" {
		t.Errorf("session = %v, want abc", entry["session"])
	}
	if entry["n"] != float64(1) {
		t.Errorf("n = %v, want 1", entry["n"])
	}
}

func TestZapLogger_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rotate.log")

	logger, err := New(Config{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    200,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 50; i++ {
		logger.Info(context.Background(), "a reasonably long line to fill the log file quickly", Fields{"i": i})
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected first backup: %v", err)
	}
	if _, err := os.Stat(logPath + ".2"); err != nil {
		t.Errorf("expected second backup: %v", err)
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestZapLogger_WriteAfterClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "closed.log")
	logger, err := New(Config{Path: logPath, Format: FormatText, Level: InfoLevel})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Close()

	// Must not panic
	logger.Info(context.Background(), "after close", nil)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if WarnLevel.String() != "WARN" {
		t.Errorf("WarnLevel.String() = %s", WarnLevel.String())
	}
	if Level(42).String() != "UNKNOWN" {
		t.Errorf("Level(42).String() = %s", Level(42).String())
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("ParseFormat(JSON) should be json")
	}
	if ParseFormat("xml") != FormatText {
		t.Error("ParseFormat(xml) should fall back to text")
	}
}

func TestNullLogger(t *testing.T) {
	var l Logger = NewNullLogger()
	l.Info(context.Background(), "ignored", Fields{"a": 1})
	if l.WithFields(Fields{"b": 2}) != l {
		t.Error("WithFields() should return the same null logger")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, ok := OrNull(nil).(*NullLogger); !ok {
		t.Error("OrNull(nil) should return a NullLogger")
	}
}
