package logging

import (
	"os"
	"strings"
	"testing"
)

func TestNewLogger_WritesToRunFile(t *testing.T) {
	SetDirectory(t.TempDir())

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	logger.Infof("hello %s", "world")
	logger.Errorf("something broke")

	data, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "[test-component] [INFO] hello world") {
		t.Errorf("info line missing, content: %q", content)
	}
	if !strings.Contains(content, "[test-component] [ERROR] something broke") {
		t.Errorf("error line missing, content: %q", content)
	}
	if !strings.Contains(logger.LogPath(), RunID()) {
		t.Errorf("log path %q does not carry the run id", logger.LogPath())
	}
}

func TestNewLogger_SharedFileAcrossComponents(t *testing.T) {
	SetDirectory(t.TempDir())

	first, err := NewLogger("alpha")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer first.Close()

	second, err := NewLogger("beta")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer second.Close()

	if first.LogPath() != second.LogPath() {
		t.Errorf("components write to different files: %q vs %q", first.LogPath(), second.LogPath())
	}
}

func TestNewLogger_FallsBackToStderr(t *testing.T) {
	// A file where the directory should be makes MkdirAll fail.
	dir := t.TempDir()
	blocked := dir + "/blocked"
	if err := os.WriteFile(blocked, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	SetDirectory(blocked + "/logs")
	defer SetDirectory(dir)

	logger, err := NewLogger("test-component")
	if err == nil {
		t.Fatal("expected an error in fallback mode")
	}
	if logger == nil {
		t.Fatal("fallback logger must still be usable")
	}
	defer logger.Close()

	if logger.LogPath() != "" {
		t.Errorf("fallback logger has a log path: %q", logger.LogPath())
	}
	// Must not panic.
	logger.Infof("still logging")
}

func TestLogger_CloseIdempotent(t *testing.T) {
	SetDirectory(t.TempDir())

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
