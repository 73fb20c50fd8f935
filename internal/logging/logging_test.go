package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileWritesToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctxchat.log")
	logger, err := NewFile(path, true)
	if err != nil {
		t.Fatalf("new file logger: %v", err)
	}
	For(logger, CategoryChat).Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log line missing from file: %s", data)
	}
	if !strings.Contains(string(data), "chat") {
		t.Fatalf("category name missing from log line: %s", data)
	}
}

func TestForNilLogger(t *testing.T) {
	// Must not panic; callers pass nil in tests.
	For(nil, CategoryScope).Info("ignored")
}
