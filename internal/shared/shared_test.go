package shared

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected valid uuid, got %s: %v", id, err)
	}

	if GenerateID() == id {
		t.Error("expected distinct ids across calls")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	if logger == nil {
		t.Fatal("expected logger to be created")
	}

	logger.Info("hello")
	if buf.Len() == 0 {
		t.Error("expected log output to be written")
	}
}

func TestNewFileLogger(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "logs", "moodlist.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be created")
	}
}
