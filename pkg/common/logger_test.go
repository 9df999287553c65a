package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.log")

	logger, err := NewLogger(true, path)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Debug("debug line")
	logger.Info("info line")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{`"msg":"debug line"`, `"msg":"info line"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %s:\n%s", want, data)
		}
	}
}

func TestNewLogger_InfoLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.log")

	logger, err := NewLogger(false, path)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Errorf("debug line written at info level")
	}
}
