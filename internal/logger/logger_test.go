package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if _, err := os.Stat(filepath.Join(configDir, "logs")); os.IsNotExist(err) {
		t.Error("Log directory was not created")
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestPathPointsAtAppLog(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	Warn("booking failed", "slot", "42")

	want := filepath.Join(configDir, "logs", "slotbook.log")
	if Path() != want {
		t.Errorf("Path() = %q, want %q", Path(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected log file at %s: %v", want, err)
	}
}

func TestConsoleMirror(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		emit      func()
		wantShown bool
	}{
		{name: "info shown", emit: func() { Info("slots loaded", "count", 3) }, wantShown: true},
		{name: "debug hidden by default", emit: func() { Debug("slots loaded", "count", 3) }, wantShown: false},
		{name: "debug shown in debug mode", debug: true, emit: func() { Debug("slots loaded", "count", 3) }, wantShown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var console bytes.Buffer
			if err := Init(Config{Debug: tt.debug, ConfigDir: t.TempDir(), Console: &console}); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			tt.emit()
			if got := strings.Contains(console.String(), "slots loaded"); got != tt.wantShown {
				t.Errorf("console contains message = %v, want %v (output %q)", got, tt.wantShown, console.String())
			}
		})
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitWithInvalidDirectory(t *testing.T) {
	err := Init(Config{ConfigDir: "/nonexistent/path/that/should/not/exist"})
	if err == nil {
		t.Skip("Unable to test invalid directory - path was created or already exists")
	}
}
