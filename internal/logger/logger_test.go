package logger

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_ConsoleOnly(t *testing.T) {
	log, level, err := New(Config{Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if level.Level() != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", level.Level())
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNew_WritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	log, _, err := New(Config{Service: "scan", Level: "info", Dir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "scan.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("log file is empty")
	}
}

func TestSetLevel(t *testing.T) {
	_, level, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if level.Level() != zapcore.InfoLevel {
		t.Errorf("default level = %v, want info", level.Level())
	}

	if err := SetLevel(level, "debug"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if level.Level() != zapcore.DebugLevel {
		t.Errorf("level = %v, want debug", level.Level())
	}

	if err := SetLevel(level, "nope"); err == nil {
		t.Error("expected error for unknown level")
	}
	if level.Level() != zapcore.DebugLevel {
		t.Error("failed SetLevel must keep the previous level")
	}
}
