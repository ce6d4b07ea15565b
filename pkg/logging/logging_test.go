package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/bottomsheet/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitWritesToFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "logs", "sheet.log")
	closeFn, err := Init(config.LogSection{Level: "debug", Format: "json", File: path}, Options{App: "sheet", Version: "test", Interactive: true})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	slog.Debug("detent committed", "to", "50%")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{`"msg":"detent committed"`, `"app":"sheet"`, `"to":"50%"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %s: %s", want, data)
		}
	}
}

func TestEnvOverridesLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	t.Setenv(EnvLogLevel, "error")
	path := filepath.Join(t.TempDir(), "sheet.log")
	closeFn, err := Init(config.LogSection{Level: "debug", File: path}, Options{Interactive: true})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	slog.Info("quiet")
	closeFn()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "quiet") {
		t.Fatal("env level should suppress info records")
	}
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	if _, err := Init(config.LogSection{Format: "xml"}, Options{}); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
