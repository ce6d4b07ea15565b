// Package logging installs the process-wide slog logger for cmd/sheet.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Dicklesworthstone/bottomsheet/pkg/config"
)

// Environment overrides, applied after the config file
const (
	EnvLogLevel  = "BOTTOMSHEET_LOG_LEVEL"
	EnvLogFormat = "BOTTOMSHEET_LOG_FORMAT"
	EnvLogFile   = "BOTTOMSHEET_LOG_FILE"
)

// Options selects where logs go
type Options struct {
	App     string
	Version string
	// Interactive is set when the TUI owns the terminal; logs then go to a
	// file (or nowhere) instead of stderr.
	Interactive bool
}

// Init builds a logger from cfg and installs it with slog.SetDefault. The
// returned func closes the log file, if any.
func Init(cfg config.LogSection, opts Options) (func() error, error) {
	cfg = withEnv(cfg)
	writer, closeFn, err := resolveWriter(cfg, opts.Interactive)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		handler = slog.NewJSONHandler(writer, handlerOpts)
	case "", "text":
		handler = slog.NewTextHandler(writer, handlerOpts)
	default:
		closeFn()
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	logger := slog.New(handler)
	if opts.App != "" {
		logger = logger.With(slog.String("app", opts.App), slog.String("version", opts.Version))
	}
	slog.SetDefault(logger)
	return closeFn, nil
}

// ParseLevel maps a level name to a slog level; unknown names are info
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func withEnv(cfg config.LogSection) config.LogSection {
	apply := func(dst *string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	apply(&cfg.Level, EnvLogLevel)
	apply(&cfg.Format, EnvLogFormat)
	apply(&cfg.File, EnvLogFile)
	return cfg
}

func resolveWriter(cfg config.LogSection, interactive bool) (io.Writer, func() error, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		if interactive {
			return io.Discard, func() error { return nil }, nil
		}
		return os.Stderr, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
	}
	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     14,
	}
	return rot, rot.Close, nil
}
