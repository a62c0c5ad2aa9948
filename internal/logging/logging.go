// internal/logging/logging.go
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options selects where records go.
type Options struct {
	Level string // debug | info | warn | error
	File  string // empty disables the file sink
	// Console also writes to Stderr. Never set it while the TUI owns the terminal.
	Console bool
	Stderr  io.Writer
}

// Logger is a slog logger bound to its file sink.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New creates a text slog logger writing to the log file and, optionally,
// to the console.
func New(o Options) (*Logger, error) {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return nil, err
	}

	var (
		writers []io.Writer
		file    *os.File
	)
	if o.File != "" {
		if dir := filepath.Dir(o.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("logging: %w", err)
			}
		}
		file, err = os.OpenFile(o.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		writers = append(writers, file)
	}
	if o.Console {
		stderr := o.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, stderr)
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler), file: file}, nil
}

// Close closes the file sink, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a config level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
}
