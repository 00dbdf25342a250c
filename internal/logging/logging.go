// Package logging provides the process-wide structured logger. The TUI
// owns the terminal, so log output goes to a size-rotated file instead of
// stderr.
package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names used across the application.
const (
	CompApp    = "app"
	CompSource = "source"
	CompWorker = "worker"
	CompServer = "server"
	CompUI     = "ui"
)

// Config holds logging configuration.
type Config struct {
	// Dir is the directory for the rotated log file; empty discards logs.
	Dir string

	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string

	// Format is "text" (default) or "json".
	Format string
}

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init configures the global logger. The TUI owns stdout and stderr, so
// everything goes to a rotated file under cfg.Dir.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	if cfg.Dir == "" {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	writer := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "pog.log"),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		logger = slog.New(slog.NewJSONHandler(writer, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(writer, opts))
	}
}

// Log returns a logger tagged with the given component.
func Log(component string) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.With("component", component)
}
