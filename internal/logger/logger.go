package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu             sync.RWMutex
	globalLogger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	securityLogger = globalLogger.With("channel", "security")
)

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	OutputPath string // "stdout", "stderr" or a file path
	Format     string // "json" or "text"
}

// InitWithConfig initializes the structured logger and installs it as the slog default.
func InitWithConfig(config Config) error {
	var output io.Writer
	switch config.OutputPath {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		output = f
	}

	SetOutput(output, config.Format, ParseLevel(config.Level))
	return nil
}

// SetOutput replaces the global logger. Tests use it to capture output.
func SetOutput(w io.Writer, format string, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)

	mu.Lock()
	globalLogger = l
	securityLogger = l.With("channel", "security")
	mu.Unlock()

	slog.SetDefault(l)
}

// ParseLevel converts a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// L returns the application logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Security returns the logger for access-control events. Its records carry
// channel=security so they can be routed separately from ordinary errors.
func Security() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return securityLogger
}

func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	L().Error(msg, args...)
}
