// ABOUTME: Level-filtered logging wrapper around slog for engine and demo output
// ABOUTME: Global level via SetLevel; component loggers tag records with their origin

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level   slog.LevelVar
	current atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(LevelInfo)
	SetOutput(os.Stderr)
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return level.Level()
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetOutput redirects all records to w. Stderr keeps them out of the TUI.
func SetOutput(w io.Writer) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: &level})
	current.Store(slog.New(h))
}

// Logger is a component-scoped logger.
type Logger struct {
	component string
}

// For returns a logger that tags every record with component=name.
func For(name string) *Logger {
	return &Logger{component: name}
}

// Debug logs a debug message if the level allows it.
func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args) }

// Info logs an info message if the level allows it.
func (l *Logger) Info(format string, args ...any) { l.log(LevelInfo, format, args) }

// Warn logs a warning message if the level allows it.
func (l *Logger) Warn(format string, args ...any) { l.log(LevelWarn, format, args) }

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args) }

func (l *Logger) log(lvl slog.Level, format string, args []any) {
	if lvl < level.Level() {
		return
	}
	logger := current.Load()
	if l != nil && l.component != "" {
		logger = logger.With("component", l.component)
	}
	logger.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

var root = &Logger{}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) { root.log(LevelDebug, format, args) }

// Info logs an info message if the level allows it.
func Info(format string, args ...any) { root.log(LevelInfo, format, args) }

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) { root.log(LevelWarn, format, args) }

// Error logs an error message.
func Error(format string, args ...any) { root.log(LevelError, format, args) }
