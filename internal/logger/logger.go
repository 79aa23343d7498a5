package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	level   = new(slog.LevelVar)
	mu      sync.RWMutex
	handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
)

// Logger is a scoped structured logger. Scopes are copied, never shared, so a
// Logger can be narrowed with File/Function without affecting the parent.
type Logger struct {
	pkg      string
	file     string
	function string
}

func New(pkg string) Logger {
	return Logger{pkg: pkg}
}

// SetLevel accepts debug, info, warn or error. Anything else leaves info.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}

// SetOutput swaps the destination of every logger. Used by tests and the CLI.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// Handler exposes the shared handler so other loggers (gorm) write to the same sink.
func Handler() slog.Handler {
	mu.RLock()
	defer mu.RUnlock()
	return handler
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs msg and returns it as an error.
func (l Logger) Error(msg string, args ...any) error {
	l.log(slog.LevelError, msg, args...)
	return errors.New(msg)
}

// ErrMsg is Error without attributes.
func (l Logger) ErrMsg(msg string) error {
	return l.Error(msg)
}

// Err logs msg with the cause and returns msg wrapping err.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.log(slog.LevelError, msg, append([]any{"error", errString(err)}, args...)...)
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Er logs like Err but returns nothing, for failures the caller absorbs.
func (l Logger) Er(msg string, err error, args ...any) {
	l.log(slog.LevelError, msg, append([]any{"error", errString(err)}, args...)...)
}

// ErMsg logs like ErrMsg but returns nothing.
func (l Logger) ErMsg(msg string) {
	l.log(slog.LevelError, msg)
}

func (l Logger) log(lvl slog.Level, msg string, args ...any) {
	h := Handler()
	slogger := slog.New(h)
	attrs := make([]any, 0, len(args)+6)
	if l.pkg != "" {
		attrs = append(attrs, "package", l.pkg)
	}
	if l.file != "" {
		attrs = append(attrs, "file", l.file)
	}
	if l.function != "" {
		attrs = append(attrs, "function", l.function)
	}
	attrs = append(attrs, args...)
	slogger.Log(context.Background(), lvl, msg, attrs...)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
