package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger writes JSON records tagged with the service name and hostname.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

func NewLogger(service string) *Logger {
	return New(service, os.Stdout, slog.LevelDebug)
}

func New(service string, w io.Writer, level slog.Level) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Nop discards everything; used when a component is built without a logger.
func Nop() *Logger {
	return New("", io.Discard, slog.LevelError+1)
}

func (l *Logger) Info(action, message string, kv ...any) {
	l.log(slog.LevelInfo, action, message, kv)
}

func (l *Logger) Debug(action, message string, kv ...any) {
	l.log(slog.LevelDebug, action, message, kv)
}

func (l *Logger) Error(action, message string, err error, kv ...any) {
	if err != nil {
		kv = append(kv, slog.String("error", err.Error()))
	}
	l.log(slog.LevelError, action, message, kv)
}

func (l *Logger) log(level slog.Level, action, message string, kv []any) {
	if l == nil {
		return
	}
	args := append([]any{
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
	}, kv...)
	l.handler.Log(context.Background(), level, message, args...)
}
