package logger

import (
	"context"
	"log/slog"
	"os"
)

// Field is a structured log attribute.
type Field struct {
	Key   string
	Value interface{}
}

// Logger is the logging interface consumed by services.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
}

// AppLogger implements Logger on top of slog.
type AppLogger struct {
	sl *slog.Logger
}

// NewLogger creates an AppLogger. Production environments get JSON output,
// everything else gets human-readable text with debug enabled.
func NewLogger(env string) *AppLogger {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return &AppLogger{sl: slog.New(handler)}
}

// NewWithHandler wraps an existing slog handler, used when logs are bridged
// to an OTLP exporter.
func NewWithHandler(handler slog.Handler) *AppLogger {
	return &AppLogger{sl: slog.New(handler)}
}

func (l *AppLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.sl.DebugContext(ctx, msg, attrs(fields)...)
}

func (l *AppLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.sl.InfoContext(ctx, msg, attrs(fields)...)
}

func (l *AppLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.sl.WarnContext(ctx, msg, attrs(fields)...)
}

func (l *AppLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.sl.ErrorContext(ctx, msg, attrs(fields)...)
}

func attrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}
