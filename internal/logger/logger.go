// Package logger sets up structured logging with log/slog: a JSON handler
// with the service name embedded, plus tick-ID propagation through
// context.Context so every log line from one monitoring tick correlates.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type ctxKey string

const tickIDKey ctxKey = "tick_id"

// Init creates the service logger and installs it as slog's default.
func Init(service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	log := slog.New(handler).With(
		slog.String("service", service),
	)
	slog.SetDefault(log)
	return log
}

// WithTickID stores a tick ID in the context for downstream propagation.
func WithTickID(ctx context.Context, tickID string) context.Context {
	return context.WithValue(ctx, tickIDKey, tickID)
}

// TickID extracts the tick ID from context. Returns "" if not set.
func TickID(ctx context.Context) string {
	if v, ok := ctx.Value(tickIDKey).(string); ok {
		return v
	}
	return ""
}

// NewTickID derives a tick ID from the tick start time.
func NewTickID(ts time.Time) string {
	return fmt.Sprintf("tick-%d", ts.UnixNano())
}

// TickAttrs returns slog attributes carrying the tick ID from context.
func TickAttrs(ctx context.Context) []any {
	id := TickID(ctx)
	if id == "" {
		return nil
	}
	return []any{slog.String("tick_id", id)}
}
