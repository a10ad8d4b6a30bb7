// Package debug provides context-based debug mode with structured logging.
package debug

import (
	"context"
	"log/slog"
	"os"
)

type contextKey string

const debugKey contextKey = "debug_enabled"

// RedactedValue replaces secrets in debug output.
const RedactedValue = "[redacted]"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// SetupLogger configures slog based on debug mode.
func SetupLogger(debugEnabled bool) {
	var level slog.Level
	if debugEnabled {
		level = slog.LevelDebug
	} else {
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler).With("app", "spot"))
}

// Redact returns a copy of params with the named keys masked.
func Redact(params map[string]string, keys ...string) map[string]string {
	if params == nil {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	for _, k := range keys {
		if _, ok := out[k]; ok {
			out[k] = RedactedValue
		}
	}
	return out
}
