// Package observability carries build identifiers through contexts and into log records.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/inonjs/ignite/internal/logfields"
)

// LogContext holds the values attached to every record logged with a context.
type LogContext struct {
	BuildID string
	Stage   string
}

type logContextKeyType struct{}

var logContextKey logContextKeyType

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := GetContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := GetContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the LogContext stored in ctx, or the zero value.
func GetContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func attrs(ctx context.Context) []slog.Attr {
	lc := GetContext(ctx)
	var out []slog.Attr
	if lc.BuildID != "" {
		out = append(out, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		out = append(out, logfields.Stage(lc.Stage))
	}
	return out
}

// ContextHandler adds the LogContext of each record's context to the record.
type ContextHandler struct {
	slog.Handler
}

// Handle implements slog.Handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if extra := attrs(ctx); len(extra) > 0 {
		r = r.Clone()
		r.AddAttrs(extra...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h ContextHandler) WithAttrs(as []slog.Attr) slog.Handler {
	return ContextHandler{h.Handler.WithAttrs(as)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{h.Handler.WithGroup(name)}
}

// NewLogger returns a text logger on w wrapped in a ContextHandler.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(ContextHandler{slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})})
}

// LevelFromEnv returns the level named by IGNITE_LOG_LEVEL, or fallback when unset
// or unrecognised.
func LevelFromEnv(fallback slog.Level) slog.Level {
	raw := strings.TrimSpace(os.Getenv("IGNITE_LOG_LEVEL"))
	if raw == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return level
}
