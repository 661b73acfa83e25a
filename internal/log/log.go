// Package log wraps log/slog for the client. Handlers built here never emit
// the values of credential attributes.
package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Redacted replaces the value of a credential attribute.
const Redacted = "[REDACTED]"

// credentialKeys are matched case-insensitively as key substrings.
var credentialKeys = []string{"password", "ticket", "apptoken", "token", "secret"}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Wrap returns logger with its handler wrapped in a RedactingHandler. A nil
// logger yields Discard.
func Wrap(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	if _, ok := logger.Handler().(*RedactingHandler); ok {
		return logger
	}
	return slog.New(NewRedactingHandler(logger.Handler()))
}

// RedactingHandler is a slog.Handler that masks credential attributes
// before passing records to the next handler.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler creates a RedactingHandler.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = redact(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(masked)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

func redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]any, len(group))
		for i, g := range group {
			masked[i] = redact(g)
		}
		return slog.Group(a.Key, masked...)
	}

	key := strings.ToLower(a.Key)
	for _, sensitive := range credentialKeys {
		if strings.Contains(key, sensitive) {
			return slog.String(a.Key, Redacted)
		}
	}
	return a
}
