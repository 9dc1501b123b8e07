package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
	attrCommand = "command"
	attrSource  = "source"
)

type logScope struct {
	command string
	source  string
}

type logScopeKey struct{}

func scopeFrom(ctx context.Context) logScope {
	s, _ := ctx.Value(logScopeKey{}).(logScope)

	return s
}

// WithCommand returns a context whose log records carry the CLI command name.
func WithCommand(ctx context.Context, command string) context.Context {
	s := scopeFrom(ctx)
	s.command = command

	return context.WithValue(ctx, logScopeKey{}, s)
}

// WithSource returns a context whose log records carry the label of the
// source file being processed.
func WithSource(ctx context.Context, source string) context.Context {
	s := scopeFrom(ctx)
	s.source = source

	return context.WithValue(ctx, logScopeKey{}, s)
}

// TracingHandler is an [slog.Handler] that stamps every record with the
// active span, the CLI command and the source file found in the context.
// Service attributes are bound once so they stay top level under groups.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner.
func NewTracingHandler(inner slog.Handler, service, env string, mode AppMode) *TracingHandler {
	bound := []slog.Attr{slog.String(attrService, service), slog.String(attrMode, string(mode))}
	if env != "" {
		bound = append(bound, slog.String(attrEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(bound)}
}

// Enabled delegates to the inner handler.
func (h *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds the context attributes, then delegates.
func (h *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	s := scopeFrom(ctx)
	if s.command != "" {
		record.AddAttrs(slog.String(attrCommand, s.command))
	}

	if s.source != "" {
		record.AddAttrs(slog.String(attrSource, s.source))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(slog.String(attrTraceID, sc.TraceID().String()), slog.String(attrSpanID, sc.SpanID().String()))
	}

	if err := h.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("log %q: %w", record.Message, err)
	}

	return nil
}

// WithAttrs returns a handler with additional attributes.
func (h *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup returns a handler with a group prefix.
func (h *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: h.inner.WithGroup(name)}
}
