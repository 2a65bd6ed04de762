package log

import (
	"context"
	"log/slog"
)

type contextAttrsKey struct{}

func contextAttrs(ctx context.Context) []slog.Attr {
	if attrs, ok := ctx.Value(contextAttrsKey{}).([]slog.Attr); ok {
		return attrs
	}
	return nil
}

// ContextWithAttrs returns a copy of ctx carrying attr in addition to any
// attrs already attached. Handlers created by NewContextLogHandler add them
// to every record logged with the returned context.
func ContextWithAttrs(ctx context.Context, attr ...slog.Attr) context.Context {
	if len(attr) == 0 {
		return ctx
	}
	parent := contextAttrs(ctx)
	// Copy so that sibling contexts never share a backing array.
	attrs := make([]slog.Attr, 0, len(parent)+len(attr))
	attrs = append(attrs, parent...)
	attrs = append(attrs, attr...)
	return context.WithValue(ctx, contextAttrsKey{}, attrs)
}

// ClearContextAttrs drops every attr previously attached to ctx.
func ClearContextAttrs(ctx context.Context) context.Context {
	if contextAttrs(ctx) == nil {
		return ctx
	}
	return context.WithValue(ctx, contextAttrsKey{}, nil)
}

// NewContextLogHandler wraps handler so that attrs stored with
// ContextWithAttrs are appended to each record.
func NewContextLogHandler(handler slog.Handler) slog.Handler {
	return &contextHandler{next: handler}
}

type contextHandler struct {
	next slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := contextAttrs(ctx); len(attrs) > 0 {
		r.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}
