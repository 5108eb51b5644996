package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a context.
// It reports false when the context carries nothing to log.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// ContextValue returns an extractor logging the value stored under ctxKey as
// attribute name. Empty values are skipped.
func ContextValue[T comparable](name string, ctxKey any) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		v, ok := ctx.Value(ctxKey).(T)
		var zero T
		if !ok || v == zero {
			return slog.Attr{}, false
		}
		return slog.Any(name, v), true
	}
}

// LogHandlerDecorator adds context-extracted attributes to every record
// before passing it on. Extractors run per call, so request-scoped values are
// always current.
type LogHandlerDecorator struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewLogHandlerDecorator wraps next. Nil extractors are dropped.
func NewLogHandlerDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	kept := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &LogHandlerDecorator{next: next, extractors: kept}
}

func (h *LogHandlerDecorator) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *LogHandlerDecorator) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *LogHandlerDecorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandlerDecorator{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *LogHandlerDecorator) WithGroup(name string) slog.Handler {
	return &LogHandlerDecorator{next: h.next.WithGroup(name), extractors: h.extractors}
}
