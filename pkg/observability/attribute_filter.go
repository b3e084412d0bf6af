package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// exportedNamespaces lists the attribute key prefixes the tree, session and
// bench spans are allowed to export.
var exportedNamespaces = []string{"rbtree.", "session.", "bench.", "error."}

// rawInputKey holds the unparsed REPL line, which may carry anything the user typed.
const rawInputKey = "session.input"

// keepAttribute reports whether key may leave the process.
func keepAttribute(key attribute.Key) bool {
	name := string(key)

	switch {
	case name == rawInputKey:
		return false
	case name == "error":
		return true
	}

	for _, prefix := range exportedNamespaces {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

// attributeFilter strips attributes outside the exported namespaces before a
// finished span reaches the delegate processor.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
}

// NewAttributeFilter wraps delegate so that only rbtree., session., bench. and
// error. attributes are exported; raw session input is always dropped. A
// non-nil logger gets one warning per span listing the dropped keys.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	original := s.Attributes()
	kept := make([]attribute.KeyValue, 0, len(original))

	var dropped []string

	for _, kv := range original {
		if keepAttribute(kv.Key) {
			kept = append(kept, kv)
		} else {
			dropped = append(dropped, string(kv.Key))
		}
	}

	if len(dropped) > 0 && f.logger != nil {
		f.logger.Warn("span attributes dropped", "span", s.Name(), "keys", dropped)
	}

	f.delegate.OnEnd(filteredSpan{ReadOnlySpan: s, attrs: kept})
}

func (f *attributeFilter) Shutdown(ctx context.Context) error {
	if err := f.delegate.Shutdown(ctx); err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	if err := f.delegate.ForceFlush(ctx); err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

// filteredSpan overrides the attribute list of a finished span.
type filteredSpan struct {
	sdktrace.ReadOnlySpan

	attrs []attribute.KeyValue
}

func (s filteredSpan) Attributes() []attribute.KeyValue {
	return s.attrs
}
