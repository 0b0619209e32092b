package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// leadingKeys are written right after the message, in this order, so a JSON
// log of many builds can be scanned by run and event.
var leadingKeys = []string{FieldRunID, FieldComponent, FieldEventType}

// jsonHandler buffers attributes added through WithAttrs so the leading keys
// can be hoisted ahead of the remaining fields.
type jsonHandler struct {
	base  slog.Handler
	attrs []slog.Attr
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}

	return &jsonHandler{base: slog.NewJSONHandler(w, &opts)}
}

func (h *jsonHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *jsonHandler) Handle(ctx context.Context, record slog.Record) error {
	lead := make([]slog.Attr, len(leadingKeys))
	rest := make([]slog.Attr, 0, len(h.attrs)+record.NumAttrs())
	place := func(attr slog.Attr) bool {
		for i, key := range leadingKeys {
			if attr.Key == key && lead[i].Key == "" {
				lead[i] = attr
				return true
			}
		}
		rest = append(rest, attr)
		return true
	}
	for _, attr := range h.attrs {
		place(attr)
	}
	record.Attrs(place)

	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	for _, attr := range lead {
		if attr.Key != "" {
			out.AddAttrs(attr)
		}
	}
	out.AddAttrs(rest...)
	return h.base.Handle(ctx, out)
}

func (h *jsonHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &jsonHandler{
		base:  h.base,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// WithGroup hands buffered attributes to the base handler; grouped fields are
// not reordered.
func (h *jsonHandler) WithGroup(name string) slog.Handler {
	base := h.base
	if len(h.attrs) > 0 {
		base = base.WithAttrs(h.attrs)
	}
	return &jsonHandler{base: base.WithGroup(name)}
}
