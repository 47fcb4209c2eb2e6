// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/telos/pkg/core"
)

// ConfigureSlog sets the global slog logger with trace-aware attributes.
func ConfigureSlog(output io.Writer, level, format string) *slog.Logger {
	logger := NewLogger(output, level, format)
	slog.SetDefault(logger)
	return logger
}

// NewLogger builds a trace-aware logger without touching the global default.
func NewLogger(output io.Writer, level, format string) *slog.Logger {
	return slog.New(newSlogHandler(output, level, format))
}

func newSlogHandler(output io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: ParseLogLevel(level),
	}
	var base slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		base = slog.NewJSONHandler(output, opts)
	default:
		base = slog.NewTextHandler(output, opts)
	}
	return &traceHandler{next: base}
}

// traceHandler copies correlation ids from the context onto every record
// that does not already carry them.
type traceHandler struct {
	next slog.Handler
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, attr := range contextAttrs(ctx) {
		if !recordHasAttr(record, attr.Key) {
			record.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, record)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{next: h.next.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{next: h.next.WithGroup(name)}
}

// contextAttrs returns trace_id and span_id of the active span plus the
// run and domain ids stored by pkg/core.
func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if runID, ok := core.RunID(ctx); ok {
		attrs = append(attrs, slog.String("run_id", runID))
	}
	if domainID, ok := core.DomainID(ctx); ok {
		attrs = append(attrs, slog.String("domain", domainID))
	}
	return attrs
}

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLogLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLogLevel(level string) slog.Level {
	if l, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

func recordHasAttr(record slog.Record, key string) bool {
	found := false
	record.Attrs(func(attr slog.Attr) bool {
		found = attr.Key == key
		return !found
	})
	return found
}
