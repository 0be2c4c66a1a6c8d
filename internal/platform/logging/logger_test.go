package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_ContextAddsTraceFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core)).Named("pipeline").With("run_id", "r-1")

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.WarnContext(ctx, "season skipped", "year", 2012, "error", errors.New("empty standings"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.LoggerName != "pipeline" || entry.Message != "season skipped" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	fields := entry.ContextMap()
	if fields["run_id"] != "r-1" || fields["year"] != int64(2012) {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["error"] != "empty standings" {
		t.Fatalf("expected error field, got %v", fields["error"])
	}
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("expected trace fields, got %v", fields)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(LevelWarn, FormatJSON, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "seasons", 3)
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"seasons":3`) {
		t.Fatalf("unexpected json output: %s", out)
	}
}

func TestLogger_ConsoleFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(LevelInfo, FormatConsole, &buf)
	logger.Info("refresh done", "owners", 12)

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console output, got %s", out)
	}
	if !strings.Contains(out, "refresh done") {
		t.Fatalf("missing message: %s", out)
	}
}

func TestLogger_NilReceiverUsesDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil || logger.Named("x") == nil {
		t.Fatalf("nil logger must return a usable logger")
	}
}
