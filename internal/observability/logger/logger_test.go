package logger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type captureHandler struct {
	records []slog.Record
	min     slog.Level
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(name string) slog.Handler       { return h }

// TestPurpose: Validates log-level string parsing with a safe default.
// Scope: Unit Test
// Expected: Known names map to their slog level; anything else falls back to info.
// Test Case ID: LOG-01
func TestLogger_ParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.name); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

// TestPurpose: Validates that records carry the active span's identifiers.
// Scope: Unit Test
// Expected: With a valid span in context the record gains trace_id and span_id; without one it stays untouched.
// Test Case ID: LOG-02
func TestLogger_SpanContextHandler(t *testing.T) {
	capture := &captureHandler{min: slog.LevelDebug}
	handler := &spanContextHandler{Handler: capture}

	traceID := trace.TraceID{0x01}
	spanID := trace.SpanID{0x02}
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	rec := slog.NewRecord(time.Time{}, slog.LevelInfo, "with span", 0)
	if err := handler.Handle(ctx, rec); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	attrs := map[string]string{}
	capture.records[0].Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	if attrs["trace_id"] != traceID.String() {
		t.Errorf("expected trace_id %s, got %q", traceID, attrs["trace_id"])
	}
	if attrs["span_id"] != spanID.String() {
		t.Errorf("expected span_id %s, got %q", spanID, attrs["span_id"])
	}

	plain := slog.NewRecord(time.Time{}, slog.LevelInfo, "no span", 0)
	if err := handler.Handle(context.Background(), plain); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	capture.records[1].Attrs(func(a slog.Attr) bool {
		if a.Key == "trace_id" || a.Key == "span_id" {
			t.Errorf("record without a span should not carry %s", a.Key)
		}
		return true
	})
}

// TestPurpose: Validates fan-out delivery across handlers with different levels.
// Scope: Unit Test
// Expected: Each handler receives only records at or above its own level, and Enabled reports the union.
// Test Case ID: LOG-03
func TestLogger_Fanout(t *testing.T) {
	debugSink := &captureHandler{min: slog.LevelDebug}
	errorSink := &captureHandler{min: slog.LevelError}
	handler := fanout(debugSink, errorSink)

	ctx := context.Background()
	if !handler.Enabled(ctx, slog.LevelDebug) {
		t.Error("fanout should be enabled when any handler accepts the level")
	}

	info := slog.NewRecord(time.Time{}, slog.LevelInfo, "info", 0)
	errRec := slog.NewRecord(time.Time{}, slog.LevelError, "boom", 0)
	if err := handler.Handle(ctx, info); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if err := handler.Handle(ctx, errRec); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if len(debugSink.records) != 2 {
		t.Errorf("debug sink should receive both records, got %d", len(debugSink.records))
	}
	if len(errorSink.records) != 1 {
		t.Errorf("error sink should receive only the error record, got %d", len(errorSink.records))
	}
}
