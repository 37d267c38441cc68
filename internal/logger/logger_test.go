package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSlogLogger_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(Config{Level: LevelInfo, Format: "json", Output: &buf})

	l.Debug("hidden")
	l.Info("insight generated", String("insight_type", "weekly"), Int("logs", 5), Err(errors.New("none")))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d: %s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if entry["msg"] != "insight generated" || entry["insight_type"] != "weekly" || entry["logs"] != float64(5) {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["error"] != "none" {
		t.Errorf("expected error field, got %v", entry["error"])
	}
}

func TestCtx_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewSlogLogger(Config{Level: LevelDebug, Output: &buf})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithLogger(ctx, base)
	ctx = trace.ContextWithSpanContext(ctx, sc)

	Ctx(ctx).Debug("hello")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	want := map[string]string{
		"request_id": "req-1",
		"user_id":    "user-1",
		"trace_id":   "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":    "00f067aa0ba902b7",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: expected %q, got %v", k, v, entry[k])
		}
	}
}

func TestWithRequestID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	if RequestIDFromContext(ctx) == "" {
		t.Error("expected a generated request id")
	}
}

func TestNop_DiscardsErrors(t *testing.T) {
	// Must not panic or write anywhere.
	Nop().Error("ignored", Err(errors.New("boom")))
}
