package otel

import (
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/lumenlabs/lumen-go/core"
)

func newRecordingHook() (*Hook, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewHook(tp), recorder
}

func TestHookRecordsSpan(t *testing.T) {
	hook, recorder := newRecordingHook()

	start := time.Now().Add(-50 * time.Millisecond)
	hook.OnRequestEnd(core.RequestEndEvent{
		Endpoint: "/v1/interactions",
		Model:    "lumen-2-flash",
		Start:    start,
		End:      time.Now(),
		Usage:    core.TokenUsage{PromptTokens: 4, CompletionTokens: 3, TotalTokens: 7},
	})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans recorded = %d, want 1", len(spans))
	}

	span := spans[0]
	if span.Name() != "lumen.request" {
		t.Errorf("span name = %q, want lumen.request", span.Name())
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", span.Status().Code)
	}

	attrs := make(map[string]any)
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs["lumen.endpoint"] != "/v1/interactions" {
		t.Errorf("lumen.endpoint = %v, want /v1/interactions", attrs["lumen.endpoint"])
	}
	if attrs["lumen.usage.total_tokens"] != int64(7) {
		t.Errorf("lumen.usage.total_tokens = %v, want 7", attrs["lumen.usage.total_tokens"])
	}
	if !span.StartTime().Equal(start) {
		t.Errorf("span start = %v, want %v", span.StartTime(), start)
	}
}

func TestHookRecordsError(t *testing.T) {
	hook, recorder := newRecordingHook()

	hook.OnRequestEnd(core.RequestEndEvent{
		Endpoint: "/v1/interactions",
		Start:    time.Now(),
		End:      time.Now(),
		Err:      errors.New("rate limited"),
	})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans recorded = %d, want 1", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("no span events recorded, want an exception event")
	}
}
