// Package otel exports lumen request telemetry as OpenTelemetry spans.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumenlabs/lumen-go/core"
)

const tracerName = "github.com/lumenlabs/lumen-go/contrib/otel"

// Hook implements core.TelemetryHook by recording one span per completed
// request. Spans carry the endpoint, model, token usage, and error status.
type Hook struct {
	tracer trace.Tracer
}

// NewHook creates a telemetry hook backed by the given tracer provider.
func NewHook(tp trace.TracerProvider) *Hook {
	return &Hook{tracer: tp.Tracer(tracerName)}
}

// OnRequestStart is a no-op. The span is recorded on request end, when the
// timing and outcome are known, using explicit timestamps.
func (h *Hook) OnRequestStart(core.RequestStartEvent) {}

// OnRequestEnd records a span covering the whole request.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	_, span := h.tracer.Start(context.Background(), "lumen.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
	)

	span.SetAttributes(
		attribute.String("lumen.endpoint", e.Endpoint),
		attribute.String("lumen.model", e.Model),
	)
	if e.Usage.TotalTokens > 0 {
		span.SetAttributes(
			attribute.Int("lumen.usage.prompt_tokens", e.Usage.PromptTokens),
			attribute.Int("lumen.usage.completion_tokens", e.Usage.CompletionTokens),
			attribute.Int("lumen.usage.total_tokens", e.Usage.TotalTokens),
		)
	}

	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(e.End))
}

// Compile-time check that Hook implements core.TelemetryHook.
var _ core.TelemetryHook = (*Hook)(nil)
