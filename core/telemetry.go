package core

import "time"

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use this for logging, metrics, tracing, etc.
//
// Event types are designed to never include sensitive data: API keys are
// stored separately as [Secret] and never appear here, and neither prompt
// content nor model output is exposed. Only operational metadata (endpoint,
// model, timing, token counts) is reported, so telemetry can be logged to
// disk or shipped to external monitoring systems safely. Keep it that way
// when extending these types.
type TelemetryHook interface {
	// OnRequestStart is called when a request to the API begins.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when a request to the API completes.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	Endpoint string    // API endpoint path (e.g., "/v1/interactions")
	Model    string    // Model being called, if any
	Start    time.Time // When the request started
}

// RequestEndEvent contains metadata about a completed request.
type RequestEndEvent struct {
	Endpoint string     // API endpoint path
	Model    string     // Model that was called, if any
	Start    time.Time  // When the request started
	End      time.Time  // When the request completed
	Usage    TokenUsage // Token consumption, if reported
	Err      error      // Error if request failed, nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
// Use this as a default when no telemetry is configured.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// Compile-time check that NoopTelemetryHook implements TelemetryHook.
var _ TelemetryHook = NoopTelemetryHook{}
