// Package core provides the Lumen SDK types and streaming abstractions.
//
// The core package defines the domain model (interactions, content blocks,
// deltas), the typed event protocol for interaction streams, and the ambient
// concerns the client layer builds on: error classification, retry policy,
// secret handling, and telemetry hooks.
//
// # Streaming
//
// Lumen treats streaming as a first-class primitive. An interaction stream
// delivers typed events over three phases: a full snapshot at start, indexed
// content blocks opened, extended, and closed incrementally, and a final
// snapshot at completion:
//
//	stream, err := client.StreamInteraction(ctx, req)
//	if err != nil {
//	    return err
//	}
//	for ev := range stream.Events {
//	    if delta, ok := ev.(core.ContentDeltaEvent); ok {
//	        fmt.Print(delta.Delta.Text)
//	    }
//	}
//
// Use [Collect] to drain a stream into its final [Interaction].
//
// Consumers may stop reading at any point; cancelling the request context
// releases the producer. Unknown event types from newer servers are dropped
// by [ClassifyEvent] without disturbing the rest of the stream.
//
// # Errors
//
// All failures unwrap to one of the sentinel errors (ErrUnauthorized,
// ErrRateLimited, ...), so callers can classify with errors.Is while
// [APIError] retains the full response context.
package core
