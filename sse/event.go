// Package sse implements an incremental Server-Sent Events decoder.
//
// The decoder is push-based: the transport layer feeds raw byte chunks to
// [ParseChunk] as they arrive, and receives the events those chunks complete.
// Chunk boundaries carry no meaning — the same byte stream produces the same
// events no matter how it is sliced. State between calls is carried in an
// explicit [ParserState] value rather than hidden inside a reader, so the
// decoder can sit under any transport.
//
//	st := sse.NewParserState()
//	for chunk := range chunks {
//	    events, next, err := sse.ParseChunk(chunk, st)
//	    if err != nil {
//	        return err
//	    }
//	    st = next
//	    // consume events
//	}
//	tail := sse.Finalize(st)
package sse

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is one decoded Server-Sent Event.
//
// Data holds the event payload as raw JSON, assembled from one or more
// "data:" lines. Done is set instead of Data when the payload was the
// literal "[DONE]" termination sentinel.
type Event struct {
	// ID is the transport-level event id from the "id:" field, if any.
	ID string

	// Type is the event type from the "event:" field, if any.
	Type string

	// Retry is the reconnection delay in milliseconds from the "retry:"
	// field, or -1 when absent.
	Retry int

	// Data is the JSON payload. Nil when Done is set.
	Data json.RawMessage

	// Done reports that the payload was the "[DONE]" sentinel.
	Done bool

	// Extra holds unrecognized fields, keyed by field name. Kept so new
	// server-side fields survive a round trip through the decoder.
	Extra map[string]string

	// Timestamp is the receipt time, stamped when the event was decoded.
	Timestamp time.Time
}

// ParseError reports a parser-internal failure during a [ParseChunk] call.
// Per-event problems (malformed lines, bad JSON) never produce a ParseError;
// those events are dropped and the stream continues.
type ParseError struct {
	// Cause is the recovered failure value.
	Cause any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("sse: parser failure: %v", e.Cause)
}
