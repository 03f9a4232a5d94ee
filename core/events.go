package core

import "encoding/json"

// Wire discriminator values for interaction stream events.
const (
	EventTypeInteractionStart    = "interaction.start"
	EventTypeInteractionComplete = "interaction.complete"
	EventTypeInteractionStatus   = "interaction.status_update"
	EventTypeContentStart        = "content.start"
	EventTypeContentDelta        = "content.delta"
	EventTypeContentStop         = "content.stop"
	EventTypeError               = "error"
)

// StreamEvent is one typed event from an interaction stream. The concrete
// type is one of [InteractionEvent], [InteractionStatusEvent],
// [ContentStartEvent], [ContentDeltaEvent], [ContentStopEvent], or
// [ErrorEvent]; the set is closed.
type StreamEvent interface {
	// StreamEventID returns the application-level event identifier.
	StreamEventID() string

	// StreamEventType returns the wire discriminator, one of the
	// EventType constants.
	StreamEventType() string
}

// InteractionEvent carries a full interaction snapshot. It is emitted both
// at stream start (interaction.start) and at completion
// (interaction.complete); Type tells the two apart.
type InteractionEvent struct {
	EventID     string
	Type        string
	Interaction Interaction
}

func (e InteractionEvent) StreamEventID() string   { return e.EventID }
func (e InteractionEvent) StreamEventType() string { return e.Type }

// InteractionStatusEvent reports a status transition mid-stream.
type InteractionStatusEvent struct {
	EventID       string
	InteractionID string
	Status        InteractionStatus
}

func (e InteractionStatusEvent) StreamEventID() string   { return e.EventID }
func (e InteractionStatusEvent) StreamEventType() string { return EventTypeInteractionStatus }

// ContentStartEvent opens a content block at a zero-based index.
type ContentStartEvent struct {
	EventID string
	Index   int
	Content Content
}

func (e ContentStartEvent) StreamEventID() string   { return e.EventID }
func (e ContentStartEvent) StreamEventType() string { return EventTypeContentStart }

// ContentDeltaEvent extends the content block at Index.
type ContentDeltaEvent struct {
	EventID string
	Index   int
	Delta   Delta
}

func (e ContentDeltaEvent) StreamEventID() string   { return e.EventID }
func (e ContentDeltaEvent) StreamEventType() string { return EventTypeContentDelta }

// ContentStopEvent closes the content block at Index.
type ContentStopEvent struct {
	EventID string
	Index   int
}

func (e ContentStopEvent) StreamEventID() string   { return e.EventID }
func (e ContentStopEvent) StreamEventType() string { return EventTypeContentStop }

// ErrorEvent reports a server-side error delivered in-stream.
type ErrorEvent struct {
	EventID string
	Code    string
	Message string
}

func (e ErrorEvent) StreamEventID() string   { return e.EventID }
func (e ErrorEvent) StreamEventType() string { return EventTypeError }

// eventEnvelope is the superset of fields any stream event payload carries.
type eventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Interaction   *Interaction      `json:"interaction"`
	InteractionID string            `json:"interaction_id"`
	Status        InteractionStatus `json:"status"`
	Index         int               `json:"index"`
	Content       *Content          `json:"content"`
	Delta         *Delta            `json:"delta"`
	Code          string            `json:"code"`
	Message       string            `json:"message"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ClassifyEvent decodes a stream event payload into its typed variant,
// selected by the payload's event_type discriminator. An unknown or missing
// discriminator returns (nil, false): newer servers may introduce event
// types this client does not know, and those must not break the stream.
// Missing optional sub-objects decode to zero values, never an error.
func ClassifyEvent(data []byte) (StreamEvent, bool) {
	if len(data) == 0 {
		return nil, false
	}

	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}

	switch env.EventType {
	case EventTypeInteractionStart, EventTypeInteractionComplete:
		ev := InteractionEvent{EventID: env.EventID, Type: env.EventType}
		if env.Interaction != nil {
			ev.Interaction = *env.Interaction
		}
		return ev, true

	case EventTypeInteractionStatus:
		return InteractionStatusEvent{
			EventID:       env.EventID,
			InteractionID: env.InteractionID,
			Status:        env.Status,
		}, true

	case EventTypeContentStart:
		ev := ContentStartEvent{EventID: env.EventID, Index: env.Index}
		if env.Content != nil {
			ev.Content = *env.Content
		}
		return ev, true

	case EventTypeContentDelta:
		ev := ContentDeltaEvent{EventID: env.EventID, Index: env.Index}
		if env.Delta != nil {
			ev.Delta = *env.Delta
		}
		return ev, true

	case EventTypeContentStop:
		return ContentStopEvent{EventID: env.EventID, Index: env.Index}, true

	case EventTypeError:
		ev := ErrorEvent{EventID: env.EventID, Code: env.Code, Message: env.Message}
		// Some producers nest the pair under "error".
		if env.Error != nil {
			if env.Error.Code != "" {
				ev.Code = env.Error.Code
			}
			if env.Error.Message != "" {
				ev.Message = env.Error.Message
			}
		}
		return ev, true

	default:
		return nil, false
	}
}
