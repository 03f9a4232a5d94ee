package core

import "context"

// InteractionStream represents a streaming interaction response.
//
// Channel Rules:
//   - Producers MUST close Events and Err when finished
//   - On context cancellation, producers MUST terminate promptly and close channels
//   - Err channel emits at most one error
//   - Events are delivered in the exact order their blocks were resolved
//     from the byte stream
type InteractionStream struct {
	// Events emits typed stream events in order. Closed when the stream ends.
	Events <-chan StreamEvent

	// Err emits at most one error. MUST be closed when stream ends.
	Err <-chan error
}

// Collect drains the stream and returns the final interaction.
// Blocks until the stream completes or the context cancels.
//
// Behavior:
//  1. Read all events, accumulating content blocks from start/delta events
//  2. Remember the last full snapshot (interaction.start / interaction.complete)
//  3. An in-stream error event or Err channel error fails the collect
//  4. If the final snapshot carries no content, the accumulated blocks are
//     attached so partial output is not lost
func Collect(ctx context.Context, s *InteractionStream) (*Interaction, error) {
	if s == nil {
		return nil, ErrBadRequest
	}

	var final *Interaction
	var contents []Content
	var streamErr error

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case ev, ok := <-s.Events:
			if !ok {
				goto checkErr
			}
			switch ev := ev.(type) {
			case InteractionEvent:
				snapshot := ev.Interaction
				final = &snapshot

			case ContentStartEvent:
				for len(contents) <= ev.Index {
					contents = append(contents, Content{})
				}
				contents[ev.Index] = ev.Content

			case ContentDeltaEvent:
				for len(contents) <= ev.Index {
					contents = append(contents, Content{})
				}
				if contents[ev.Index].Type == "" {
					contents[ev.Index].Type = ev.Delta.Type
				}
				contents[ev.Index].Text += ev.Delta.Text

			case ErrorEvent:
				streamErr = &APIError{Code: ev.Code, Message: ev.Message, Err: ErrServer}
			}

		case err, ok := <-s.Err:
			if ok && err != nil {
				streamErr = err
			}
			// Continue draining Events even after error
		}
	}

checkErr:
	// Drain any remaining error
	select {
	case err, ok := <-s.Err:
		if ok && err != nil {
			streamErr = err
		}
	default:
	}

	if streamErr != nil {
		return nil, streamErr
	}

	if final == nil {
		final = &Interaction{Status: StatusCompleted}
	}
	if len(final.Contents) == 0 && len(contents) > 0 {
		final.Contents = contents
	}

	return final, nil
}
