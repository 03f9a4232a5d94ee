package lumen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/lumenlabs/lumen-go/core"
	"github.com/lumenlabs/lumen-go/sse"
)

// streamReadSize is the transport read granularity. The SSE decoder is
// chunk-boundary invariant, so the size only affects syscall count.
const streamReadSize = 4096

// StreamInteraction runs an interaction and streams its typed events.
//
// The stream follows the core.InteractionStream channel rules. Consumption
// is pull-based: the producer goroutine blocks on the events channel, so an
// abandoned consumer is released by cancelling ctx, which also closes the
// response body.
func (c *Client) StreamInteraction(ctx context.Context, req *core.InteractionRequest) (*core.InteractionStream, error) {
	if err := validateInteraction(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, newDecodeError(err)
	}

	url := c.config.BaseURL + interactionsPath + "?alt=sse"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newNetworkError(err)
	}
	httpReq.Header = c.buildHeaders()
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, normalizeError(resp.StatusCode, respBody, resp.Header.Get("X-Request-Id"))
	}

	events := make(chan core.StreamEvent, 100)
	errCh := make(chan error, 1)

	go c.processSSEStream(ctx, resp.Body, events, errCh)

	return &core.InteractionStream{Events: events, Err: errCh}, nil
}

// processSSEStream reads the response body chunk by chunk, threads the SSE
// parser state through the reads, and emits classified events.
func (c *Client) processSSEStream(
	ctx context.Context,
	body io.ReadCloser,
	events chan<- core.StreamEvent,
	errCh chan<- error,
) {
	defer body.Close()
	defer close(events)
	defer close(errCh)

	st := sse.NewParserState()
	buf := make([]byte, streamReadSize)

	for {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			decoded, next, perr := sse.ParseChunk(buf[:n], st)
			if perr != nil {
				errCh <- newDecodeError(perr)
				return
			}
			st = next

			if stop := c.emitEvents(ctx, decoded, events, errCh); stop {
				return
			}
		}

		if err != nil {
			if err == io.EOF {
				c.emitEvents(ctx, sse.Finalize(st), events, errCh)
				return
			}
			errCh <- newNetworkError(err)
			return
		}
	}
}

// emitEvents classifies and forwards decoded events. It reports stop when
// the stream is logically finished ([DONE] sentinel or a done payload) or
// the consumer's context ended. Events with unknown discriminators are
// dropped.
func (c *Client) emitEvents(
	ctx context.Context,
	decoded []sse.Event,
	events chan<- core.StreamEvent,
	errCh chan<- error,
) (stop bool) {
	for _, ev := range decoded {
		if typed, ok := core.ClassifyEvent(ev.Data); ok {
			select {
			case events <- typed:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return true
			}
		}
		if sse.IsTerminal(ev) {
			return true
		}
	}
	return false
}
