// Package lumen provides the HTTP client for the Lumen generative-AI API.
//
// The client covers the interaction endpoints (one-shot and streaming) and
// the resource services around them: files, content caches, tuning jobs,
// batches, and long-running operations.
//
//	client := lumen.New(os.Getenv("LUMEN_API_KEY"))
//	stream, err := client.StreamInteraction(ctx, &core.InteractionRequest{
//	    Model: "lumen-2-flash",
//	    Input: []core.Message{{Role: core.RoleUser, Content: "Hello"}},
//	})
package lumen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlabs/lumen-go/core"
)

// Client is the Lumen API client. Client is safe for concurrent use.
type Client struct {
	config Config
}

// New creates a new Lumen client with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	cfg := Config{
		APIKey:     core.NewSecret(apiKey),
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
		Retry:      core.DefaultRetryPolicy(),
		Telemetry:  core.NoopTelemetryHook{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{config: cfg}
}

// buildHeaders constructs the HTTP headers for an API request.
func (c *Client) buildHeaders() http.Header {
	headers := make(http.Header)

	headers.Set("x-lumen-api-key", c.config.APIKey.Expose())
	headers.Set("Content-Type", "application/json")
	headers.Set("X-Request-Id", uuid.NewString())

	// Copy any extra headers
	for key, values := range c.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// doJSON performs a request with a JSON body (nil for none), decodes the
// JSON response into out (nil to discard), and retries per the configured
// policy. The model is only used for telemetry and may be empty.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, model string) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return newDecodeError(err)
		}
	}

	attempt := 0
	for {
		err := c.doJSONOnce(ctx, method, path, body, out, model)
		if err == nil {
			return nil
		}

		delay, ok := c.config.Retry.NextDelay(attempt, err)
		if !ok {
			return err
		}
		attempt++

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *Client) doJSONOnce(ctx context.Context, method, path string, body []byte, out any, model string) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return newNetworkError(err)
	}
	httpReq.Header = c.buildHeaders()

	start := time.Now()
	c.config.Telemetry.OnRequestStart(core.RequestStartEvent{
		Endpoint: path,
		Model:    model,
		Start:    start,
	})

	var usage core.TokenUsage
	reqErr := func() error {
		resp, err := c.config.HTTPClient.Do(httpReq)
		if err != nil {
			return newNetworkError(err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return newNetworkError(err)
		}
		if resp.StatusCode >= 400 {
			return normalizeError(resp.StatusCode, respBody, resp.Header.Get("X-Request-Id"))
		}
		if u := usageFromBody(respBody); u != nil {
			usage = *u
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return newDecodeError(err)
		}
		return nil
	}()

	c.config.Telemetry.OnRequestEnd(core.RequestEndEvent{
		Endpoint: path,
		Model:    model,
		Start:    start,
		End:      time.Now(),
		Usage:    usage,
		Err:      reqErr,
	})

	return reqErr
}

// usageFromBody probes a response body for the usage envelope interaction
// responses carry. Resource responses have none; the probe reports nil.
func usageFromBody(body []byte) *core.TokenUsage {
	var envelope struct {
		Usage *core.TokenUsage `json:"usage"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Usage
}
