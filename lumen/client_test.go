package lumen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/lumenlabs/lumen-go/core"
)

// noRetry is a retry policy that never retries.
type noRetry struct{}

func (noRetry) NextDelay(int, error) (time.Duration, bool) { return 0, false }

// recordingHook captures telemetry events for assertions.
type recordingHook struct {
	mu     sync.Mutex
	starts []core.RequestStartEvent
	ends   []core.RequestEndEvent
}

func (h *recordingHook) OnRequestStart(e core.RequestStartEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, e)
}

func (h *recordingHook) OnRequestEnd(e core.RequestEndEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ends = append(h.ends, e)
}

func TestClientHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"id":"int_1"}`))
	}))
	defer server.Close()

	client := New("test-key",
		WithBaseURL(server.URL),
		WithHeader("X-Client-Tag", "unit-test"),
	)

	_, err := client.CreateInteraction(context.Background(), streamRequest())
	if err != nil {
		t.Fatalf("CreateInteraction() error = %v", err)
	}

	if got.Get("x-lumen-api-key") != "test-key" {
		t.Errorf("x-lumen-api-key = %q, want test-key", got.Get("x-lumen-api-key"))
	}
	if got.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got.Get("Content-Type"))
	}
	if got.Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header missing")
	}
	if got.Get("X-Client-Tag") != "unit-test" {
		t.Errorf("X-Client-Tag = %q, want unit-test", got.Get("X-Client-Tag"))
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"int_1","status":"completed"}`))
	}))
	defer server.Close()

	client := New("test-key",
		WithBaseURL(server.URL),
		WithRetryPolicy(core.NewRetryPolicy(core.RetryConfig{
			MaxRetries: 3,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
			Jitter:     0,
		})),
	)

	got, err := client.CreateInteraction(context.Background(), streamRequest())
	if err != nil {
		t.Fatalf("CreateInteraction() error = %v", err)
	}
	if got.ID != "int_1" {
		t.Errorf("ID = %q, want int_1", got.ID)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestClientDoesNotRetryBadRequest(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"invalid_request","message":"bad"}}`))
	}))
	defer server.Close()

	client := New("test-key", WithBaseURL(server.URL))

	_, err := client.CreateInteraction(context.Background(), streamRequest())
	if !errors.Is(err, core.ErrBadRequest) {
		t.Fatalf("error = %v, want ErrBadRequest", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries)", calls)
	}
}

func TestClientTelemetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"int_1","usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`))
	}))
	defer server.Close()

	hook := &recordingHook{}
	client := New("test-key", WithBaseURL(server.URL), WithTelemetry(hook))

	if _, err := client.CreateInteraction(context.Background(), streamRequest()); err != nil {
		t.Fatalf("CreateInteraction() error = %v", err)
	}

	if len(hook.starts) != 1 || len(hook.ends) != 1 {
		t.Fatalf("telemetry events = %d/%d, want 1/1", len(hook.starts), len(hook.ends))
	}
	if hook.starts[0].Endpoint != interactionsPath {
		t.Errorf("Endpoint = %q, want %q", hook.starts[0].Endpoint, interactionsPath)
	}
	if hook.starts[0].Model != "lumen-2-flash" {
		t.Errorf("Model = %q, want lumen-2-flash", hook.starts[0].Model)
	}
	if hook.ends[0].Err != nil {
		t.Errorf("end event Err = %v, want nil", hook.ends[0].Err)
	}
	if hook.ends[0].Duration() < 0 {
		t.Errorf("Duration() = %v, want >= 0", hook.ends[0].Duration())
	}
	if got := hook.ends[0].Usage; got.PromptTokens != 3 || got.CompletionTokens != 4 || got.TotalTokens != 7 {
		t.Errorf("Usage = %+v, want 3/4/7", got)
	}
}

func TestClientTelemetryNoUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"files/abc","state":"ACTIVE"}`))
	}))
	defer server.Close()

	hook := &recordingHook{}
	client := New("test-key", WithBaseURL(server.URL), WithTelemetry(hook))

	if _, err := client.GetFile(context.Background(), "files/abc"); err != nil {
		t.Fatalf("GetFile() error = %v", err)
	}

	if len(hook.ends) != 1 {
		t.Fatalf("end events = %d, want 1", len(hook.ends))
	}
	if got := hook.ends[0].Usage; got != (core.TokenUsage{}) {
		t.Errorf("Usage = %+v, want zero value", got)
	}
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"id":"int_1"}`))
	}))
	defer server.Close()

	client := New("test-key",
		WithBaseURL(server.URL),
		WithTimeout(20*time.Millisecond),
		WithRetryPolicy(noRetry{}),
	)

	_, err := client.CreateInteraction(context.Background(), streamRequest())
	if err == nil {
		t.Fatal("CreateInteraction() error = nil, want timeout")
	}
}
