package lumen

import (
	"net/http"
	"time"

	"github.com/lumenlabs/lumen-go/core"
)

// Config holds configuration for the Lumen client.
type Config struct {
	// APIKey is the Lumen API key (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to https://api.lumen.dev
	BaseURL string

	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Timeout is the optional per-request timeout. It is not applied to
	// streaming requests, whose lifetime is governed by the caller's context.
	Timeout time.Duration

	// Retry is the retry policy for non-streaming requests.
	// Defaults to core.DefaultRetryPolicy().
	Retry core.RetryPolicy

	// Telemetry receives request lifecycle events.
	Telemetry core.TelemetryHook
}

// DefaultBaseURL is the default Lumen API base URL.
const DefaultBaseURL = "https://api.lumen.dev"

// Option configures the Lumen client.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithRetryPolicy sets the retry policy for non-streaming requests.
func WithRetryPolicy(p core.RetryPolicy) Option {
	return func(c *Config) {
		if p != nil {
			c.Retry = p
		}
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h core.TelemetryHook) Option {
	return func(c *Config) {
		if h != nil {
			c.Telemetry = h
		}
	}
}
