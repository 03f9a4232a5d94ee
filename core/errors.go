package core

import (
	"errors"
	"fmt"
)

// APIError represents an error returned by the Lumen API with full context.
type APIError struct {
	Status    int
	RequestID string
	Code      string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("lumen: %s (status=%d, code=%s, request_id=%s)",
			e.Message, e.Status, e.Code, e.RequestID)
	}
	return fmt.Sprintf("lumen: %s (status=%d, code=%s)", e.Message, e.Status, e.Code)
}

// Unwrap returns the underlying error for error chaining.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Sentinel errors for classification.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("decode error")
)

// Validation errors with actionable guidance.
var (
	ErrModelRequired = errors.New("model required: set InteractionRequest.Model, e.g. \"lumen-2-flash\"")
	ErrNoInput       = errors.New("no input: add at least one message to InteractionRequest.Input")
)
