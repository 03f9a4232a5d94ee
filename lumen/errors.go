package lumen

import (
	"encoding/json"
	"net/http"

	"github.com/lumenlabs/lumen-go/core"
)

// apiErrorResponse is the error envelope returned by the Lumen API:
// {"error":{"code":"...","message":"...","status":"..."}}
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// normalizeError converts an HTTP error response to an APIError with the
// appropriate sentinel.
func normalizeError(status int, body []byte, requestID string) error {
	var errResp apiErrorResponse
	_ = json.Unmarshal(body, &errResp)

	message := errResp.Error.Message
	if message == "" {
		message = http.StatusText(status)
	}

	code := errResp.Error.Code
	if code == "" {
		code = errResp.Error.Status
	}
	if code == "" {
		code = "unknown_error"
	}

	return &core.APIError{
		Status:    status,
		RequestID: requestID,
		Code:      code,
		Message:   message,
		Err:       sentinelForStatus(status),
	}
}

// sentinelForStatus maps an HTTP status code to a core sentinel error.
func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return core.ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	default:
		return core.ErrServer
	}
}

// newNetworkError creates an APIError for network-related failures.
func newNetworkError(err error) error {
	return &core.APIError{Message: err.Error(), Err: core.ErrNetwork}
}

// newDecodeError creates an APIError for JSON decode failures.
func newDecodeError(err error) error {
	return &core.APIError{Message: err.Error(), Err: core.ErrDecode}
}
