package lumen

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumenlabs/lumen-go/core"
)

// Operation tracks a long-running server-side job (tuning, batches).
type Operation struct {
	Name string `json:"name"`
	Done bool   `json:"done"`

	// Metadata is service-specific progress information.
	Metadata json.RawMessage `json:"metadata,omitempty"`

	// Response is the operation result, present once Done and successful.
	Response json.RawMessage `json:"response,omitempty"`

	// Error is set once Done if the operation failed.
	Error *OperationError `json:"error,omitempty"`
}

// OperationError describes a failed operation.
type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Err converts a failed operation into an error, nil otherwise.
func (o *Operation) Err() error {
	if o.Error == nil {
		return nil
	}
	return &core.APIError{
		Status:  o.Error.Code,
		Code:    "operation_failed",
		Message: o.Error.Message,
		Err:     core.ErrServer,
	}
}

// GetOperation fetches an operation by resource name (e.g.
// "operations/op_abc123").
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	var out Operation
	if err := c.doJSON(ctx, http.MethodGet, "/v1/"+name, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitOperation polls an operation until it is done or ctx ends. A failed
// operation is returned together with its error.
func (c *Client) WaitOperation(ctx context.Context, name string, pollInterval time.Duration) (*Operation, error) {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	for {
		op, err := c.GetOperation(ctx, name)
		if err != nil {
			return nil, err
		}
		if op.Done {
			return op, op.Err()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// WaitOperations waits for several operations concurrently. The result
// slice is index-aligned with names. The first failure cancels the
// remaining waits and is returned.
func (c *Client) WaitOperations(ctx context.Context, names []string, pollInterval time.Duration) ([]*Operation, error) {
	ops := make([]*Operation, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			op, err := c.WaitOperation(ctx, name, pollInterval)
			if err != nil {
				return err
			}
			ops[i] = op
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ops, nil
}
