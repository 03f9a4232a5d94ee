package lumen

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/lumenlabs/lumen-go/core"
)

const batchesPath = "/v1/batches"

// BatchState represents the lifecycle state of a batch.
type BatchState string

const (
	BatchStatePending   BatchState = "PENDING"
	BatchStateRunning   BatchState = "RUNNING"
	BatchStateSucceeded BatchState = "SUCCEEDED"
	BatchStateFailed    BatchState = "FAILED"
	BatchStateCancelled BatchState = "CANCELLED"
)

// Batch is an asynchronous bundle of interaction requests processed
// offline at a discount.
type Batch struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name,omitempty"`
	Model       string     `json:"model"`
	State       BatchState `json:"state"`
	CreateTime  string     `json:"create_time,omitempty"`
	UpdateTime  string     `json:"update_time,omitempty"`

	// InputFile names the uploaded file holding the request lines.
	InputFile string `json:"input_file,omitempty"`

	// OutputFile names the result file once the batch succeeds.
	OutputFile string `json:"output_file,omitempty"`

	// Operation names the long-running operation tracking this batch.
	Operation string `json:"operation,omitempty"`

	RequestCounts *BatchRequestCounts `json:"request_counts,omitempty"`
}

// BatchRequestCounts summarizes per-request progress within a batch.
type BatchRequestCounts struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// BatchRequest describes a batch to create.
type BatchRequest struct {
	// Model used for every request in the batch (required).
	Model string `json:"model"`

	// InputFile names an uploaded JSONL file of interaction requests
	// (required).
	InputFile string `json:"input_file"`

	// DisplayName is an optional human-readable name.
	DisplayName string `json:"display_name,omitempty"`
}

// CreateBatch submits a batch. An idempotency key is generated per call so
// a retried submission cannot create the batch twice.
func (c *Client) CreateBatch(ctx context.Context, req *BatchRequest) (*Batch, error) {
	if req == nil || req.Model == "" {
		return nil, core.ErrModelRequired
	}

	body := struct {
		*BatchRequest
		IdempotencyKey string `json:"idempotency_key"`
	}{BatchRequest: req, IdempotencyKey: uuid.NewString()}

	var out Batch
	if err := c.doJSON(ctx, http.MethodPost, batchesPath, body, &out, req.Model); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBatch fetches a batch by resource name.
func (c *Client) GetBatch(ctx context.Context, name string) (*Batch, error) {
	var out Batch
	if err := c.doJSON(ctx, http.MethodGet, "/v1/"+name, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchList is one page of batches.
type BatchList struct {
	Batches       []Batch `json:"batches"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

// ListBatches returns a page of batches.
func (c *Client) ListBatches(ctx context.Context, pageSize int, pageToken string) (*BatchList, error) {
	q := url.Values{}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	path := batchesPath
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out BatchList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelBatch asks the server to stop a pending or running batch.
func (c *Client) CancelBatch(ctx context.Context, name string) (*Batch, error) {
	var out Batch
	if err := c.doJSON(ctx, http.MethodPost, "/v1/"+name+":cancel", nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}
