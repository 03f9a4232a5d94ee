package lumen

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lumenlabs/lumen-go/core"
)

const tuningPath = "/v1/tuning/jobs"

// TuningState represents the lifecycle state of a tuning job.
type TuningState string

const (
	TuningStateQueued    TuningState = "QUEUED"
	TuningStateRunning   TuningState = "RUNNING"
	TuningStateSucceeded TuningState = "SUCCEEDED"
	TuningStateFailed    TuningState = "FAILED"
	TuningStateCancelled TuningState = "CANCELLED"
)

// TuningJob is a fine-tuning run producing a tuned model.
type TuningJob struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name,omitempty"`
	BaseModel   string      `json:"base_model"`
	TunedModel  string      `json:"tuned_model,omitempty"`
	State       TuningState `json:"state"`
	CreateTime  string      `json:"create_time,omitempty"`
	UpdateTime  string      `json:"update_time,omitempty"`

	// Operation names the long-running operation tracking this job.
	Operation string `json:"operation,omitempty"`
}

// TuningHyperparameters tune the training run. Zero values use server
// defaults.
type TuningHyperparameters struct {
	EpochCount       int     `json:"epoch_count,omitempty"`
	BatchSize        int     `json:"batch_size,omitempty"`
	LearningRateMult float64 `json:"learning_rate_multiplier,omitempty"`
}

// TuningJobRequest describes a tuning job to create.
type TuningJobRequest struct {
	// BaseModel is the model to tune (required).
	BaseModel string `json:"base_model"`

	// TrainingFile names an uploaded file with training examples (required).
	TrainingFile string `json:"training_file"`

	// DisplayName is an optional human-readable name.
	DisplayName string `json:"display_name,omitempty"`

	Hyperparameters *TuningHyperparameters `json:"hyperparameters,omitempty"`
}

// CreateTuningJob starts a fine-tuning run. The returned job carries the
// operation name to poll via [Client.WaitOperation].
func (c *Client) CreateTuningJob(ctx context.Context, req *TuningJobRequest) (*TuningJob, error) {
	if req == nil || req.BaseModel == "" {
		return nil, core.ErrModelRequired
	}

	var out TuningJob
	if err := c.doJSON(ctx, http.MethodPost, tuningPath, req, &out, req.BaseModel); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTuningJob fetches a tuning job by resource name.
func (c *Client) GetTuningJob(ctx context.Context, name string) (*TuningJob, error) {
	var out TuningJob
	if err := c.doJSON(ctx, http.MethodGet, "/v1/"+name, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// TuningJobList is one page of tuning jobs.
type TuningJobList struct {
	Jobs          []TuningJob `json:"jobs"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// ListTuningJobs returns a page of tuning jobs.
func (c *Client) ListTuningJobs(ctx context.Context, pageSize int, pageToken string) (*TuningJobList, error) {
	q := url.Values{}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	path := tuningPath
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out TuningJobList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelTuningJob asks the server to stop a queued or running job.
func (c *Client) CancelTuningJob(ctx context.Context, name string) (*TuningJob, error) {
	var out TuningJob
	if err := c.doJSON(ctx, http.MethodPost, "/v1/"+name+":cancel", nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}
