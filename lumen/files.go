package lumen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	filesPath       = "/v1/files"
	filesUploadPath = "/upload/v1/files"
)

// File-specific error sentinels.
var (
	// ErrFileProcessing indicates the file is still being processed.
	ErrFileProcessing = errors.New("file is still processing")

	// ErrFileFailed indicates file processing failed.
	ErrFileFailed = errors.New("file processing failed")
)

// FileState represents the processing state of a file.
type FileState string

const (
	// FileStateProcessing indicates the file is being processed.
	FileStateProcessing FileState = "PROCESSING"
	// FileStateActive indicates the file is ready for use.
	FileStateActive FileState = "ACTIVE"
	// FileStateFailed indicates processing failed.
	FileStateFailed FileState = "FAILED"
)

// File represents a file uploaded to the Lumen API.
type File struct {
	Name           string     `json:"name"`
	DisplayName    string     `json:"display_name,omitempty"`
	MimeType       string     `json:"mime_type"`
	SizeBytes      string     `json:"size_bytes,omitempty"`
	CreateTime     string     `json:"create_time,omitempty"`
	ExpirationTime string     `json:"expiration_time,omitempty"`
	SHA256Hash     string     `json:"sha256_hash,omitempty"`
	URI            string     `json:"uri,omitempty"`
	State          FileState  `json:"state"`
	Error          *FileError `json:"error,omitempty"`
}

// FileError contains error details if processing failed.
type FileError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// FileUploadRequest describes a file to upload.
type FileUploadRequest struct {
	// File is the content to upload (required).
	File io.Reader
	// MimeType is the content type (required).
	MimeType string
	// DisplayName is an optional human-readable name.
	DisplayName string
}

// fileUploadMetadata is the body of the upload-start request.
type fileUploadMetadata struct {
	File struct {
		DisplayName string `json:"display_name,omitempty"`
	} `json:"file"`
}

// fileUploadResponse wraps the uploaded file in the finalize response.
type fileUploadResponse struct {
	File File `json:"file"`
}

// UploadFile uploads a file using the two-step resumable upload protocol:
// an initiation request returns an upload URL, and the content goes there.
func (c *Client) UploadFile(ctx context.Context, req *FileUploadRequest) (*File, error) {
	uploadURL, err := c.initiateResumableUpload(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.uploadFileContent(ctx, uploadURL, req)
}

func (c *Client) initiateResumableUpload(ctx context.Context, req *FileUploadRequest) (string, error) {
	metadata := fileUploadMetadata{}
	metadata.File.DisplayName = req.DisplayName

	body, err := json.Marshal(metadata)
	if err != nil {
		return "", newDecodeError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+filesUploadPath, bytes.NewReader(body))
	if err != nil {
		return "", newNetworkError(err)
	}
	httpReq.Header = c.buildHeaders()
	httpReq.Header.Set("X-Upload-Protocol", "resumable")
	httpReq.Header.Set("X-Upload-Command", "start")
	if req.MimeType != "" {
		httpReq.Header.Set("X-Upload-Content-Type", req.MimeType)
	}

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return "", newNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", normalizeError(resp.StatusCode, respBody, resp.Header.Get("X-Request-Id"))
	}

	uploadURL := resp.Header.Get("X-Upload-URL")
	if uploadURL == "" {
		return "", newDecodeError(errors.New("no upload URL in response headers"))
	}
	return uploadURL, nil
}

func (c *Client) uploadFileContent(ctx context.Context, uploadURL string, req *FileUploadRequest) (*File, error) {
	content, err := io.ReadAll(req.File)
	if err != nil {
		return nil, newNetworkError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(content))
	if err != nil {
		return nil, newNetworkError(err)
	}
	httpReq.Header.Set("X-Upload-Offset", "0")
	httpReq.Header.Set("X-Upload-Command", "upload, finalize")

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, normalizeError(resp.StatusCode, respBody, resp.Header.Get("X-Request-Id"))
	}

	var out fileUploadResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, newDecodeError(err)
	}
	return &out.File, nil
}

// GetFile fetches file metadata by resource name (e.g. "files/abc123").
func (c *Client) GetFile(ctx context.Context, name string) (*File, error) {
	var out File
	if err := c.doJSON(ctx, http.MethodGet, "/v1/"+name, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// FileList is one page of files.
type FileList struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// ListFiles returns a page of uploaded files. pageToken is empty for the
// first page; pageSize 0 uses the server default.
func (c *Client) ListFiles(ctx context.Context, pageSize int, pageToken string) (*FileList, error) {
	q := url.Values{}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	path := filesPath
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out FileList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFile removes an uploaded file by resource name.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/"+name, nil, nil, "")
}

// WaitForFile polls until the file leaves the PROCESSING state or ctx ends.
// Returns ErrFileFailed if processing failed.
func (c *Client) WaitForFile(ctx context.Context, name string, pollInterval time.Duration) (*File, error) {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	for {
		file, err := c.GetFile(ctx, name)
		if err != nil {
			return nil, err
		}
		switch file.State {
		case FileStateActive:
			return file, nil
		case FileStateFailed:
			return file, ErrFileFailed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
