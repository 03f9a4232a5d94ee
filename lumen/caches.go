package lumen

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lumenlabs/lumen-go/core"
)

const cachesPath = "/v1/caches"

// Cache is server-side cached context that interactions can reference by
// name instead of resending the same prefix.
type Cache struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Model       string `json:"model"`
	TokenCount  int    `json:"token_count,omitempty"`
	CreateTime  string `json:"create_time,omitempty"`
	UpdateTime  string `json:"update_time,omitempty"`
	ExpireTime  string `json:"expire_time,omitempty"`
}

// CacheCreateRequest describes a content cache to create.
type CacheCreateRequest struct {
	// Model the cache is bound to (required).
	Model string `json:"model"`

	// Input is the conversation prefix to cache (required).
	Input []core.Message `json:"input"`

	// DisplayName is an optional human-readable name.
	DisplayName string `json:"display_name,omitempty"`

	// TTL is the time-to-live, e.g. "3600s". Empty uses the server default.
	TTL string `json:"ttl,omitempty"`
}

// CreateCache creates a content cache.
func (c *Client) CreateCache(ctx context.Context, req *CacheCreateRequest) (*Cache, error) {
	if req == nil || req.Model == "" {
		return nil, core.ErrModelRequired
	}

	var out Cache
	if err := c.doJSON(ctx, http.MethodPost, cachesPath, req, &out, req.Model); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCache fetches a cache by resource name (e.g. "caches/abc123").
func (c *Client) GetCache(ctx context.Context, name string) (*Cache, error) {
	var out Cache
	if err := c.doJSON(ctx, http.MethodGet, "/v1/"+name, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// CacheList is one page of caches.
type CacheList struct {
	Caches        []Cache `json:"caches"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

// ListCaches returns a page of content caches.
func (c *Client) ListCaches(ctx context.Context, pageSize int, pageToken string) (*CacheList, error) {
	q := url.Values{}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	path := cachesPath
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out CacheList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCache changes a cache's TTL.
func (c *Client) UpdateCache(ctx context.Context, name, ttl string) (*Cache, error) {
	body := struct {
		TTL string `json:"ttl"`
	}{TTL: ttl}

	var out Cache
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/"+name, body, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCache removes a content cache by resource name.
func (c *Client) DeleteCache(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/"+name, nil, nil, "")
}
