// Package client provides an HTTP client for the prospect tracker API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evcraddock/prospect-tracker/internal/prospect"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is an HTTP client for the prospect tracker API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Health checks that the server is up and its database reachable.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("server status %q", resp.Status)
	}
	return nil
}

// ListProspects returns prospects matching opts.
func (c *Client) ListProspects(ctx context.Context, opts prospect.ListOptions) ([]*prospect.Prospect, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", string(opts.Status))
	}
	if opts.BusinessType != "" {
		params.Set("business_type", opts.BusinessType)
	}
	if opts.Location != "" {
		params.Set("location", opts.Location)
	}
	if opts.SortBy != "" {
		params.Set("sort_by", opts.SortBy)
	}
	if opts.SortOrder != "" {
		params.Set("sort_order", opts.SortOrder)
	}

	path := "/api/prospects"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var props []*prospect.Prospect
	if err := c.get(ctx, path, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetProspect returns a single prospect.
func (c *Client) GetProspect(ctx context.Context, id int64) (*prospect.Prospect, error) {
	var p prospect.Prospect
	if err := c.get(ctx, fmt.Sprintf("/api/prospects/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProspect adds a prospect.
func (c *Client) CreateProspect(ctx context.Context, in prospect.NewProspect) (*prospect.Prospect, error) {
	var p prospect.Prospect
	if err := c.send(ctx, http.MethodPost, "/api/prospects", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProspect applies a partial update.
func (c *Client) UpdateProspect(ctx context.Context, id int64, patch prospect.Patch) (*prospect.Prospect, error) {
	var p prospect.Prospect
	if err := c.send(ctx, http.MethodPatch, fmt.Sprintf("/api/prospects/%d", id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProspect removes a prospect and its activity log.
func (c *Client) DeleteProspect(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/prospects/%d", id), nil, nil)
}

// LogContact records a contact made today. A nil nextFollowup clears the
// follow-up date.
func (c *Client) LogContact(ctx context.Context, id int64, note string, nextFollowup *string) (*prospect.Prospect, error) {
	body := struct {
		Note         string  `json:"note"`
		NextFollowup *string `json:"next_followup"`
	}{Note: note, NextFollowup: nextFollowup}

	var p prospect.Prospect
	if err := c.send(ctx, http.MethodPost, fmt.Sprintf("/api/prospects/%d/log-contact", id), body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ActivityLog returns a prospect's activity entries, newest first.
func (c *Client) ActivityLog(ctx context.Context, id int64) ([]*prospect.ActivityLogEntry, error) {
	var entries []*prospect.ActivityLogEntry
	if err := c.get(ctx, fmt.Sprintf("/api/prospects/%d/activity", id), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats returns the pipeline summary.
func (c *Client) Stats(ctx context.Context) (*prospect.Stats, error) {
	var st prospect.Stats
	if err := c.get(ctx, "/api/prospects/stats", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// FilterOptions returns the distinct values in use.
func (c *Client) FilterOptions(ctx context.Context) (*prospect.FilterOptions, error) {
	var opts prospect.FilterOptions
	if err := c.get(ctx, "/api/prospects/filters", &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.send(ctx, http.MethodGet, path, nil, result)
}

// send performs a request with an optional JSON body and decodes the response.
func (c *Client) send(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := fmt.Sprintf("server error: %s", http.StatusText(resp.StatusCode))
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
