// Package client is the console-side HTTP client for the gateway admin API.
// It speaks the list wire shape tablesync consumes, retries idempotent reads
// with exponential backoff, and classifies failures for display.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"aigate/internal/tablesync"
)

// Client talks to one gateway admin API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New creates a client for the gateway at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer session token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// LoginResult mirrors the server's login response.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login authenticates and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", bytes.NewReader(body), &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// FetchPage retrieves one page of a collection. Filter values are rendered
// into query params; the committed search rides under "search" like any
// other filter.
func (c *Client) FetchPage(ctx context.Context, collection string, page, pageSize int, filters tablesync.Filters) (tablesync.Page[json.RawMessage], error) {
	vals := url.Values{}
	vals.Set("page", strconv.Itoa(page))
	vals.Set("pageSize", strconv.Itoa(pageSize))
	for k, v := range filters {
		if v == nil {
			continue
		}
		vals.Set(k, fmt.Sprint(v))
	}

	var result tablesync.Page[json.RawMessage]
	err := c.getWithRetry(ctx, "/api/v1/"+collection+"?"+vals.Encode(), &result)
	return result, err
}

// Fetcher adapts a collection to the controller's fetch contract.
func (c *Client) Fetcher(collection string) tablesync.FetchFunc[json.RawMessage] {
	return func(ctx context.Context, page, pageSize int, filters tablesync.Filters) (tablesync.Page[json.RawMessage], error) {
		return c.FetchPage(ctx, collection, page, pageSize, filters)
	}
}

// Dashboard retrieves today's gateway aggregates.
func (c *Client) Dashboard(ctx context.Context, out any) error {
	return c.getWithRetry(ctx, "/api/v1/dashboard", out)
}

// Create POSTs a new resource to a collection. Mutations are never retried.
func (c *Client) Create(ctx context.Context, collection string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/api/v1/"+collection, bytes.NewReader(body), out)
}

// Update PUTs a resource in a collection.
func (c *Client) Update(ctx context.Context, collection, id string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPut, "/api/v1/"+collection+"/"+id, bytes.NewReader(body), out)
}

// Delete removes a resource from a collection.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/"+collection+"/"+id, nil, nil)
}

// getWithRetry GETs with exponential backoff. Server errors and transport
// failures are retried; 4xx responses and context cancellation are not.
func (c *Client) getWithRetry(ctx context.Context, path string, out any) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = 10 * time.Second

	op := func() error {
		err := c.do(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(op, backoff.WithContext(policy, ctx))
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}
