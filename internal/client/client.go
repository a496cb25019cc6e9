// Package client calls the API key routes over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nlpengine/internal/model"
)

const DefaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, including its timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]model.APIKey, error) {
	var keys []model.APIKey
	err := c.do(ctx, http.MethodGet, "/api/api-keys", nil, &keys, "Failed to fetch API keys")
	return keys, err
}

func (c *Client) Create(ctx context.Context, req model.APIKeyRequest) (*model.APIKey, error) {
	var key model.APIKey
	if err := c.do(ctx, http.MethodPost, "/api/api-keys", req, &key, "Failed to add API key"); err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *Client) Update(ctx context.Context, id string, req model.APIKeyRequest) (*model.APIKey, error) {
	var key model.APIKey
	if err := c.do(ctx, http.MethodPut, "/api/api-keys/"+url.PathEscape(id), req, &key, "Failed to update API key"); err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/api-keys/"+url.PathEscape(id), nil, nil, "Failed to delete API key")
}

func (c *Client) Test(ctx context.Context, id string) (*model.TestResult, error) {
	var result model.TestResult
	body := map[string]string{"id": id}
	if err := c.do(ctx, http.MethodPost, "/api/api-keys/test", body, &result, "Failed to test API key"); err != nil {
		return nil, err
	}
	return &result, nil
}

// do sends one request. A non-2xx response becomes an *APIError carrying the
// server's "error" field, or fallback when the body has none.
func (c *Client) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
