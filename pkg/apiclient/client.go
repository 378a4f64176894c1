// Package apiclient is a typed HTTP client for the DevOps Agent API. It is
// used by the frontend and by the server round-trip tests.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 30 * time.Second

// Error is an API error response together with its HTTP status.
type Error struct {
	StatusCode       int    `json:"-"`
	Code             string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func (e *Error) Error() string {
	if e.ErrorDescription == "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Code, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.ErrorDescription, e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	sessionToken string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithSessionToken presets the bearer token used on protected routes.
func WithSessionToken(token string) Option {
	return func(c *Client) {
		c.sessionToken = token
	}
}

func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// SetSessionToken replaces the bearer token, e.g. after a login or refresh.
func (c *Client) SetSessionToken(token string) {
	c.sessionToken = token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, into any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding the request body: %w", err)
		}

		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("creating an HTTP request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("doing an HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{StatusCode: resp.StatusCode, Code: "unknown"}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)

		return apiErr
	}

	if into == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decoding the response body: %w", err)
	}

	return nil
}
