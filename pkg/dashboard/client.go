// Package dashboard is the Go client for the Brooklin Pub admin API. It keeps
// the session cookie in a jar, normalizes API error bodies, and carries the
// client-side lifecycle logic the admin dashboard is built on.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

// Client is an HTTP client for the admin API. All requests share one cookie
// jar, so a login performed through the client authenticates every later call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL, for example
// "https://admin.thebrooklinpub.com/api/v1".
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
	}, nil
}

// APIError is a non-2xx response decoded into a single message. When the
// server returned a list of validation messages they are joined with ". ".
type APIError struct {
	Status  int
	Message string
	ErrorID string
}

func (e *APIError) Error() string {
	return e.Message
}

type errorBody struct {
	Message json.RawMessage `json:"message"`
	ErrorID string          `json:"errorId"`
}

// normalizeError turns a response body into an APIError. The message field
// may hold one string or a list of strings; anything else falls back to a
// generic message.
func normalizeError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: fmt.Sprintf("request failed with status %d", status),
	}

	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return apiErr
	}
	apiErr.ErrorID = decoded.ErrorID

	var single string
	if err := json.Unmarshal(decoded.Message, &single); err == nil && single != "" {
		apiErr.Message = single
		return apiErr
	}

	var many []string
	if err := json.Unmarshal(decoded.Message, &many); err == nil && len(many) > 0 {
		apiErr.Message = strings.Join(many, ". ")
		return apiErr
	}

	return apiErr
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) patch(ctx context.Context, path string, payload, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, payload, out)
}

func (c *Client) put(ctx context.Context, path string, payload, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
