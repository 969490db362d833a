package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const DefaultAuthUserHeader = "X-Auth-User-Id"

type UserOutput struct {
	ID uuid.UUID `json:"id"`
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta"`
}

// Response carries either the decoded body of a 2xx answer or the error
// envelope of any other status.
type Response[T any] struct {
	Status  int
	Header  http.Header
	Content *T
	Error   *ErrorResponse
}

type Client struct {
	baseURL string
	http    *http.Client
	headers http.Header
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		headers: http.Header{},
	}
}

// WithHeader returns a copy of c that sends header on every request.
func (c *Client) WithHeader(key, value string) *Client {
	clone := *c
	clone.headers = c.headers.Clone()
	clone.headers.Set(key, value)
	return &clone
}

// AsAuthUser returns a copy of c acting as the external identity authUserID.
func (c *Client) AsAuthUser(authUserID string) *Client {
	return c.WithHeader(DefaultAuthUserHeader, authUserID)
}

func (c *Client) CreateUser(ctx context.Context) (Response[UserOutput], error) {
	return doJSON[UserOutput](ctx, c, http.MethodPost, "/users/")
}

func (c *Client) ReadUser(ctx context.Context, id string) (Response[UserOutput], error) {
	return doJSON[UserOutput](ctx, c, http.MethodGet, "/users/"+id)
}

func (c *Client) Ping(ctx context.Context) (Response[string], error) {
	return doJSON[string](ctx, c, http.MethodGet, "/ping/")
}

func (c *Client) Liveness(ctx context.Context) (int, error) {
	return c.healthStatus(ctx, "/internal/alive")
}

func (c *Client) Readiness(ctx context.Context) (int, error) {
	return c.healthStatus(ctx, "/internal/ready")
}

func (c *Client) healthStatus(ctx context.Context, path string) (int, error) {
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func doJSON[T any](ctx context.Context, c *Client, method, path string) (Response[T], error) {
	resp, err := c.do(ctx, method, path)
	if err != nil {
		return Response[T]{}, err
	}
	defer resp.Body.Close()

	out := Response[T]{Status: resp.StatusCode, Header: resp.Header}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var content T
		if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
			return out, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
		out.Content = &content
		return out, nil
	}

	var envelope ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return out, fmt.Errorf("failed to decode %s %s error (status %d): %w", method, path, resp.StatusCode, err)
	}
	out.Error = &envelope
	return out, nil
}
