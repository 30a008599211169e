// Package client is the consuming side of the audit API: a thin HTTP
// wrapper with transport-error classification, the runAudit orchestration,
// and the persistence calls.
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
	"time"
)

// Transport-level error kinds, assigned before a response ever reaches the
// orchestrator.
const (
	KindNetworkError = "network_error"
	KindTimeoutError = "timeout_error"
	KindAPIError     = "api_error"
)

// APIError is a classified failure from the audit API.
type APIError struct {
	Kind    string
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the Access Lens API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Hooks      Hooks
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &APIError{Kind: KindAPIError, Message: "Failed to encode request."}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return &APIError{Kind: KindAPIError, Message: "Failed to build request."}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return &APIError{Kind: KindAPIError, Message: "Failed to build request."}
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Kind: "invalid_response", Message: "Unexpected response from the audit service.", Status: resp.StatusCode}
	}
	return nil
}

// decodeAPIError reads the structured {error, message} body when present and
// falls back to a synthetic status-line error.
func decodeAPIError(status int, data []byte) *APIError {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		return &APIError{Kind: body.Error, Message: msg, Status: status}
	}
	return &APIError{
		Kind:    KindAPIError,
		Message: fmt.Sprintf("API Error: %d %s", status, http.StatusText(status)),
		Status:  status,
	}
}

// classifyTransportError maps pre-response failures: deadline and abort
// cases become timeout_error, everything else network_error.
func classifyTransportError(err error) *APIError {
	var uerr *url.Error
	timedOut := errors.As(err, &uerr) && uerr.Timeout()
	if timedOut || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &APIError{Kind: KindTimeoutError, Message: "The request timed out."}
	}
	return &APIError{Kind: KindNetworkError, Message: "Could not reach the audit service."}
}
