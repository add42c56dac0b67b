// Package httpx is the single outbound HTTP gateway for the client. Every
// request goes through it: the bearer token is attached when present, a fixed
// timeout is applied, and every failure is routed through apperr.Normalize so
// callers only ever observe *apperr.AppError.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mbelkin/geoauth/internal/apperr"
	"github.com/mbelkin/geoauth/internal/client/token"
)

// RequestTimeout is the default bound on every outgoing request. Requests
// exceeding it fail as a timeout-class AppError. No automatic retry.
const RequestTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response body is retained for
// envelope extraction.
const maxErrorBody = 64 << 10

// Client is the outbound gateway. Construct with New; the zero value is not
// usable.
type Client struct {
	baseURL string
	tokens  *token.Store
	http    *http.Client
}

// New returns a Client for the given API base URL. Trailing slashes on the
// base URL are stripped so path joining stays predictable. A timeout <= 0
// selects RequestTimeout.
func New(baseURL string, tokens *token.Store, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
	}
}

// Get issues a GET request and decodes the 2xx response body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the 2xx response
// body into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Delete issues a DELETE request with a JSON body and decodes the 2xx
// response body into out.
func (c *Client) Delete(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperr.Normalize(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Normalize(fmt.Errorf("build request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// The token read and the header attach are back to back on purpose:
	// nothing may mutate the store between them within one request.
	if tok := c.tokens.Get(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Normalize(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperr.Normalize(&apperr.ResponseError{
			Status: resp.StatusCode,
			Body:   data,
			Method: method,
			Path:   path,
		})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Normalize(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
