// Package marking is the HTTP client for the external essay marking service.
// Every call is a single POST; there is no retry, caching or batching.
package marking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const evaluatePath = "/api/public/evaluate"

// Config is built once at startup and handed to New.
type Config struct {
	BaseURL string
	// APIKey is sent as x-api-key. Empty means unauthenticated calls.
	APIKey string
	// Timeout of 0 keeps the transport default (no client timeout).
	Timeout time.Duration
	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
}

func New(cfg Config) *Client {
	h := cfg.HTTPClient
	if h == nil {
		h = &http.Client{}
	}
	if cfg.Timeout > 0 {
		cp := *h
		cp.Timeout = cfg.Timeout
		h = &cp
	}
	return &Client{
		http:     h,
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + evaluatePath,
		apiKey:   cfg.APIKey,
	}
}

// Authenticated reports whether calls carry an API key.
func (c *Client) Authenticated() bool { return c.apiKey != "" }

// Evaluate sends one essay to the marking service.
func (c *Client) Evaluate(ctx context.Context, in Request) (Response, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return Response{}, fmt.Errorf("encode evaluate request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Response{}, &TransportError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		b, err := io.ReadAll(res.Body)
		if err != nil {
			b = nil
		}
		return Response{}, &RemoteEvaluationError{StatusCode: res.StatusCode, Body: string(b)}
	}
	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Response{}, &TransportError{Err: fmt.Errorf("decode evaluate response: %w", err)}
	}
	return out, nil
}
