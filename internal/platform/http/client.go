package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"macrosig/internal/apperr"
)

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 12 * time.Second

// Client is a wrapper for HTTP client with rate limiting. Every request is
// bounded by the client timeout and the caller's context, whichever fires
// first, and is never retried.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// ClientOptions holds options for creating a new Client.
type ClientOptions struct {
	Timeout        time.Duration
	RequestsPerSec int
}

// NewClient creates a new HTTP client with rate limiting.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}

	return &Client{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Every(time.Second), opts.RequestsPerSec),
		timeout:    opts.Timeout,
	}
}

// GetJSON performs one GET request and decodes the response body into out.
// Failures normalize to *apperr.AppError: a non-2xx status becomes
// HTTP_NOT_OK carrying the upstream status, any transport failure
// (network down, DNS, timeout, cancellation) becomes HTTP_FETCH_FAILED,
// and an undecodable body becomes BAD_UPSTREAM_SHAPE.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.New(0, apperr.CodeHTTPFetchFailed, fmt.Sprintf("request canceled: %v", err)).
			WithDetail("url", url)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return apperr.New(0, apperr.CodeHTTPFetchFailed, fmt.Sprintf("creating request: %v", err)).
			WithDetail("url", url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.New(0, apperr.CodeHTTPFetchFailed, fmt.Sprintf("request failed: %v", err)).
			WithDetail("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apperr.New(resp.StatusCode, apperr.CodeHTTPNotOK,
			fmt.Sprintf("upstream returned status %d", resp.StatusCode)).
			WithDetail("url", url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.New(0, apperr.CodeHTTPFetchFailed, fmt.Sprintf("reading response body: %v", err)).
			WithDetail("url", url)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.New(0, apperr.CodeBadUpstreamShape, fmt.Sprintf("parsing JSON: %v", err)).
			WithDetail("url", url)
	}

	return nil
}
