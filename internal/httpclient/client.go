package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ledgerbook/ledgerbook/internal/config"
	ierr "github.com/ledgerbook/ledgerbook/internal/errors"
)

// Request represents an HTTP request
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// Client interface for making HTTP requests
type Client interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// DefaultClient implements the Client interface on top of retryablehttp.
// RetryMax comes from config and defaults to zero, so there is no automatic
// retry unless a caller explicitly configures one.
type DefaultClient struct {
	client *retryablehttp.Client
}

// NewDefaultClient creates a new DefaultClient from the API configuration
func NewDefaultClient(cfg *config.Configuration) Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.API.RetryAttempts
	rc.HTTPClient.Timeout = cfg.API.Timeout
	rc.Logger = nil

	return &DefaultClient{
		client: rc,
	}
}

// Send makes an HTTP request and returns the response
func (c *DefaultClient) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrHTTPClient)
	}

	// JSON is the default; callers override the header for multipart
	// uploads so the writer's boundary survives
	if req.Body != nil {
		httpReq.ContentLength = int64(len(req.Body))
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// Set headers
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// Make request
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, markTransportError(err)
	}
	defer resp.Body.Close()

	// Read response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read the response body").
			Mark(ierr.ErrHTTPClient)
	}

	// Copy response headers
	headers := make(map[string]string)
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	// Return HTTP error for non-2xx responses
	if resp.StatusCode >= 400 {
		return nil, NewError(resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    headers,
	}, nil
}

// markTransportError distinguishes timeouts from other transport failures
// so callers can tell a slow backend from an unreachable one.
func markTransportError(err error) error {
	var urlErr *url.Error
	if ierr.As(err, &urlErr) && urlErr.Timeout() {
		return ierr.WithError(err).
			WithHint("The backend did not respond in time").
			Mark(ierr.ErrTimeout)
	}
	return ierr.WithError(err).
		WithHint("Failed to reach the backend").
		Mark(ierr.ErrHTTPClient)
}
