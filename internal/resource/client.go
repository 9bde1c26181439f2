package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/ledgerbook/ledgerbook/internal/auth"
	"github.com/ledgerbook/ledgerbook/internal/cache"
	"github.com/ledgerbook/ledgerbook/internal/config"
	ierr "github.com/ledgerbook/ledgerbook/internal/errors"
	"github.com/ledgerbook/ledgerbook/internal/httpclient"
	"github.com/ledgerbook/ledgerbook/internal/logger"
	"github.com/ledgerbook/ledgerbook/internal/types"
)

// Client is the uniform CRUD surface over named backend collections, with a
// TTL cache in front of reads. Writes invalidate the whole cache, trading
// hit rate for the guarantee that no read after a write is stale.
type Client interface {
	// Read returns the cached payload for the key derived from collection,
	// id and params when one is still valid, otherwise performs a GET and
	// caches the successful response. Errors propagate unchanged and are
	// never cached, so a failed read leaves the key absent and the next
	// call hits the network again.
	Read(ctx context.Context, collection string, id string, params map[string]string) (json.RawMessage, error)

	Create(ctx context.Context, collection string, data any) (json.RawMessage, error)
	Update(ctx context.Context, collection string, id string, data any) (json.RawMessage, error)
	Delete(ctx context.Context, collection string, id string) (json.RawMessage, error)

	BulkCreate(ctx context.Context, collection string, data any) (json.RawMessage, error)
	BulkUpdate(ctx context.Context, collection string, data any) (json.RawMessage, error)
	BulkDelete(ctx context.Context, collection string, data any) (json.RawMessage, error)

	// Upload posts a file as multipart form data. The Content-Type header
	// is produced by the multipart writer so the boundary stays intact.
	Upload(ctx context.Context, collection string, field string, filename string, content []byte) (json.RawMessage, error)
}

type client struct {
	http   httpclient.Client
	cache  cache.Cache
	tokens auth.TokenSource
	cfg    *config.Configuration
	logger *logger.Logger
}

// NewClient creates a resource client. tokens may be nil for backends that
// do not require authentication.
func NewClient(
	cfg *config.Configuration,
	http httpclient.Client,
	cache cache.Cache,
	tokens auth.TokenSource,
	log *logger.Logger,
) Client {
	return &client{
		http:   http,
		cache:  cache,
		tokens: tokens,
		cfg:    cfg,
		logger: log,
	}
}

func (c *client) Read(ctx context.Context, collection string, id string, params map[string]string) (json.RawMessage, error) {
	key := cache.GenerateKey(collection, id, params)
	if cached, found := c.cache.Get(ctx, key); found {
		if payload, ok := cached.(json.RawMessage); ok {
			return payload, nil
		}
	}

	resp, err := c.send(ctx, http.MethodGet, c.resourceURL(collection, id, params), nil)
	if err != nil {
		// no negative caching: the key stays absent so the next read
		// retries the network
		return nil, err
	}

	payload := json.RawMessage(resp.Body)
	c.cache.Set(ctx, key, payload, c.cfg.Cache.TTL)
	c.logger.Debugw("cached read-through response", "collection", collection, "key", key)
	return payload, nil
}

func (c *client) Create(ctx context.Context, collection string, data any) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPost, c.resourceURL(collection, "", nil), data)
}

func (c *client) Update(ctx context.Context, collection string, id string, data any) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPut, c.resourceURL(collection, id, nil), data)
}

func (c *client) Delete(ctx context.Context, collection string, id string) (json.RawMessage, error) {
	return c.write(ctx, http.MethodDelete, c.resourceURL(collection, id, nil), nil)
}

func (c *client) BulkCreate(ctx context.Context, collection string, data any) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPost, c.resourceURL(collection, "bulk", nil), data)
}

func (c *client) BulkUpdate(ctx context.Context, collection string, data any) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPut, c.resourceURL(collection, "bulk", nil), data)
}

func (c *client) BulkDelete(ctx context.Context, collection string, data any) (json.RawMessage, error) {
	return c.write(ctx, http.MethodDelete, c.resourceURL(collection, "bulk", nil), data)
}

func (c *client) Upload(ctx context.Context, collection string, field string, filename string, content []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to prepare the file upload").
			Mark(ierr.ErrSystem)
	}
	if _, err := part.Write(content); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to prepare the file upload").
			Mark(ierr.ErrSystem)
	}
	if err := writer.Close(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to prepare the file upload").
			Mark(ierr.ErrSystem)
	}

	req := &httpclient.Request{
		Method: http.MethodPost,
		URL:    c.resourceURL(collection, "", nil),
		Body:   buf.Bytes(),
		Headers: map[string]string{
			// the writer's content type carries the boundary; overriding
			// it with application/json would break the upload
			"Content-Type": writer.FormDataContentType(),
		},
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.http.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	c.cache.Flush(ctx)
	return json.RawMessage(resp.Body), nil
}

// write performs a mutating call and clears the entire cache on success.
// The flush is deliberately global rather than per collection: correctness
// over hit rate. A failed write leaves the cache exactly as it was.
func (c *client) write(ctx context.Context, method string, url string, data any) (json.RawMessage, error) {
	var body []byte
	if data != nil {
		var err error
		body, err = marshalBody(data)
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.send(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	c.cache.Flush(ctx)
	c.logger.Debugw("cache flushed after write",
		"method", method,
		"user_id", types.GetUserID(ctx),
	)
	return json.RawMessage(resp.Body), nil
}

func (c *client) send(ctx context.Context, method string, url string, body []byte) (*httpclient.Response, error) {
	req := &httpclient.Request{
		Method: method,
		URL:    url,
		Body:   body,
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}
	return c.http.Send(ctx, req)
}

// authorize propagates the request id from the context and injects the
// bearer token when a source is configured and the caller is signed in;
// unauthenticated use stays possible for backends that allow it.
func (c *client) authorize(ctx context.Context, req *httpclient.Request) error {
	if requestID := types.GetRequestID(ctx); requestID != "" {
		c.setHeader(req, "X-Request-ID", requestID)
	}

	if c.tokens == nil || !c.tokens.IsSignedIn() {
		return nil
	}

	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return err
	}
	c.setHeader(req, "Authorization", "Bearer "+token)
	return nil
}

func (c *client) setHeader(req *httpclient.Request, key, value string) {
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	req.Headers[key] = value
}

func (c *client) resourceURL(collection string, id string, params map[string]string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(c.cfg.API.BaseURL, "/"))
	sb.WriteString("/")
	sb.WriteString(collection)
	if id != "" {
		sb.WriteString("/")
		sb.WriteString(id)
	}

	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		sb.WriteString("?")
		// Encode sorts keys, so urls are as deterministic as cache keys
		sb.WriteString(values.Encode())
	}

	return sb.String()
}

func marshalBody(data any) ([]byte, error) {
	switch v := data.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	default:
		body, err := json.Marshal(data)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Request payload could not be serialized").
				Mark(ierr.ErrValidation)
		}
		return body, nil
	}
}
