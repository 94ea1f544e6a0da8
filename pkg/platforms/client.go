package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/thomhayward/ferium/pkg/cache"
	ferrors "github.com/thomhayward/ferium/pkg/errors"
	"github.com/thomhayward/ferium/pkg/httputil"
)

// Client provides shared HTTP functionality for the platform API clients:
// response caching, retry with backoff, and common request headers.
type Client struct {
	name    string
	http    *http.Client
	backend cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string
}

// NewClient creates a Client backed by the given cache.
//
// The name identifies the platform in rate-limit errors. The prefix
// namespaces cache keys (e.g., "modrinth:"). Headers are applied to every
// request; pass nil if none are needed.
func NewClient(name string, backend cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	return &Client{
		name:    name,
		http:    NewHTTPClient(),
		backend: backend,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
	}
}

// Cached retrieves a JSON value from the cache or executes fetch and caches
// the result. The fetch function should populate v; on success, v is stored
// under the namespaced key.
func (c *Client) Cached(ctx context.Context, key string, v any, fetch func() error) error {
	key = c.prefix + key
	if data, ok, _ := c.backend.Get(ctx, key); ok {
		if json.Unmarshal(data, v) == nil {
			return nil
		}
		// Undecodable entry, fall through to a fresh fetch.
	}

	if err := httputil.DefaultBackoff.Do(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.backend.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}

	if err := c.checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &ferrors.RateLimitedError{Platform: c.name, RetryAfter: retryAfter}
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
