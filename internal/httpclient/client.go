// Package httpclient wraps net/http with exponential-backoff retries,
// response caching and in-flight request coalescing. Upstream API clients
// build on it instead of talking to net/http directly.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/wowlab/guildsim/internal/cache"
	"github.com/wowlab/guildsim/internal/logger"
)

// Defaults applied by New when Config fields are zero
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
	DefaultCacheSize  = 256
)

// Config tunes the client. Zero fields fall back to the defaults above.
type Config struct {
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries uint64
	// RetryDelay is the base backoff; attempt n waits RetryDelay * 2^n.
	RetryDelay time.Duration
	CacheSize  int
}

// Request describes one outbound call.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response is a fully drained HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client retries transient failures, caches GET responses and coalesces
// concurrent identical requests into a single network call.
type Client struct {
	http  *http.Client
	cfg   Config
	cache *cache.Cache[*Response]
	group singleflight.Group
}

// New creates a client. Zero config fields take the package defaults.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}

	respCache, err := cache.New[*Response](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create response cache: %w", err)
	}

	return &Client{
		http:  &http.Client{Timeout: cfg.Timeout},
		cfg:   cfg,
		cache: respCache,
	}, nil
}

// Do executes a request with retries. Network, timeout, 5xx and 429
// failures back off exponentially and retry; 4xx failures and context
// cancellation return immediately.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	backoff := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewExponential(c.cfg.RetryDelay))

	var resp *Response
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, attemptErr := c.once(ctx, req)
		if attemptErr != nil {
			var apiErr *Error
			if errors.As(attemptErr, &apiErr) && apiErr.Retryable() {
				return retry.RetryableError(attemptErr)
			}
			return attemptErr
		}
		resp = r
		return nil
	})
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return nil, err
		}
		// Context expiry during a backoff wait surfaces as a bare ctx error.
		kind := KindCanceled
		if errors.Is(err, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return nil, &Error{Kind: kind, URL: req.URL, Err: err}
	}
	return resp, nil
}

// GetJSON fetches a URL and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, header http.Header, out any) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, URL: rawURL, Query: query, Header: header})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return nil
}

// GetCached is Do with a read-through response cache and request
// coalescing: concurrent callers asking for the same key share one network
// call, and later callers within the TTL never hit the network at all.
func (c *Client) GetCached(ctx context.Context, req Request, ttl time.Duration) (*Response, error) {
	key := requestKey(req)

	if resp, ok := c.cache.Get(key); ok {
		return resp, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		resp, doErr := c.Do(ctx, req)
		if doErr != nil {
			return nil, doErr
		}
		c.cache.Set(key, resp, ttl)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Response), nil
}

// InvalidateCached drops the cached response for a request, forcing the
// next GetCached to refetch.
func (c *Client) InvalidateCached(req Request) {
	c.cache.Invalidate(requestKey(req))
}

// requestKey identifies a request by method, URL, query and body.
func requestKey(req Request) string {
	var b strings.Builder
	b.WriteString(req.Method)
	b.WriteByte(' ')
	b.WriteString(req.URL)
	if len(req.Query) > 0 {
		b.WriteByte('?')
		b.WriteString(req.Query.Encode())
	}
	if len(req.Body) > 0 {
		b.WriteByte(' ')
		b.Write(req.Body)
	}
	return b.String()
}

func (c *Client) once(ctx context.Context, req Request) (*Response, error) {
	fullURL := req.URL
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL += sep + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, &Error{Kind: KindClient, URL: fullURL, Err: err}
	}
	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, fullURL, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, URL: fullURL, Err: err}
	}

	logger.FromContext(ctx).Debug("upstream request",
		"method", req.Method,
		"url", req.URL,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, &Error{
			Kind:       KindRateLimited,
			StatusCode: httpResp.StatusCode,
			URL:        fullURL,
			RetryAfter: parseRetryAfter(httpResp.Header.Get("Retry-After")),
		}
	case httpResp.StatusCode >= 500:
		return nil, &Error{Kind: KindServer, StatusCode: httpResp.StatusCode, URL: fullURL}
	case httpResp.StatusCode >= 400:
		return nil, &Error{Kind: KindClient, StatusCode: httpResp.StatusCode, URL: fullURL}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

func classifyTransportError(ctx context.Context, url string, err error) *Error {
	if ctx.Err() == context.Canceled {
		return &Error{Kind: KindCanceled, URL: url, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, URL: url, Err: err}
	}
	return &Error{Kind: KindNetwork, URL: url, Err: err}
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
