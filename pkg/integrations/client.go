package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/httputil"
	"github.com/matzehuels/presspub/pkg/observability"
)

// Request describes one HTTP call. Body is kept as bytes so it can be
// re-sent on every retry attempt.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string
	Body    []byte
}

// Response is the status and raw body of an HTTP answer.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client provides shared HTTP functionality for API clients.
// It handles retry logic, pacing, and common request headers.
//
// Requests are issued one at a time by callers; the Client itself holds no
// per-request state and is safe for concurrent use.
type Client struct {
	http    *http.Client
	headers map[string]string
	retry   httputil.Policy
	limiter *rate.Limiter
}

// NewClient creates a Client from cfg with the given default headers.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed.
func NewClient(cfg Config, headers map[string]string) (*Client, error) {
	hc, err := NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:    hc,
		headers: headers,
		retry:   cfg.Retry,
		limiter: httputil.NewLimiter(cfg.RateLimit, 1),
	}, nil
}

// Get performs an HTTP GET with the given query parameters.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: rawURL, Query: query, Headers: headers})
}

// Post performs an HTTP POST with a raw body.
func (c *Client) Post(ctx context.Context, rawURL string, headers map[string]string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, URL: rawURL, Headers: headers, Body: body})
}

// PostJSON JSON-encodes v and POSTs it with Content-Type application/json.
// Request-specific headers override the JSON content type if set.
func (c *Client) PostJSON(ctx context.Context, rawURL string, headers map[string]string, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "encode request body")
	}
	merged := map[string]string{"Content-Type": "application/json"}
	for k, val := range headers {
		merged[k] = val
	}
	return c.Post(ctx, rawURL, merged, body)
}

// Do sends req, retrying connection failures according to the client's
// policy. Any HTTP answer, whatever its status, is returned as a Response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid URL %q", req.URL)
	}
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var resp *Response
	err = httputil.Retry(ctx, c.retry, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		r, err := c.send(ctx, req, target)
		if err != nil {
			if ctx.Err() == nil && isConnectFailure(err) {
				return &httputil.RetryableError{Err: err}
			}
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, classify(err, req.Method, target)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req *Request, target *url.URL) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, target.Host, target.Path)
	start := time.Now()

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		hooks.OnError(ctx, req.Method, target.Host, target.Path, err)
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		hooks.OnError(ctx, req.Method, target.Host, target.Path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, target.Host, target.Path, httpResp.StatusCode, time.Since(start))
	return &Response{StatusCode: httpResp.StatusCode, Body: data}, nil
}

// isConnectFailure reports whether err happened before the request could
// reach the server, so re-sending cannot duplicate a write.
func isConnectFailure(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial" || opErr.Op == "proxyconnect"
	}
	return false
}

func classify(err error, method string, target *url.URL) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return perrors.Wrap(perrors.ErrCodeTimeout, err, "%s %s timed out", method, target.Redacted())
	}
	return perrors.Wrap(perrors.ErrCodeNetwork, err, "%s %s failed", method, target.Redacted())
}
