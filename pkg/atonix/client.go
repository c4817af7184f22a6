package atonix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/atonixcorp/atonix-go/pkg/httpclient"
)

const (
	// DefaultFramework is used whenever a compliance call gets a blank framework.
	DefaultFramework = "soc2"

	authScheme = "Token"
)

// Client issues authenticated requests against the Atonix API.
// It is immutable after New and safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    httpclient.Client
}

// Option customizes a Client at construction time.
type Option func(*clientOptions)

type clientOptions struct {
	http           httpclient.Client
	connectTimeout time.Duration
	requestTimeout time.Duration
}

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *clientOptions) { o.http = c }
}

// WithTimeouts overrides the connect and total request timeouts of the default transport.
// Ignored when WithHTTPClient is also given.
func WithTimeouts(connect, request time.Duration) Option {
	return func(o *clientOptions) {
		o.connectTimeout = connect
		o.requestTimeout = request
	}
}

// New builds a client. baseURL and token are not validated and no network
// I/O happens here.
func New(baseURL, token string, opts ...Option) *Client {
	o := clientOptions{
		connectTimeout: httpclient.DefaultConnectTimeout,
		requestTimeout: httpclient.DefaultRequestTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.http == nil {
		o.http = httpclient.NewRestyClient(httpclient.Options{
			ConnectTimeout: o.connectTimeout,
			RequestTimeout: o.requestTimeout,
		})
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    o.http,
	}
}

// BaseURL returns the URL prefix every request path is appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// request sends one call and returns the raw body. The path is appended to
// baseURL as-is, so it must carry its own leading slash.
func (c *Client) request(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	url := c.baseURL + path
	req := httpclient.Request{
		Method: method,
		URL:    url,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": authScheme + " " + c.token,
		},
	}
	if len(bytes.TrimSpace(body)) > 0 {
		req.Body = body
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}

	data := resp.Body()
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: string(data)}
	}
	return data, nil
}

// encodeJSON serializes v without HTML escaping and without the trailing
// newline json.Encoder appends.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := encodeJSON(payload)
	if err != nil {
		return nil, err
	}
	return c.request(ctx, http.MethodPost, path, body)
}
