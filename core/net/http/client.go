package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
)

const (
	// Buffer pool constants
	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024 // 1MB
)

// Client is a JSON HTTP client bound to a base URL.
//
// Every request gets the client's default headers, then the per-call headers, and is
// then handed to the request interceptors in registration order. The outcome of the
// call (response or error) passes through the response interceptors in registration
// order before it reaches the caller. A Client is read-only after New and safe for
// concurrent use.
type Client struct {
	client               *http.Client
	baseURL              string
	timeout              time.Duration
	header               map[string]string
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	logger               *log.Logger
	requestOptPool       sync.Pool
	bufferPool           sync.Pool
}

// Option configures the HTTP client
type Option func(*Client)

// WithClient sets a custom HTTP client
func WithClient(client *http.Client) Option {
	return func(h *Client) {
		h.client = client
	}
}

// WithBaseURL sets the URL that relative request URLs are resolved against
func WithBaseURL(baseURL string) Option {
	return func(h *Client) {
		h.baseURL = baseURL
	}
}

// WithTimeout sets the overall timeout of the underlying http.Client
func WithTimeout(d time.Duration) Option {
	return func(h *Client) {
		h.timeout = d
	}
}

// WithDefaultHeader adds a header sent with every request
func WithDefaultHeader(key, value string) Option {
	return func(h *Client) {
		h.header[key] = value
	}
}

// WithDefaultHeaders adds headers sent with every request
func WithDefaultHeaders(header map[string]string) Option {
	return func(h *Client) {
		maps.Copy(h.header, header)
	}
}

// WithRequestInterceptor appends request interceptors
func WithRequestInterceptor(interceptors ...RequestInterceptor) Option {
	return func(h *Client) {
		h.requestInterceptors = append(h.requestInterceptors, interceptors...)
	}
}

// WithResponseInterceptor appends response interceptors
func WithResponseInterceptor(interceptors ...ResponseInterceptor) Option {
	return func(h *Client) {
		h.responseInterceptors = append(h.responseInterceptors, interceptors...)
	}
}

// WithLogger sets the logger used for request tracing at debug level
func WithLogger(logger *log.Logger) Option {
	return func(h *Client) {
		h.logger = logger
	}
}

// New creates a new HTTP client with object pooling
func New(opts ...Option) *Client {
	h := &Client{
		client: &http.Client{},
		header: make(map[string]string, 4),
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}
	h.requestOptPool = sync.Pool{
		New: func() any {
			return &RequestOption{
				header: make(map[string]string, 8),
			}
		},
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.timeout > 0 {
		h.client.Timeout = h.timeout
	}
	if h.logger == nil {
		h.logger = log.G
	}

	return h
}

// BaseURL returns the base URL relative request URLs are resolved against
func (cli *Client) BaseURL() string {
	return cli.baseURL
}

// Header returns a copy of the default headers
func (cli *Client) Header() map[string]string {
	return maps.Clone(cli.header)
}

// RequestOption holds options for individual HTTP requests
type RequestOption struct {
	ctx      context.Context
	header   map[string]string
	response any
}

// WithContext sets a custom context for the request
func WithContext(ctx context.Context) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.ctx = ctx
	}
}

// WithHeader sets multiple headers for the request
func WithHeader(header map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		maps.Copy(opt.header, header)
	}
}

// WithResponse sets the response target object for automatic unmarshaling
func WithResponse(response any) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.response = response
	}
}

// reset prepares a pooled RequestOption, seeding it with the client's default headers
func (opt *RequestOption) reset(defaults map[string]string) {
	opt.ctx = nil
	clear(opt.header)
	maps.Copy(opt.header, defaults)
	opt.response = nil
}

// Request sends an HTTP request with the specified method, URL, and body.
//
// A status outside 2xx is returned as a *ResponseError and a failure without a
// response as a *TransportError; either way the error has already been seen by the
// response interceptors. For a non-2xx status the interceptors also receive the
// buffered response, so an interceptor that clears the error hands it to the caller. Errors returned by request interceptors abort the call and
// are propagated unchanged.
func (cli *Client) Request(method, url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	opt := cli.getRequestOption()
	defer cli.putRequestOption(opt)

	for _, o := range opts {
		o(opt)
	}

	start := time.Now()
	resp, err := cli.do(method, url, body, opt)
	resp, err = cli.intercept(resp, err)

	event := cli.logger.Debug().Str("method", method).Str("url", url).Dur("duration", time.Since(start))
	if err != nil {
		event.Err(err).Msg("http request failed")
		return nil, err
	}
	if resp == nil {
		err = errors.New(errors.UnknownCode, "%s %s: no response", method, url)
		event.Err(err).Msg("http request failed")
		return nil, err
	}
	event.Int("status", resp.StatusCode).Msg("http request")

	return cli.processResponse(resp, opt.response)
}

// do builds the request, runs the request interceptors and executes it
func (cli *Client) do(method, rawURL string, body any, opt *RequestOption) (*http.Response, error) {
	ctx := opt.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, requestURLKey{}, rawURL)

	req, err := cli.createRequest(ctx, method, cli.resolve(rawURL), body)
	if err != nil {
		return nil, err
	}
	cli.setRequestHeaders(req, opt.header)

	for _, interceptor := range cli.requestInterceptors {
		if err := interceptor(req); err != nil {
			return nil, err
		}
	}

	resp, err := cli.client.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Cause: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		re := newResponseError(req, resp)
		return re.Response, re
	}

	return resp, nil
}

// intercept hands the outcome of a call to every response interceptor in order
func (cli *Client) intercept(resp *http.Response, err error) (*http.Response, error) {
	for _, interceptor := range cli.responseInterceptors {
		resp, err = interceptor(resp, err)
	}
	return resp, err
}

// resolve joins relative URLs onto the base URL; absolute URLs are returned as is
func (cli *Client) resolve(rawURL string) string {
	if cli.baseURL == "" || isAbsoluteURL(rawURL) {
		return rawURL
	}
	if rawURL == "" {
		return cli.baseURL
	}
	return strings.TrimRight(cli.baseURL, "/") + "/" + strings.TrimLeft(rawURL, "/")
}

// isAbsoluteURL reports whether rawURL starts with "scheme://" or "//"
func isAbsoluteURL(rawURL string) bool {
	if strings.HasPrefix(rawURL, "//") {
		return true
	}
	scheme, _, ok := strings.Cut(rawURL, "://")
	if !ok || scheme == "" {
		return false
	}
	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// getRequestOption retrieves a RequestOption from the pool
func (cli *Client) getRequestOption() *RequestOption {
	opt := cli.requestOptPool.Get().(*RequestOption)
	opt.reset(cli.header)
	return opt
}

// putRequestOption returns a RequestOption to the pool
func (cli *Client) putRequestOption(opt *RequestOption) {
	cli.requestOptPool.Put(opt)
}

// createRequest creates an HTTP request with the appropriate body
func (cli *Client) createRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	switch v := body.(type) {
	case nil:
		return http.NewRequestWithContext(ctx, method, url, nil)
	case io.Reader:
		return http.NewRequestWithContext(ctx, method, url, v)
	default:
		return cli.createJSONRequest(ctx, method, url, v)
	}
}

// createJSONRequest creates an HTTP request with JSON body
func (cli *Client) createJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	buf := cli.getBuffer()
	defer cli.putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "encode request body")
	}

	// The buffer goes back to the pool, so the request needs its own copy.
	payload := bytes.Clone(buf.Bytes())
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	return req, nil
}

// setRequestHeaders sets headers on the HTTP request
func (cli *Client) setRequestHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// getBuffer retrieves a buffer from the pool
func (cli *Client) getBuffer() *bytes.Buffer {
	buf := cli.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool, with size check to prevent memory leaks
func (cli *Client) putBuffer(buf *bytes.Buffer) {
	// Prevent very large buffers from being pooled to avoid memory leaks
	if buf.Cap() <= maxBufferSize {
		cli.bufferPool.Put(buf)
	}
}

// processResponse decodes the body into dest when one was requested
func (cli *Client) processResponse(resp *http.Response, dest any) (*http.Response, error) {
	if dest == nil || resp == nil {
		return resp, nil
	}

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "decode response body")
	}

	return resp, nil
}

// Convenience methods for common HTTP operations

// Get performs a GET request
func (cli *Client) Get(url string, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodGet, url, nil, opts...)
}

// Post performs a POST request with JSON body
func (cli *Client) Post(url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodPost, url, body, opts...)
}

// Put performs a PUT request with JSON body
func (cli *Client) Put(url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodPut, url, body, opts...)
}

// Delete performs a DELETE request
func (cli *Client) Delete(url string, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodDelete, url, nil, opts...)
}

// Patch performs a PATCH request with JSON body
func (cli *Client) Patch(url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodPatch, url, body, opts...)
}
