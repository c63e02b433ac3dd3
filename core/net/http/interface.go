package http

import "net/http"

// Clienter defines the interface for HTTP client operations
type Clienter interface {
	Request(method, url string, body any, opts ...func(*RequestOption)) (*http.Response, error)
	Get(url string, opts ...func(*RequestOption)) (*http.Response, error)
	Post(url string, body any, opts ...func(*RequestOption)) (*http.Response, error)
	Put(url string, body any, opts ...func(*RequestOption)) (*http.Response, error)
	Patch(url string, body any, opts ...func(*RequestOption)) (*http.Response, error)
	Delete(url string, opts ...func(*RequestOption)) (*http.Response, error)
}

var _ Clienter = (*Client)(nil)
