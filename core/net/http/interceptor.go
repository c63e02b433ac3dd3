package http

import "net/http"

// RequestInterceptor inspects or mutates an outbound request before it is sent.
// Returning an error aborts the call; the error reaches the caller unchanged.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor observes the outcome of a call. err is nil on the success path.
// For a *ResponseError resp is the buffered response; it is nil when nothing was received.
// Whatever it returns is handed to the next interceptor, and finally to the caller.
type ResponseInterceptor func(resp *http.Response, err error) (*http.Response, error)

type requestURLKey struct{}

// RequestURL returns the URL exactly as the caller passed it to Request, before it
// was resolved against the base URL. Requests not built by Client report req.URL.
func RequestURL(req *http.Request) string {
	if raw, ok := req.Context().Value(requestURLKey{}).(string); ok {
		return raw
	}
	if req.URL == nil {
		return ""
	}
	return req.URL.String()
}
