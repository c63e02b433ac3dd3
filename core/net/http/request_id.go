package http

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID returns a request interceptor that tags every request with a fresh UUID
// under header, unless the caller already set one. An empty header means X-Request-Id.
func RequestID(header string) RequestInterceptor {
	if header == "" {
		header = HeaderRequestID
	}
	return func(req *http.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, uuid.NewString())
		}
		return nil
	}
}
