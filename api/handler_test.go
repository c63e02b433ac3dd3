package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	kithttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/log"
)

func responseError(status int) error {
	req, _ := http.NewRequest(http.MethodGet, "http://localhost/api/profile", nil)
	return &kithttp.ResponseError{
		Request:  req,
		Response: &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))},
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		redirects []string
		logged    string
	}{
		{"unauthorized", responseError(http.StatusUnauthorized), []string{"/login"}, ""},
		{"server error", responseError(http.StatusInternalServerError), nil, MessageServerError},
		{"forbidden", responseError(http.StatusForbidden), nil, ""},
		{"bad gateway", responseError(http.StatusBadGateway), nil, ""},
		{"timeout", &kithttp.TransportError{Method: "GET", URL: "/api", Cause: context.DeadlineExceeded}, nil, MessageTimeout},
		{"canceled", &kithttp.TransportError{Method: "GET", URL: "/api", Cause: context.Canceled}, nil, ""},
		{"connection refused", &kithttp.TransportError{Method: "GET", URL: "/api", Cause: errors.New("connection refused")}, nil, ""},
		{"request stage", errors.New("encode request body"), nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := &syncBuffer{}
			rec := &recorder{}
			h := NewErrorHandler("/login", rec, log.NewWithWriter(logs))

			resp, err := h.Intercept(nil, tt.err)
			assert.Nil(t, resp)
			assert.Same(t, tt.err, err)
			assert.Equal(t, tt.redirects, rec.calls())

			if tt.logged == "" {
				assert.NotContains(t, logs.String(), MessageServerError)
				assert.NotContains(t, logs.String(), MessageTimeout)
			} else {
				assert.Equal(t, 1, strings.Count(logs.String(), tt.logged))
			}
		})
	}
}

func TestErrorHandler_Success(t *testing.T) {
	logs := &syncBuffer{}
	rec := &recorder{}
	h := NewErrorHandler("/login", rec, log.NewWithWriter(logs))

	want := &http.Response{StatusCode: http.StatusOK}
	resp, err := h.Intercept(want, nil)
	assert.NoError(t, err)
	assert.Same(t, want, resp)
	assert.Empty(t, rec.calls())
	assert.Empty(t, logs.String())
}

func TestRedirectFunc(t *testing.T) {
	var got string
	h := NewErrorHandler("/login", RedirectFunc(func(path string) { got = path }), nil)

	_, _ = h.Interceptor()(nil, responseError(http.StatusUnauthorized))
	assert.Equal(t, "/login", got)
}

func TestLogRedirector(t *testing.T) {
	logs := &syncBuffer{}
	h := NewErrorHandler("/login", nil, log.NewWithWriter(logs))

	_, err := h.Intercept(nil, responseError(http.StatusUnauthorized))
	assert.Error(t, err)
	assert.Contains(t, logs.String(), `"path":"/login"`)
}

func TestErrorHandler_ServerErrorOmitsQuery(t *testing.T) {
	logs := &syncBuffer{}
	h := NewErrorHandler("/login", &recorder{}, log.NewWithWriter(logs))

	req, _ := http.NewRequest(http.MethodGet, "http://localhost/api/report?api_key=s3cr3t", nil)
	err := &kithttp.ResponseError{
		Request:  req,
		Response: &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader(""))},
	}

	_, got := h.Intercept(nil, err)
	assert.Same(t, err, got)
	assert.Contains(t, logs.String(), MessageServerError)
	assert.Contains(t, logs.String(), `"path":"/api/report"`)
	assert.NotContains(t, logs.String(), "s3cr3t")
}
