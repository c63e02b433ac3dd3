package http

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/kochabx/apiclient/errors"
)

// ResponseError is returned when the server answered with a status outside 2xx.
// The body is buffered, so Response.Body can still be read by the caller.
type ResponseError struct {
	Request  *http.Request
	Response *http.Response
	// Body holds at most the first 1MB of the response body; Response.Body replays the same bytes
	Body []byte
	// Truncated is set when the server sent more than Body holds
	Truncated bool
}

func newResponseError(req *http.Request, resp *http.Response) *ResponseError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBufferSize+1))
	resp.Body.Close()

	truncated := len(body) > maxBufferSize
	if truncated {
		body = body[:maxBufferSize]
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return &ResponseError{
		Request:   req,
		Response:  resp,
		Body:      body,
		Truncated: truncated,
	}
}

// Error returns "<METHOD> <url>: status <code> <text>"
func (e *ResponseError) Error() string {
	var msg strings.Builder
	if e.Request != nil {
		msg.WriteString(e.Request.Method)
		msg.WriteByte(' ')
		msg.WriteString(e.Request.URL.String())
		msg.WriteString(": ")
	}
	msg.WriteString("status ")
	msg.WriteString(strconv.Itoa(e.StatusCode()))
	if text := http.StatusText(e.StatusCode()); text != "" {
		msg.WriteByte(' ')
		msg.WriteString(text)
	}
	return msg.String()
}

// StatusCode returns the HTTP status of the response
func (e *ResponseError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// TransportError is returned when no response was received at all
type TransportError struct {
	Method string
	URL    string
	Cause  error
}

func (e *TransportError) Error() string {
	return e.Method + " " + e.URL + ": " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the request was abandoned because a deadline passed,
// either the client timeout or a context deadline.
func (e *TransportError) Timeout() bool {
	var ne net.Error
	if errors.As(e.Cause, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(e.Cause, context.DeadlineExceeded) || errors.Is(e.Cause, os.ErrDeadlineExceeded)
}

// Canceled reports whether the request context was canceled
func (e *TransportError) Canceled() bool {
	return errors.Is(e.Cause, context.Canceled)
}

// AsResponseError finds a *ResponseError in err's chain
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// StatusCode returns the response status carried by err, or 0 when err has no response
func StatusCode(err error) int {
	if re, ok := AsResponseError(err); ok {
		return re.StatusCode()
	}
	return 0
}

// IsTimeout reports whether err is a transport failure caused by a timeout
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout()
}
