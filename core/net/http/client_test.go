package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func TestClient_Request_GET(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != MethodGet {
			t.Errorf("Expected GET method, got %s", r.Method)
		}

		w.Header().Set(HeaderContentType, ContentTypeJSON)
		json.NewEncoder(w).Encode(TestResponse{Message: "success", Status: 200})
	}))
	defer server.Close()

	client := New()
	var result TestResponse

	resp, err := client.Request(MethodGet, server.URL, nil, WithResponse(&result))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "success", result.Message)
}

func TestClient_Request_POST_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.Header.Get(HeaderContentType) != ContentTypeJSON {
			t.Errorf("Expected Content-Type %s, got %s", ContentTypeJSON, r.Header.Get(HeaderContentType))
		}

		var reqBody TestResponse
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}

		w.Header().Set(HeaderContentType, ContentTypeJSON)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(TestResponse{Message: "received: " + reqBody.Message, Status: 201})
	}))
	defer server.Close()

	client := New()
	var result TestResponse
	resp, err := client.Request(MethodPost, server.URL, TestResponse{Message: "test message", Status: 100}, WithResponse(&result))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "received: test message", result.Message)
}

func TestClient_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		url     string
		want    string
	}{
		{name: "no base", baseURL: "", url: "/users", want: "/users"},
		{name: "relative with slash", baseURL: "http://api.example.com/api", url: "/users", want: "http://api.example.com/api/users"},
		{name: "relative without slash", baseURL: "http://api.example.com/api/", url: "users", want: "http://api.example.com/api/users"},
		{name: "protocol relative", baseURL: "http://api.example.com/api", url: "//cdn.example.com/a", want: "//cdn.example.com/a"},
		{name: "trailing slashes", baseURL: "http://api.example.com/api//", url: "users", want: "http://api.example.com/api/users"},
		{name: "absolute url", baseURL: "http://api.example.com", url: "https://other.example.com/x", want: "https://other.example.com/x"},
		{name: "empty url", baseURL: "http://api.example.com/api", url: "", want: "http://api.example.com/api"},
		{name: "query kept", baseURL: "http://api.example.com", url: "/search?q=a", want: "http://api.example.com/search?q=a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(WithBaseURL(tt.baseURL))
			assert.Equal(t, tt.want, client.resolve(tt.url))
		})
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	assert.True(t, isAbsoluteURL("http://a"))
	assert.True(t, isAbsoluteURL("custom+scheme://a"))
	assert.True(t, isAbsoluteURL("//cdn.example.com/a.js"))
	assert.False(t, isAbsoluteURL("/api/login"))
	assert.False(t, isAbsoluteURL("api/login?next=http://x"))
	assert.False(t, isAbsoluteURL("1http://a"))
}

func TestClient_BaseURLAndDefaultHeaders(t *testing.T) {
	var gotPath, gotAccept, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get(HeaderAccept)
		gotCustom = r.Header.Get("X-Custom-Header")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(
		WithBaseURL(server.URL+"/api"),
		WithDefaultHeaders(DefaultHeaders()),
		WithDefaultHeader("X-Custom-Header", "default"),
	)

	_, err := client.Get("/profile", WithHeader(map[string]string{"X-Custom-Header": "override"}))
	require.NoError(t, err)
	assert.Equal(t, "/api/profile", gotPath)
	assert.Equal(t, ContentTypeJSON, gotAccept)
	assert.Equal(t, "override", gotCustom)

	// per-call headers must not leak into the next request
	_, err = client.Get("/profile")
	require.NoError(t, err)
	assert.Equal(t, "default", gotCustom)
}

func TestClient_Request_WithContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(TestResponse{Message: "delayed", Status: 200})
	}))
	defer server.Close()

	client := New()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Request(MethodGet, server.URL, nil, WithContext(ctx))
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Timeout())
	assert.True(t, IsTimeout(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestClient_Request_ClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := New(WithTimeout(50 * time.Millisecond))
	_, err := client.Get(server.URL)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestClient_Request_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := New().Get(server.URL, WithContext(ctx))
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Canceled())
	assert.False(t, te.Timeout())
}

func TestClient_Request_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Bad Request"))
	}))
	defer server.Close()

	_, err := New().Request(MethodGet, server.URL, nil)
	require.Error(t, err)

	re, ok := AsResponseError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, re.StatusCode())
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Equal(t, "Bad Request", string(re.Body))
	assert.Contains(t, err.Error(), "status 400 Bad Request")

	body, err := io.ReadAll(re.Response.Body)
	require.NoError(t, err)
	assert.Equal(t, "Bad Request", string(body))
	assert.False(t, re.Truncated)
	assert.False(t, IsTimeout(re))
}

func TestClient_Request_ErrorResponseTruncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write(bytes.Repeat([]byte("x"), maxBufferSize+10))
	}))
	defer server.Close()

	_, err := New().Get(server.URL)
	re, ok := AsResponseError(err)
	require.True(t, ok)
	assert.True(t, re.Truncated)
	assert.Len(t, re.Body, maxBufferSize)

	body, err := io.ReadAll(re.Response.Body)
	require.NoError(t, err)
	assert.Len(t, body, maxBufferSize)
}

func TestClient_RequestInterceptors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(r.Header.Get("X-Order")))
	}))
	defer server.Close()

	var seenURL string
	client := New(
		WithBaseURL(server.URL),
		WithRequestInterceptor(
			func(req *http.Request) error {
				seenURL = RequestURL(req)
				req.Header.Set("X-Order", "first")
				return nil
			},
			func(req *http.Request) error {
				req.Header.Set("X-Order", req.Header.Get("X-Order")+",second")
				return nil
			},
		),
	)

	resp, err := client.Get("/api/profile")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "first,second", string(body))
	assert.Equal(t, "/api/profile", seenURL)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_RequestInterceptorError(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	storageErr := errors.New("storage unavailable")
	var observed error
	client := New(
		WithBaseURL(server.URL),
		WithRequestInterceptor(func(req *http.Request) error { return storageErr }),
		WithResponseInterceptor(func(resp *http.Response, err error) (*http.Response, error) {
			observed = err
			return resp, err
		}),
	)

	_, err := client.Get("/api/profile")
	assert.ErrorIs(t, err, storageErr)
	assert.ErrorIs(t, observed, storageErr)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_ResponseInterceptors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var calls []string
	replaced := errors.New("replaced")
	client := New(
		WithBaseURL(server.URL),
		WithResponseInterceptor(
			func(resp *http.Response, err error) (*http.Response, error) {
				if err != nil {
					calls = append(calls, "first:error")
					return resp, err
				}
				calls = append(calls, "first:ok")
				return resp, nil
			},
			func(resp *http.Response, err error) (*http.Response, error) {
				if err != nil {
					calls = append(calls, "second:error")
					return nil, replaced
				}
				calls = append(calls, "second:ok")
				return resp, nil
			},
		),
	)

	resp, err := client.Get("/ok")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = client.Get("/fail")
	assert.ErrorIs(t, err, replaced)

	assert.Equal(t, []string{"first:ok", "second:ok", "first:error", "second:error"}, calls)
}

func TestRequestID(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get(HeaderRequestID))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithRequestInterceptor(RequestID("")))

	_, err := client.Get("/a")
	require.NoError(t, err)
	_, err = client.Get("/b", WithHeader(map[string]string{HeaderRequestID: "fixed"}))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Len(t, got[0], 36)
	assert.Equal(t, "fixed", got[1])
}

func TestClient_ConvenienceMethods(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderContentType, ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))
	body := map[string]string{"k": "v"}

	calls := map[string]func() (*http.Response, error){
		MethodGet:    func() (*http.Response, error) { return client.Get("/x", WithResponse(&map[string]string{})) },
		MethodPost:   func() (*http.Response, error) { return client.Post("/x", body) },
		MethodPut:    func() (*http.Response, error) { return client.Put("/x", body) },
		MethodPatch:  func() (*http.Response, error) { return client.Patch("/x", body) },
		MethodDelete: func() (*http.Response, error) { return client.Delete("/x") },
	}

	for method, call := range calls {
		t.Run(method, func(t *testing.T) {
			resp, err := call()
			require.NoError(t, err)
			assert.Equal(t, method, resp.Request.Method)
		})
	}
}

func TestRequestURL_Fallback(t *testing.T) {
	req := httptest.NewRequest(MethodGet, "http://example.com/health", nil)
	assert.Equal(t, "http://example.com/health", RequestURL(req))
}

func BenchmarkClient_Request(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TestResponse{Message: "benchmark", Status: 200})
	}))
	defer server.Close()

	client := New()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			var result TestResponse
			_, err := client.Request(MethodGet, server.URL, nil, WithResponse(&result))
			if err != nil {
				b.Fatalf("Request failed: %v", err)
			}
		}
	})
}

func TestClient_ResponseInterceptorClearsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"name":"guest"}`))
	}))
	defer server.Close()

	var seen *http.Response
	client := New(
		WithBaseURL(server.URL),
		WithResponseInterceptor(func(resp *http.Response, err error) (*http.Response, error) {
			seen = resp
			if StatusCode(err) == http.StatusNotFound {
				return resp, nil
			}
			return resp, err
		}),
	)

	var out struct {
		Name string `json:"name"`
	}
	resp, err := client.Get("/x", WithResponse(&out))
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Same(t, seen, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "guest", out.Name)
}

func TestClient_ResponseInterceptorDropsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(
		WithBaseURL(server.URL),
		WithResponseInterceptor(func(resp *http.Response, err error) (*http.Response, error) {
			if resp != nil {
				resp.Body.Close()
			}
			return nil, nil
		}),
	)

	resp, err := client.Get("/x")
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "no response")
}
