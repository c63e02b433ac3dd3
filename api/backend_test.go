package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	kithttp "github.com/kochabx/apiclient/core/net/http"
)

var testSecret = []byte("test-secret")

// backend 测试用后端：登录签发 JWT，/api/profile 校验 JWT，
// 并记录每个请求收到的 Authorization 头。
type backend struct {
	*httptest.Server

	mu   sync.Mutex
	auth map[string][]string
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &backend{auth: make(map[string][]string)}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		b.mu.Lock()
		b.auth[c.Request.URL.Path] = append(b.auth[c.Request.URL.Path], c.GetHeader(kithttp.HeaderAuthorization))
		b.mu.Unlock()
		c.Next()
	})

	r.POST("/api/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
			return
		}
		token, err := signToken(req.Username, time.Hour)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	})
	r.GET("/api/profile", func(c *gin.Context) {
		subject, ok := verify(c.GetHeader(kithttp.HeaderAuthorization))
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	})
	r.GET("/api/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authorization": c.GetHeader(kithttp.HeaderAuthorization)})
	})
	r.GET("/api/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	r.GET("/api/unavailable", func(c *gin.Context) {
		c.Status(http.StatusServiceUnavailable)
	})
	r.GET("/api/slow", func(c *gin.Context) {
		select {
		case <-time.After(time.Second):
		case <-c.Request.Context().Done():
		}
		c.Status(http.StatusOK)
	})
	for _, p := range []string{"/register", "/status", "/activate/:code", "/health"} {
		r.GET(p, func(c *gin.Context) { c.Status(http.StatusOK) })
	}

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Close)
	return b
}

// received 返回 path 收到的 Authorization 头（按请求顺序）
func (b *backend) received(path string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.auth[path]...)
}

func signToken(subject string, ttl time.Duration) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}).SignedString(testSecret)
}

func verify(header string) (string, bool) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return testSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}
