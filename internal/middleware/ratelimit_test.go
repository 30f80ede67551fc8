package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medlit-search-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newLimitedRouter(limiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func doRequest(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	limiter := NewRateLimiter(domain.RateLimitConfig{Requests: 60, Window: time.Minute}, testLogger())
	router := newLimitedRouter(limiter)

	for i := 0; i < 60; i++ {
		w := doRequest(router, "10.0.0.1")
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := doRequest(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), domain.ErrCodeRateLimited)
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	limiter := NewRateLimiter(domain.RateLimitConfig{Requests: 2, Window: time.Minute}, testLogger())
	router := newLimitedRouter(limiter)

	doRequest(router, "10.0.0.1")
	doRequest(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.1").Code)

	// A different client has its own window.
	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.2").Code)
}

func TestRateLimiterWindowResets(t *testing.T) {
	limiter := NewRateLimiter(domain.RateLimitConfig{Requests: 1, Window: time.Minute}, testLogger())
	now := time.Now()
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))

	// The count resets once the window has fully elapsed.
	now = now.Add(time.Minute)
	assert.True(t, limiter.allow("10.0.0.1"))
}

func TestRateLimiterSweepsStaleEntries(t *testing.T) {
	limiter := NewRateLimiter(domain.RateLimitConfig{Requests: 5, Window: time.Minute}, testLogger())
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.allow("10.0.0.1")
	limiter.allow("10.0.0.2")
	assert.Len(t, limiter.clients, 2)

	now = now.Add(2 * time.Minute)
	limiter.allow("10.0.0.3")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.clients, "10.0.0.1")
	assert.NotContains(t, limiter.clients, "10.0.0.2")
	assert.Contains(t, limiter.clients, "10.0.0.3")
}

func TestRateLimiterDefaults(t *testing.T) {
	limiter := NewRateLimiter(domain.RateLimitConfig{}, testLogger())
	assert.Equal(t, 60, limiter.requests)
	assert.Equal(t, time.Minute, limiter.window)
}
