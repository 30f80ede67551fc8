package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medlit-search-server/internal/domain"
)

// RateLimiter enforces a fixed per-IP request window. State lives in
// process memory; each replica counts independently.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientWindow
	requests int
	window   time.Duration
	logger   *logrus.Logger
	now      func() time.Time
}

type clientWindow struct {
	count   int
	started time.Time
}

// NewRateLimiter creates a limiter allowing cfg.Requests per cfg.Window
// from each client IP.
func NewRateLimiter(cfg domain.RateLimitConfig, logger *logrus.Logger) *RateLimiter {
	requests := cfg.Requests
	if requests == 0 {
		requests = 60
	}
	window := cfg.Window
	if window == 0 {
		window = time.Minute
	}
	return &RateLimiter{
		clients:  make(map[string]*clientWindow),
		requests: requests,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

// allow counts one request from ip, resetting the window when it has
// lapsed. Stale entries for other clients are swept lazily on the same
// lock acquisition.
func (r *RateLimiter) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, w := range r.clients {
		if key != ip && now.Sub(w.started) >= r.window {
			delete(r.clients, key)
		}
	}

	w, ok := r.clients[ip]
	if !ok || now.Sub(w.started) >= r.window {
		r.clients[ip] = &clientWindow{count: 1, started: now}
		return true
	}
	if w.count >= r.requests {
		return false
	}
	w.count++
	return true
}

// Middleware rejects over-limit clients with 429 and a Retry-After hint.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !r.allow(ip) {
			r.logger.WithField("client_ip", ip).Warn("Rate limit exceeded")
			c.Header("Retry-After", fmt.Sprintf("%d", int(r.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    domain.ErrCodeRateLimited,
					"message": "too many requests, retry later",
				},
			})
			return
		}
		c.Next()
	}
}
