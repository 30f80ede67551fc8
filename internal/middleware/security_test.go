package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/medlit-search-server/internal/domain"
)

func newSecuredRouter(cfg domain.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders())
	router.Use(CorrelationID())
	router.Use(CORS(cfg))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func TestSecurityHeaders(t *testing.T) {
	router := newSecuredRouter(domain.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
}

func TestCorrelationID(t *testing.T) {
	router := newSecuredRouter(domain.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))

	// A supplied ID is echoed, not replaced.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "trace-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Header().Get("X-Correlation-ID"))
}

func TestCORSAllowList(t *testing.T) {
	cfg := domain.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000", "https://medlit-search.example.org"},
		AllowNull:      true,
	}
	router := newSecuredRouter(cfg)

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"listed origin", "http://localhost:3000", true},
		{"second listed origin", "https://medlit-search.example.org", true},
		{"null origin", "null", true},
		{"unlisted origin", "https://evil.example.com", false},
		{"no origin header", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, "the request itself always runs")
			if tt.allowed {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newSecuredRouter(domain.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSNullDisabled(t *testing.T) {
	router := newSecuredRouter(domain.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "null")
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
