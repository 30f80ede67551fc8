package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medlit-search-server/internal/domain"
	"github.com/medlit-search-server/internal/service"
)

// errorJSON writes the standard error envelope.
func errorJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"sources":   s.breakers.States(),
	})
}

func (s *Server) handleMethodNotAllowed(c *gin.Context) {
	errorJSON(c, http.StatusMethodNotAllowed, domain.ErrCodeInvalidInput, "method not allowed")
}

func (s *Server) handleSearch(c *gin.Context) {
	req := service.SearchRequest{
		Q:            c.Query("q"),
		Disease:      c.Query("disease"),
		Treatment:    c.Query("treatment"),
		Topic:        c.Query("topic"),
		Multilingual: c.Query("multilingual") == "true",
		PatientVoice: c.Query("patientVoice") == "true",
	}

	resp, err := s.orchestrator.Search(c.Request.Context(), req)
	if err != nil {
		var inputErr *domain.InputError
		if errors.As(err, &inputErr) {
			errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, inputErr.Message)
			return
		}
		s.logger.WithError(err).WithField("correlation_id", c.GetString("correlation_id")).Error("Search failed")
		errorJSON(c, http.StatusInternalServerError, domain.ErrCodeInternalServer, "search failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMeSH(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len([]rune(q)) < 2 {
		errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "q must be at least 2 characters")
		return
	}
	terms := s.mesh.Lookup(c.Request.Context(), q)
	if terms == nil {
		terms = []string{}
	}
	c.JSON(http.StatusOK, terms)
}

func (s *Server) handleSuggest(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "q is required")
		return
	}
	suggestions := s.local.Suggest(q, 15)
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, suggestions)
}

func (s *Server) handleTranslate(c *gin.Context) {
	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "text is required")
		return
	}
	src := c.DefaultQuery("source", "ja")
	tgt := c.DefaultQuery("target", "en")

	translated, ok := s.translator.Translate(c.Request.Context(), text, src, tgt)
	if !ok {
		translated = ""
	}
	c.JSON(http.StatusOK, gin.H{
		"text": translated,
		"src":  src,
		"tgt":  tgt,
	})
}

func (s *Server) handleCQList(c *gin.Context) {
	groups := s.local.GroupQuestions(c.Query("cat"))
	if groups == nil {
		groups = []service.CQGroup{}
	}
	totalCQs := 0
	for _, g := range groups {
		totalCQs += len(g.CQs)
	}
	c.JSON(http.StatusOK, gin.H{
		"totalGuidelines": len(groups),
		"totalCQs":        totalCQs,
		"groups":          groups,
	})
}

func (s *Server) handleCQEvidence(c *gin.Context) {
	q := c.Query("q")
	kw := c.Query("kw")

	result, err := s.cqEvidence.Search(c.Request.Context(), q, kw)
	if err != nil {
		var inputErr *domain.InputError
		if errors.As(err, &inputErr) {
			errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, inputErr.Message)
			return
		}
		s.logger.WithError(err).Warn("CQ evidence search failed")
		errorJSON(c, http.StatusBadGateway, domain.ErrCodeUpstream, "evidence lookup failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

type aiParseRequest struct {
	Query  string `json:"query"`
	APIKey string `json:"apiKey"`
}

func (s *Server) handleAIParse(c *gin.Context) {
	var req aiParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "query is required")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "apiKey is required")
		return
	}

	parsed, err := s.ai.ParseQuery(c.Request.Context(), req.Query, req.APIKey)
	if err != nil {
		s.logger.WithError(err).Warn("AI parse failed")
		errorJSON(c, http.StatusBadGateway, domain.ErrCodeUpstream, "model request failed")
		return
	}
	c.JSON(http.StatusOK, parsed)
}

type aiSummaryRequest struct {
	Query   string          `json:"query"`
	Results json.RawMessage `json:"results"`
	APIKey  string          `json:"apiKey"`
}

func (s *Server) handleAISummary(c *gin.Context) {
	var req aiSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "query is required")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		errorJSON(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "apiKey is required")
		return
	}

	summary, err := s.ai.Summarize(c.Request.Context(), req.Results, req.Query, req.APIKey)
	if err != nil {
		s.logger.WithError(err).Warn("AI summary failed")
		errorJSON(c, http.StatusBadGateway, domain.ErrCodeUpstream, "model request failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// requestLogger logs one line per request with the correlation ID attached.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"latency_ms":     time.Since(start).Milliseconds(),
			"client_ip":      c.ClientIP(),
			"correlation_id": c.GetString("correlation_id"),
		}).Info("Request handled")
	}
}
