package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medlit-search-server/internal/domain"
	"github.com/medlit-search-server/internal/middleware"
	"github.com/medlit-search-server/internal/service"
	"github.com/medlit-search-server/pkg/external"
)

// MeSHLookup resolves MeSH term suggestions for a query.
type MeSHLookup interface {
	Lookup(ctx context.Context, query string) []string
}

// Server is the HTTP surface of the federated search service.
type Server struct {
	config       *domain.Config
	router       *gin.Engine
	server       *http.Server
	orchestrator *service.Orchestrator
	cqEvidence   *service.CQEvidence
	local        *service.LocalSearch
	translator   service.Translator
	mesh         MeSHLookup
	ai           *external.AIClient
	breakers     *external.BreakerRegistry
	logger       *logrus.Logger
}

// Deps bundles everything the server needs.
type Deps struct {
	Config       *domain.Config
	Orchestrator *service.Orchestrator
	CQEvidence   *service.CQEvidence
	Local        *service.LocalSearch
	Translator   service.Translator
	MeSH         MeSHLookup
	AI           *external.AIClient
	Breakers     *external.BreakerRegistry
	Logger       *logrus.Logger
}

// NewServer creates the HTTP server with all middleware and routes wired.
func NewServer(deps Deps) *Server {
	if deps.Config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.CORS(deps.Config.CORS))

	s := &Server{
		config:       deps.Config,
		router:       router,
		orchestrator: deps.Orchestrator,
		cqEvidence:   deps.CQEvidence,
		local:        deps.Local,
		translator:   deps.Translator,
		mesh:         deps.MeSH,
		ai:           deps.AI,
		breakers:     deps.Breakers,
		logger:       deps.Logger,
	}
	s.setupRoutes()
	return s
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	limiter := middleware.NewRateLimiter(s.config.RateLimit, s.logger)
	api := s.router.Group("/api")
	api.Use(limiter.Middleware())
	{
		api.GET("/search", s.handleSearch)
		api.GET("/mesh", s.handleMeSH)
		api.GET("/suggest", s.handleSuggest)
		api.GET("/translate", s.handleTranslate)
		api.GET("/cq/list", s.handleCQList)
		api.GET("/cq/evidence", s.handleCQEvidence)

		api.POST("/ai/parse", s.handleAIParse)
		api.POST("/ai/summary", s.handleAISummary)
	}

	s.router.HandleMethodNotAllowed = true
	s.router.NoMethod(s.handleMethodNotAllowed)
	s.router.NoRoute(func(c *gin.Context) {
		errorJSON(c, http.StatusNotFound, domain.ErrCodeInvalidInput, "unknown endpoint")
	})
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
