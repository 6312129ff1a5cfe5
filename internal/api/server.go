// Package api provides the suitadmin HTTP API, built on Gin.
//
// The browser talks only to this server. Requests under /api/v1 are
// forwarded to the rental API with the bearer token held in the caller's
// session, and every response, local or relayed, uses the same envelope.
//
// Example usage:
//
//	server := api.NewServer(cfg.Server, deps)
//	err := server.Start()
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"suitadmin/internal/api/auth"
	"suitadmin/internal/attendance"
	"suitadmin/internal/client"
	"suitadmin/internal/config"
	"suitadmin/internal/format"
	"suitadmin/internal/storage"
)

// Deps are the services the server routes to.
type Deps struct {
	Client     *client.Client
	Storage    *storage.Storage
	Attendance *attendance.Service
	Format     *format.Formatter
}

// Server represents the HTTP API server.
type Server struct {
	config      config.ServerConfig
	deps        Deps
	router      *gin.Engine
	server      *http.Server
	authHandler *auth.Handler
	limiter     *RateLimiter
}

// NewServer creates a new HTTP API server instance.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	if deps.Format == nil {
		deps.Format = format.New(nil)
	}

	server := &Server{
		config:      cfg,
		deps:        deps,
		router:      gin.New(),
		authHandler: auth.NewHandler(deps.Storage.Sessions, deps.Client.Auth, cfg.Session),
	}

	server.setupMiddleware()
	server.setupRoutes()

	server.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return server
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	log.Info().Str("addr", s.config.Addr).Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	if s.limiter != nil {
		s.limiter.Stop()
	}

	return s.server.Shutdown(ctx)
}

// setupMiddleware configures middleware for the Gin router.
func (s *Server) setupMiddleware() {
	// Request ID middleware (should be first)
	s.router.Use(RequestID())
	s.router.Use(PanicRecovery())
	s.router.Use(LoggerMiddleware())
	s.router.Use(SecurityHeaders())

	if s.config.EnableCORS {
		s.router.Use(CORS(s.config.CORSOrigins))
	}

	if s.config.RateLimit.RequestsPerSecond > 0 {
		s.limiter = NewRateLimiter(s.config.RateLimit)
		s.router.Use(s.limiter.Middleware())
	}
}
