package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"suitadmin/internal/api/respond"
	v1 "suitadmin/internal/api/v1"
	"suitadmin/internal/apierr"
)

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	baseHandler := NewHandler(s.deps.Storage, s.deps.Client)

	apiGroup := s.router.Group("/api")

	// Base endpoints (no authentication required)
	apiGroup.GET("/ping", baseHandler.Ping)
	apiGroup.GET("/health", baseHandler.Health)

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/login", s.authHandler.Login)
		authGroup.POST("/logout", s.authHandler.Logout)
		authGroup.GET("/me", s.authHandler.RequireSession(), s.authHandler.Me)
	}

	v1Group := apiGroup.Group("/v1")
	v1Group.Use(s.authHandler.RequireSession())

	v1.SetupRoutes(v1Group, v1.Deps{
		Client:     s.deps.Client,
		Attendance: s.deps.Attendance,
		Format:     s.deps.Format,
	})

	s.router.NoRoute(s.noRoute)
}

// noRoute answers unknown API paths with NOT_FOUND and, when a static
// directory is configured, serves the dashboard's index for everything else.
func (s *Server) noRoute(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || s.config.StaticDir == "" {
		respond.Error(c, apierr.New(apierr.CodeNotFound, "Resource not found"))
		return
	}

	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		respond.Error(c, apierr.New(apierr.CodeNotFound, "Resource not found"))
		return
	}

	// Serve the asset when it exists, the single page app's index otherwise.
	clean := filepath.Clean("/" + c.Request.URL.Path)
	asset := filepath.Join(s.config.StaticDir, clean)
	if info, err := os.Stat(asset); err == nil && !info.IsDir() {
		c.File(asset)
		return
	}
	c.File(filepath.Join(s.config.StaticDir, "index.html"))
}
