package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"suitadmin/internal/api/respond"
	"suitadmin/internal/client"
	"suitadmin/internal/storage"
)

// Handler manages public endpoints used by load balancers and uptime
// monitors.
type Handler struct {
	storage   *storage.Storage
	client    *client.Client
	startTime time.Time
}

// NewHandler initializes a new public API handler. storage may be nil in
// tests.
func NewHandler(storage *storage.Storage, client *client.Client) *Handler {
	return &Handler{
		storage:   storage,
		client:    client,
		startTime: time.Now(),
	}
}

// Ping handles GET /api/ping
//
// Response:
//   - 200 OK with {"message": "pong"}
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

// Health handles GET /api/health
//
// Reports the local database and the configured rental API. Overall status
// is "healthy" only if the database answers; the rental API is not probed
// because its availability is reported by every proxied request.
//
// Response:
//   - 200 OK when healthy
//   - 503 Service Unavailable when degraded
func (h *Handler) Health(c *gin.Context) {
	dbStatus, dbResponseTime := h.checkDatabaseHealth(c.Request.Context())

	overallStatus := "healthy"
	code := http.StatusOK
	if dbStatus != "healthy" {
		overallStatus = "degraded"
		code = http.StatusServiceUnavailable
	}

	remote := gin.H{"configured": h.client != nil}
	if h.client != nil {
		remote["base_url"] = h.client.BaseURL()
	}

	c.JSON(code, gin.H{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"version":   respond.Version,
		"components": gin.H{
			"database": gin.H{
				"status":           dbStatus,
				"response_time_ms": dbResponseTime,
			},
			"remote": remote,
		},
	})
}

// checkDatabaseHealth pings the database and measures the round trip.
func (h *Handler) checkDatabaseHealth(ctx context.Context) (string, int64) {
	if h.storage == nil {
		return "unhealthy", 0
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.storage.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()
	if err != nil {
		return "unhealthy", responseTime
	}
	return "healthy", responseTime
}
