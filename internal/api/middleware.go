package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"suitadmin/internal/api/respond"
	"suitadmin/internal/apierr"
	"suitadmin/internal/config"
)

// RequestID assigns every request an id, reusing a well-formed incoming
// X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(respond.RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(respond.RequestIDKey, id)
		c.Header(respond.RequestIDHeader, id)
		c.Next()
	}
}

// PanicRecovery turns a panic into an INTERNAL_ERROR envelope.
func PanicRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", respond.RequestID(c)).
					Str("panic", fmt.Sprint(r)).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic")
				respond.Error(c, apierr.New(apierr.CodeInternal, "Internal server error"))
			}
		}()
		c.Next()
	}
}

// LoggerMiddleware writes one access log line per request.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}

		event.
			Str("request_id", respond.RequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("size", c.Writer.Size()).
			Msg("HTTP request")
	}
}

// SecurityHeaders sets conservative browser security headers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		c.Next()
	}
}

// CORS allows the configured origins. A "*" entry allows every origin
// without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", respond.RequestIDHeader}
	cfg.ExposeHeaders = []string{respond.RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour

	allowAll := len(origins) == 0
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// RateLimiter is a token bucket per client IP.
type RateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	idle     time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	seen    time.Time
}

// NewRateLimiter creates a limiter and starts its cleanup loop. Call Stop
// to end the loop.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		rate:  rate.Limit(cfg.RequestsPerSecond),
		burst: cfg.Burst,
		idle:  10 * time.Minute,
		stop:  make(chan struct{}),
	}
	go rl.cleanup(time.Minute)
	return rl
}

// Stop ends the cleanup loop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.limiters.Range(func(key, value any) bool {
				e := value.(*limiterEntry)
				e.mu.Lock()
				stale := now.Sub(e.seen) > rl.idle
				e.mu.Unlock()
				if stale {
					rl.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

// Allow reports whether a request from key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	v, ok := rl.limiters.Load(key)
	if !ok {
		v, _ = rl.limiters.LoadOrStore(key, &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)})
	}
	e := v.(*limiterEntry)
	e.mu.Lock()
	e.seen = time.Now()
	e.mu.Unlock()
	return e.limiter.Allow()
}

// Middleware rejects requests over the limit with RATE_LIMIT_EXCEEDED.
// Health probes are never limited.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/api/ping", "/api/health":
			c.Next()
			return
		}

		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			respond.Error(c, apierr.New(apierr.CodeRateLimitExceeded, "Too many requests, please slow down"))
			return
		}
		c.Next()
	}
}
