// Package auth handles dashboard sign-in.
//
// The rental API issues the bearer token; suitadmin keeps it in a server-side
// session and gives the browser only an opaque session id, sent back as a
// cookie or as a bearer header.
package auth

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"suitadmin/internal/api/respond"
	"suitadmin/internal/apierr"
	"suitadmin/internal/client"
	"suitadmin/internal/config"
	"suitadmin/internal/storage"
)

// SessionStore persists sessions.
type SessionStore interface {
	Create(ctx context.Context, s *storage.Session) error
	Active(ctx context.Context, id string, now time.Time) (*storage.Session, error)
	Touch(ctx context.Context, id string, now time.Time) error
	Delete(ctx context.Context, id any) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Authenticator is the rental API's auth surface.
type Authenticator interface {
	Login(ctx context.Context, req client.LoginRequest) (client.LoginResult, error)
	Me(ctx context.Context) (client.User, error)
	Logout(ctx context.Context) error
}

// Handler handles authentication-related HTTP requests.
type Handler struct {
	sessions SessionStore
	auth     Authenticator
	cfg      config.SessionConfig
	now      func() time.Time
}

// NewHandler creates a new authentication handler.
func NewHandler(sessions SessionStore, auth Authenticator, cfg config.SessionConfig) *Handler {
	return &Handler{sessions: sessions, auth: auth, cfg: cfg, now: time.Now}
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	SessionID string      `json:"session_id"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      client.User `json:"user"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req client.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	res, err := h.auth.Login(RemoteContext(c), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if res.Token == "" {
		respond.Error(c, apierr.New(apierr.CodeInvalidResponse, "Login response carried no token"))
		return
	}

	ctx := c.Request.Context()
	now := h.now()
	if n, err := h.sessions.DeleteExpired(ctx, now); err != nil {
		log.Warn().Err(err).Msg("Failed to prune expired sessions")
	} else if n > 0 {
		log.Debug().Int64("count", n).Msg("Pruned expired sessions")
	}

	expires := sessionExpiry(now, h.cfg.TTL, res.Token, res.ExpiresAt)
	if !expires.After(now) {
		respond.Error(c, apierr.New(apierr.CodeTokenExpired, "Token is already expired"))
		return
	}

	sess := &storage.Session{
		Token:      res.Token,
		UserID:     res.User.ID,
		UserName:   res.User.Name,
		Email:      res.User.Email,
		Role:       res.User.Role,
		ExpiresAt:  expires,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := h.sessions.Create(ctx, sess); err != nil {
		respond.Error(c, err)
		return
	}

	h.setCookie(c, sess.ID, expires)
	log.Info().Str("user_id", sess.UserID).Str("role", sess.Role).Msg("User logged in")

	respond.OK(c, LoginResponse{SessionID: sess.ID, ExpiresAt: expires, User: res.User})
}

// Logout handles POST /api/auth/logout. It succeeds even without a session.
// With ?all=true every session of the user is ended, on every device.
func (h *Handler) Logout(c *gin.Context) {
	h.clearCookie(c)

	id := h.sessionID(c)
	if id == "" {
		respond.Message(c, "Logged out successfully")
		return
	}

	ctx := c.Request.Context()
	if sess, err := h.sessions.Active(ctx, id, h.now()); err == nil {
		remote := client.WithRequestID(client.WithToken(ctx, sess.Token), respond.RequestID(c))
		if err := h.auth.Logout(remote); err != nil {
			log.Warn().Err(err).Str("user_id", sess.UserID).Msg("Remote logout failed")
		}
		if c.Query("all") == "true" {
			n, err := h.sessions.DeleteByUser(ctx, sess.UserID)
			if err != nil {
				respond.Error(c, err)
				return
			}
			log.Info().Str("user_id", sess.UserID).Int64("count", n).Msg("Signed out everywhere")
		} else if err := h.sessions.Delete(ctx, sess.ID); err != nil {
			respond.Error(c, err)
			return
		}
	}

	respond.Message(c, "Logged out successfully")
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.auth.Me(RemoteContext(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, user)
}
