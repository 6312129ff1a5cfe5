package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"suitadmin/internal/api/respond"
	"suitadmin/internal/apierr"
	"suitadmin/internal/client"
	"suitadmin/internal/storage"
)

const sessionKey = "auth.session"

// RequireSession resolves the caller's session from the session cookie or an
// "Authorization: Bearer <session id>" header. When a later handler fails
// with an auth error from the rental API, the session is deleted and the
// cookie cleared.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := h.sessionID(c)
		if id == "" {
			respond.Error(c, apierr.New(apierr.CodeUnauthorized, "Authentication required"))
			return
		}

		sess, err := h.sessions.Active(c.Request.Context(), id, h.now())
		if err != nil {
			if apierr.IsAuthError(err) {
				h.clearCookie(c)
			}
			respond.Error(c, err)
			return
		}

		if err := h.sessions.Touch(c.Request.Context(), sess.ID, h.now()); err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to touch session")
		}

		c.Set(sessionKey, sess)
		respond.OnAuthError(c, h.endSession)
		c.Next()
	}
}

// RequireRole allows only sessions whose role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil {
			respond.Error(c, apierr.New(apierr.CodeUnauthorized, "Authentication required"))
			return
		}
		for _, r := range roles {
			if sess.Role == r {
				c.Next()
				return
			}
		}
		respond.Error(c, apierr.New(apierr.CodeForbidden, "Access denied"))
	}
}

// SessionFrom returns the session resolved by RequireSession, or nil.
func SessionFrom(c *gin.Context) *storage.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*storage.Session)
	return sess
}

// RemoteContext returns the request context carrying the session's bearer
// token and the request id for calls to the rental API.
func RemoteContext(c *gin.Context) context.Context {
	ctx := client.WithRequestID(c.Request.Context(), respond.RequestID(c))
	if sess := SessionFrom(c); sess != nil {
		ctx = client.WithToken(ctx, sess.Token)
	}
	return ctx
}

// endSession drops the current session after the rental API rejected its
// token.
func (h *Handler) endSession(c *gin.Context) {
	sess := SessionFrom(c)
	if sess == nil {
		return
	}
	if err := h.sessions.Delete(context.WithoutCancel(c.Request.Context()), sess.ID); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to delete rejected session")
	}
	h.clearCookie(c)
	log.Info().Str("user_id", sess.UserID).Msg("Session ended after remote auth failure")
}

func (h *Handler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(h.cfg.CookieName); err == nil && id != "" {
		return id
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (h *Handler) setCookie(c *gin.Context, id string, expires time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(expires.Sub(h.now()).Seconds())
	c.SetCookie(h.cfg.CookieName, id, maxAge, "/", "", h.cfg.Secure, true)
}

func (h *Handler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.Secure, true)
}
