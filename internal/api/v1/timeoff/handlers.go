// Package timeoff adds the approve and reject actions to time off requests.
package timeoff

import (
	"context"

	"github.com/gin-gonic/gin"

	"suitadmin/internal/api/auth"
	"suitadmin/internal/api/respond"
	"suitadmin/internal/client"
)

// Reviewer decides pending time off requests.
type Reviewer interface {
	Approve(ctx context.Context, id string, review client.ReviewInput) (client.TimeOff, error)
	Reject(ctx context.Context, id string, review client.ReviewInput) (client.TimeOff, error)
}

// Handler serves time-off review.
type Handler struct {
	reviewer Reviewer
}

// NewHandler creates a time-off handler.
func NewHandler(reviewer Reviewer) *Handler {
	return &Handler{reviewer: reviewer}
}

// Approve handles POST /api/v1/timeoff/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	h.review(c, h.reviewer.Approve)
}

// Reject handles POST /api/v1/timeoff/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	h.review(c, h.reviewer.Reject)
}

func (h *Handler) review(c *gin.Context, fn func(context.Context, string, client.ReviewInput) (client.TimeOff, error)) {
	// The note is optional, so an empty body is accepted.
	var in client.ReviewInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			respond.BindError(c, err)
			return
		}
	}

	rec, err := fn(auth.RemoteContext(c), c.Param("id"), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, rec)
}
