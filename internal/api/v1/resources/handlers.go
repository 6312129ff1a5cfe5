// Package resources implements the CRUD endpoints shared by every rental
// resource. Each request is forwarded to the rental API with the caller's
// token and the normalized result is written back in the same envelope.
package resources

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"

	"suitadmin/internal/api/auth"
	"suitadmin/internal/api/respond"
	"suitadmin/internal/api/types"
	"suitadmin/internal/client"
)

// Backend is the CRUD surface of one remote resource.
type Backend[T any, In any] interface {
	List(ctx context.Context, params client.ListParams) (client.Page[T], error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id string, in In) (T, error)
	Delete(ctx context.Context, id string) error
}

// Handler serves one resource.
type Handler[T any, In any] struct {
	backend Backend[T, In]
	name    string
	filters []string
}

// NewHandler creates a handler for backend. name is used in messages and
// filters lists the query parameters passed through to list requests.
func NewHandler[T any, In any](backend Backend[T, In], name string, filters ...string) *Handler[T, In] {
	return &Handler[T, In]{backend: backend, name: name, filters: filters}
}

// Register mounts the five CRUD routes on g. Extra handlers, such as a role
// check, run before the write routes.
func (h *Handler[T, In]) Register(g *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clone(writeGuards), fn)
	}

	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", guarded(h.Create)...)
	g.PUT("/:id", guarded(h.Update)...)
	g.DELETE("/:id", guarded(h.Delete)...)
}

// List handles GET on the collection.
//
// Query parameters:
//   - page (default: 1, min: 1)
//   - limit (default: 20, max: 100)
//   - search, sort
//   - the resource's filters
func (h *Handler[T, In]) List(c *gin.Context) {
	var req types.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	params := client.ListParams{
		Page:   req.Page,
		Limit:  req.Limit,
		Search: req.Search,
		Sort:   req.Sort,
	}
	for _, f := range h.filters {
		if v := c.Query(f); v != "" {
			if params.Filters == nil {
				params.Filters = make(map[string]string, len(h.filters))
			}
			params.Filters[f] = v
		}
	}

	page, err := h.backend.List(auth.RemoteContext(c), params)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, page.Data, page.Pagination)
}

// Get handles GET on a single record.
func (h *Handler[T, In]) Get(c *gin.Context) {
	rec, err := h.backend.Get(auth.RemoteContext(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, rec)
}

// Create handles POST on the collection.
func (h *Handler[T, In]) Create(c *gin.Context) {
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BindError(c, err)
		return
	}

	rec, err := h.backend.Create(auth.RemoteContext(c), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, rec)
}

// Update handles PUT on a single record.
func (h *Handler[T, In]) Update(c *gin.Context) {
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BindError(c, err)
		return
	}

	rec, err := h.backend.Update(auth.RemoteContext(c), c.Param("id"), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, rec)
}

// Delete handles DELETE on a single record.
func (h *Handler[T, In]) Delete(c *gin.Context) {
	if err := h.backend.Delete(auth.RemoteContext(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Message(c, h.name+" deleted successfully")
}
