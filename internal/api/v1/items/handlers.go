// Package items adds the barcode endpoint to the inventory resource.
package items

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"suitadmin/internal/api/auth"
	"suitadmin/internal/api/respond"
	"suitadmin/internal/apierr"
	"suitadmin/internal/barcode"
	"suitadmin/internal/client"
)

// ItemGetter fetches a single item.
type ItemGetter interface {
	Get(ctx context.Context, id string) (client.Item, error)
}

// Handler serves item barcodes.
type Handler struct {
	items ItemGetter
}

// NewHandler creates an item handler.
func NewHandler(items ItemGetter) *Handler {
	return &Handler{items: items}
}

// Barcode handles GET /api/v1/items/:id/barcode
//
// Renders the item's code as a PNG. The optional size query parameter is
// the width in pixels and is clamped to the supported range. format picks
// code128 (the default) or qr.
func (h *Handler) Barcode(c *gin.Context) {
	sym, err := barcode.ParseSymbology(c.Query("format"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	size := barcode.DefaultSize
	if s := c.Query("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respond.Error(c, &apierr.Error{
				Code:    apierr.CodeValidation,
				Message: "size must be a whole number of pixels",
				Field:   "size",
			})
			return
		}
		size = n
	}

	item, err := h.items.Get(auth.RemoteContext(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	png, err := barcode.Render(item.Code, size, sym)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, barcode.ContentType, png)
}
