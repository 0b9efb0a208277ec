package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmoreas/library-admin/internal/aggregate"
	"github.com/rmoreas/library-admin/internal/domain/book"
)

// DashboardSource is the TTL-cached list; the dashboard never filters, so
// it only needs the one read.
type DashboardSource interface {
	List(ctx context.Context) ([]book.Book, error)
}

type DashboardHandler struct {
	source DashboardSource
}

func NewDashboardHandler(source DashboardSource) *DashboardHandler {
	return &DashboardHandler{source: source}
}

// Dashboard returns the aggregate view over the whole catalog. Data may be
// up to one cache TTL stale; the ETag lets clients skip re-downloading an
// unchanged view.
func (h *DashboardHandler) Dashboard(ctx *gin.Context) {
	books, err := h.source.List(ctx.Request.Context())

	if err != nil {
		RespondCatalogError(ctx, err)
		return
	}

	view := aggregate.Summarize(books, aggregate.Filter{})

	// the dashboard has no list view; drop the redundant filtered slice
	view.Filtered = nil

	RespondJSONWithETag(ctx, http.StatusOK, view)
}
