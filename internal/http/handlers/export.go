package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rmoreas/library-admin/internal/export"
)

type ExportHandler struct {
	source DashboardSource
	now    func() time.Time
}

func NewExportHandler(source DashboardSource) *ExportHandler {
	return &ExportHandler{source: source, now: time.Now}
}

func (h *ExportHandler) CSV(ctx *gin.Context) {
	books, err := h.source.List(ctx.Request.Context())

	if err != nil {
		RespondCatalogError(ctx, err)
		return
	}

	data, err := export.CSV(books)

	if err != nil {
		RespondInternal(ctx, "Could not build CSV export")
		return
	}

	name := export.FileName("csv", h.now())

	ctx.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *ExportHandler) XLSX(ctx *gin.Context) {
	books, err := h.source.List(ctx.Request.Context())

	if err != nil {
		RespondCatalogError(ctx, err)
		return
	}

	data, err := export.XLSX(books)

	if err != nil {
		RespondInternal(ctx, "Could not build spreadsheet export")
		return
	}

	name := export.FileName("xlsx", h.now())

	ctx.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
