package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmoreas/library-admin/internal/domain/book"
)

// Enums exposes the fixed genre/category sets the UI renders as selects.
func Enums(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"genres":     book.Genres,
		"categories": book.Categories,
	})
}
