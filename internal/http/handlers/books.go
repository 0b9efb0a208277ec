package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rmoreas/library-admin/internal/aggregate"
	"github.com/rmoreas/library-admin/internal/domain/book"
)

// Catalog is the slice of the catalog client the book endpoints use.
type Catalog interface {
	List(ctx context.Context) ([]book.Book, error)
	Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error)
	Update(ctx context.Context, id int, req book.UpdateBookRequest) (book.Book, error)
	Delete(ctx context.Context, id int) error
}

// CacheInvalidator drops the dashboard's cached list after a mutation.
type CacheInvalidator interface {
	Invalidate()
}

type BooksHandler struct {
	catalog Catalog
	cache   CacheInvalidator
}

func NewBooksHandler(catalog Catalog, cache CacheInvalidator) *BooksHandler {
	return &BooksHandler{catalog: catalog, cache: cache}
}

// ListBooks fetches the whole catalog and applies the list-view filters
// server-side: ?search= matches title or author case-insensitively,
// ?genre= and ?category= are repeatable and conjunctive.
func (h *BooksHandler) ListBooks(ctx *gin.Context) {
	books, err := h.catalog.List(ctx.Request.Context())

	if err != nil {
		RespondCatalogError(ctx, err)
		return
	}

	filter, ok := filterFromQuery(ctx)
	if !ok {
		return
	}

	filtered := aggregate.ApplyFilter(books, filter)
	view := aggregate.Summarize(books, filter)

	ctx.JSON(http.StatusOK, gin.H{
		"items":           filtered,
		"totalCount":      view.TotalCount,
		"filteredCount":   view.FilteredCount,
		"percentFiltered": view.PercentFiltered,
	})
}

func (h *BooksHandler) CreateBook(ctx *gin.Context) {
	var req book.CreateBookRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !validEnums(ctx, req.Genre, req.Category) {
		return
	}

	created, err := h.catalog.Create(ctx.Request.Context(), req)

	if err != nil {
		RespondCatalogError(ctx, err)
		return
	}

	h.cache.Invalidate()

	ctx.JSON(http.StatusCreated, created)
}

func (h *BooksHandler) UpdateBook(ctx *gin.Context) {
	id, ok := bookID(ctx)
	if !ok {
		return
	}

	var req book.UpdateBookRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !validEnums(ctx, req.Genre, req.Category) {
		return
	}

	updated, err := h.catalog.Update(ctx.Request.Context(), id, req)

	if err != nil {
		RespondCatalogError(ctx, err)
		return
	}

	h.cache.Invalidate()

	ctx.JSON(http.StatusOK, updated)
}

func (h *BooksHandler) DeleteBook(ctx *gin.Context) {
	id, ok := bookID(ctx)
	if !ok {
		return
	}

	if err := h.catalog.Delete(ctx.Request.Context(), id); err != nil {
		RespondCatalogError(ctx, err)
		return
	}

	h.cache.Invalidate()

	ctx.Status(http.StatusNoContent)
}

func bookID(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid book id", nil)
		return 0, false
	}

	return id, true
}

// validEnums rejects genre/category values outside the closed sets before
// anything reaches the catalog backend.
func validEnums(ctx *gin.Context, genre, category string) bool {
	var fields []FieldError

	if !book.Genre(genre).Valid() {
		fields = append(fields, FieldError{
			Field:   "genre",
			Rule:    "enum",
			Message: "is not a known genre",
		})
	}

	if !book.Category(category).Valid() {
		fields = append(fields, FieldError{
			Field:   "category",
			Rule:    "enum",
			Message: "is not a known category",
		})
	}

	if len(fields) > 0 {
		RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": fields})
		return false
	}

	return true
}

func filterFromQuery(ctx *gin.Context) (aggregate.Filter, bool) {
	f := aggregate.Filter{
		Search: ctx.Query("search"),
	}

	for _, g := range ctx.QueryArray("genre") {
		genre := book.Genre(g)

		if !genre.Valid() {
			RespondBadRequest(ctx, "Unknown genre filter: "+g, nil)
			return aggregate.Filter{}, false
		}

		f.Genres = append(f.Genres, genre)
	}

	for _, c := range ctx.QueryArray("category") {
		category := book.Category(c)

		if !category.Valid() {
			RespondBadRequest(ctx, "Unknown category filter: "+c, nil)
			return aggregate.Filter{}, false
		}

		f.Categories = append(f.Categories, category)
	}

	return f, true
}
