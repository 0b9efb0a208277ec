package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rmoreas/library-admin/internal/catalog"
	"github.com/rmoreas/library-admin/internal/domain/book"
	"github.com/rmoreas/library-admin/internal/http/handlers"
)

// Fake catalog implementing handlers.Catalog

type fakeCatalog struct {
	listFn   func(ctx context.Context) ([]book.Book, error)
	createFn func(ctx context.Context, req book.CreateBookRequest) (book.Book, error)
	updateFn func(ctx context.Context, id int, req book.UpdateBookRequest) (book.Book, error)
	deleteFn func(ctx context.Context, id int) error
}

func (f *fakeCatalog) List(ctx context.Context) ([]book.Book, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeCatalog) Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return book.Book{}, nil
}

func (f *fakeCatalog) Update(ctx context.Context, id int, req book.UpdateBookRequest) (book.Book, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return book.Book{}, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id int) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate() { f.calls++ }

func sampleBooks() []book.Book {
	return []book.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: book.GenreSciFi, Category: book.CategoryPhysical},
		{ID: 2, Title: "Foundation", Author: "Isaac Asimov", Genre: book.GenreSciFi, Category: book.CategoryEbook},
		{ID: 3, Title: "Clean Code", Author: "Robert Martin", Genre: book.GenreTechnical, Category: book.CategoryPhysical},
	}
}

func TestListBooksHandler(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		catalogSetUp   func(*fakeCatalog)
		wantStatusCode int
		wantFiltered   int
		wantTotal      int
	}{
		{
			name:  "no_filter",
			query: "",
			catalogSetUp: func(f *fakeCatalog) {
				f.listFn = func(ctx context.Context) ([]book.Book, error) { return sampleBooks(), nil }
			},
			wantStatusCode: http.StatusOK,
			wantFiltered:   3,
			wantTotal:      3,
		},
		{
			name:  "search_lowercase_matches_title",
			query: "?search=dune",
			catalogSetUp: func(f *fakeCatalog) {
				f.listFn = func(ctx context.Context) ([]book.Book, error) { return sampleBooks(), nil }
			},
			wantStatusCode: http.StatusOK,
			wantFiltered:   1,
			wantTotal:      3,
		},
		{
			name:  "genre_filter",
			query: "?genre=Science+Fiction",
			catalogSetUp: func(f *fakeCatalog) {
				f.listFn = func(ctx context.Context) ([]book.Book, error) { return sampleBooks(), nil }
			},
			wantStatusCode: http.StatusOK,
			wantFiltered:   2,
			wantTotal:      3,
		},
		{
			name:           "unknown_genre_filter",
			query:          "?genre=Nonsense",
			catalogSetUp:   func(f *fakeCatalog) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:  "catalog_down",
			query: "",
			catalogSetUp: func(f *fakeCatalog) {
				f.listFn = func(ctx context.Context) ([]book.Book, error) { return nil, catalog.ErrUnavailable }
			},
			wantStatusCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCatalog{}

			if tt.catalogSetUp != nil {
				tt.catalogSetUp(fc)
			}

			h := handlers.NewBooksHandler(fc, &fakeInvalidator{})

			r := setupRouter(http.MethodGet, "/books", h.ListBooks)

			req := httptest.NewRequest(http.MethodGet, "/books"+tt.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusOK {
				return
			}

			var resp struct {
				Items         []book.Book `json:"items"`
				TotalCount    int         `json:"totalCount"`
				FilteredCount int         `json:"filteredCount"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}

			if len(resp.Items) != tt.wantFiltered || resp.FilteredCount != tt.wantFiltered {
				t.Fatalf("filtered = %d/%d, want %d", len(resp.Items), resp.FilteredCount, tt.wantFiltered)
			}

			if resp.TotalCount != tt.wantTotal {
				t.Fatalf("totalCount = %d, want %d", resp.TotalCount, tt.wantTotal)
			}
		})
	}
}

func TestCreateBookHandler(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		catalogSetUp    func(*fakeCatalog)
		wantStatusCode  int
		wantInvalidated int
	}{
		{
			name: "success",
			body: `{"title":"Dune","author":"Frank Herbert","genre":"Science Fiction","category":"Physical Book"}`,
			catalogSetUp: func(f *fakeCatalog) {
				f.createFn = func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
					return book.Book{ID: 1, Title: req.Title, Author: req.Author, Genre: book.Genre(req.Genre), Category: book.Category(req.Category)}, nil
				}
			},
			wantStatusCode:  http.StatusCreated,
			wantInvalidated: 1,
		},
		{
			name:           "missing_title",
			body:           `{"author":"A","genre":"Other","category":"Other"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "unknown_genre",
			body:           `{"title":"T","author":"A","genre":"Poetry","category":"Other"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "catalog_rejects",
			body: `{"title":"T","author":"A","genre":"Other","category":"Other"}`,
			catalogSetUp: func(f *fakeCatalog) {
				f.createFn = func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
					return book.Book{}, catalog.ErrOperationFailed
				}
			},
			wantStatusCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCatalog{}

			if tt.catalogSetUp != nil {
				tt.catalogSetUp(fc)
			}

			inv := &fakeInvalidator{}
			h := handlers.NewBooksHandler(fc, inv)

			r := setupRouter(http.MethodPost, "/books", h.CreateBook)

			req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if inv.calls != tt.wantInvalidated {
				t.Fatalf("cache invalidated %d times, want %d", inv.calls, tt.wantInvalidated)
			}
		})
	}
}

func TestDeleteBookHandler(t *testing.T) {
	fc := &fakeCatalog{}
	inv := &fakeInvalidator{}
	h := handlers.NewBooksHandler(fc, inv)

	r := setupRouter(http.MethodDelete, "/books/:id", h.DeleteBook)

	req := httptest.NewRequest(http.MethodDelete, "/books/5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204, body=%s", w.Code, w.Body.String())
	}

	if inv.calls != 1 {
		t.Fatalf("cache not invalidated after delete")
	}

	// non-numeric id never reaches the catalog
	req = httptest.NewRequest(http.MethodDelete, "/books/abc", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}
