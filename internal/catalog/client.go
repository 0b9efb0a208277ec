package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rmoreas/library-admin/internal/domain/book"
)

var (
	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable = errors.New("catalog unavailable")
	// ErrOperationFailed means the backend answered with a non-success status.
	ErrOperationFailed = errors.New("catalog operation failed")
)

// livro is the wire shape of the catalog API (Portuguese field names).
type livro struct {
	ID        int    `json:"id"`
	Titulo    string `json:"titulo"`
	Autor     string `json:"autor"`
	Genero    string `json:"genero"`
	Categoria string `json:"categoria"`
}

func (l livro) toBook() book.Book {
	return book.Book{
		ID:       l.ID,
		Title:    l.Titulo,
		Author:   l.Autor,
		Genre:    book.Genre(l.Genero),
		Category: book.Category(l.Categoria),
	}
}

type livroPayload struct {
	Titulo    string `json:"titulo"`
	Autor     string `json:"autor"`
	Genero    string `json:"genero"`
	Categoria string `json:"categoria"`
}

type Observer interface {
	ObserveCatalog(op string, fn func() error) error
}

// Client is a typed HTTP client for the external book API. Failures are
// folded into the two sentinel errors; there is no retry.
type Client struct {
	baseURL string
	httpc   *http.Client
	obs     Observer
}

func NewClient(baseURL string, obs Observer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
		obs: obs,
	}
}

func (c *Client) List(ctx context.Context) ([]book.Book, error) {
	var out []book.Book

	err := c.observe("list", func() error {
		body, err := c.do(ctx, http.MethodGet, "/livros", nil, http.StatusOK)
		if err != nil {
			return err
		}

		var livros []livro

		if err := json.Unmarshal(body, &livros); err != nil {
			return fmt.Errorf("%w: decode list: %v", ErrOperationFailed, err)
		}

		out = make([]book.Book, 0, len(livros))
		for _, l := range livros {
			out = append(out, l.toBook())
		}

		return nil
	})

	return out, err
}

func (c *Client) Get(ctx context.Context, id int) (book.Book, error) {
	var out book.Book

	err := c.observe("get", func() error {
		body, err := c.do(ctx, http.MethodGet, "/livros/"+strconv.Itoa(id), nil, http.StatusOK)
		if err != nil {
			return err
		}

		return decodeLivro(body, &out)
	})

	return out, err
}

func (c *Client) Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
	var out book.Book

	err := c.observe("create", func() error {
		payload := livroPayload{
			Titulo:    req.Title,
			Autor:     req.Author,
			Genero:    req.Genre,
			Categoria: req.Category,
		}

		body, err := c.do(ctx, http.MethodPost, "/livros", payload, http.StatusCreated)
		if err != nil {
			return err
		}

		return decodeLivro(body, &out)
	})

	return out, err
}

func (c *Client) Update(ctx context.Context, id int, req book.UpdateBookRequest) (book.Book, error) {
	var out book.Book

	err := c.observe("update", func() error {
		payload := livroPayload{
			Titulo:    req.Title,
			Autor:     req.Author,
			Genero:    req.Genre,
			Categoria: req.Category,
		}

		body, err := c.do(ctx, http.MethodPut, "/livros/"+strconv.Itoa(id), payload, http.StatusOK)
		if err != nil {
			return err
		}

		if err := decodeLivro(body, &out); err != nil {
			return err
		}

		// some backends echo the payload without the id
		if out.ID == 0 {
			out.ID = id
		}

		return nil
	})

	return out, err
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.observe("delete", func() error {
		_, err := c.do(ctx, http.MethodDelete, "/livros/"+strconv.Itoa(id), nil, http.StatusNoContent)

		return err
	})
}

func (c *Client) observe(op string, fn func() error) error {
	if c.obs == nil {
		return fn()
	}

	return c.obs.ObserveCatalog(op, fn)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, wantStatus int) ([]byte, error) {
	var reqBody io.Reader

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: encode: %v", ErrOperationFailed, err)
		}

		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpc.Do(req)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)

	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if res.StatusCode != wantStatus {
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrOperationFailed, method, path, res.StatusCode)
	}

	return body, nil
}

func decodeLivro(body []byte, out *book.Book) error {
	var l livro

	if err := json.Unmarshal(body, &l); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrOperationFailed, err)
	}

	*out = l.toBook()

	return nil
}
