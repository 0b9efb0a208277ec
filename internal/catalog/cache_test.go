package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rmoreas/library-admin/internal/domain/book"
)

type fakeLister struct {
	calls int
	books []book.Book
	err   error
}

func (f *fakeLister) List(ctx context.Context) ([]book.Book, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	return f.books, nil
}

func TestCachedListerServesWithinTTL(t *testing.T) {
	src := &fakeLister{books: []book.Book{{ID: 1, Title: "Dune"}}}

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c := NewCachedLister(src, 300*time.Second)
	c.now = func() time.Time { return clock }

	ctx := context.Background()

	if _, err := c.List(ctx); err != nil {
		t.Fatalf("first List: %v", err)
	}

	// still fresh: 299s later
	clock = clock.Add(299 * time.Second)

	if _, err := c.List(ctx); err != nil {
		t.Fatalf("cached List: %v", err)
	}

	if src.calls != 1 {
		t.Fatalf("source called %d times within TTL, want 1", src.calls)
	}

	// expired: the next read blocks on a fresh fetch
	clock = clock.Add(2 * time.Second)

	if _, err := c.List(ctx); err != nil {
		t.Fatalf("refetch: %v", err)
	}

	if src.calls != 2 {
		t.Fatalf("source called %d times after expiry, want 2", src.calls)
	}
}

func TestCachedListerInvalidate(t *testing.T) {
	src := &fakeLister{}

	c := NewCachedLister(src, time.Hour)

	ctx := context.Background()

	c.List(ctx)
	c.Invalidate()
	c.List(ctx)

	if src.calls != 2 {
		t.Fatalf("source called %d times, want 2 (invalidate must force a refetch)", src.calls)
	}
}

func TestCachedListerDoesNotCacheFailures(t *testing.T) {
	src := &fakeLister{err: errors.New("down")}

	c := NewCachedLister(src, time.Hour)

	ctx := context.Background()

	if _, err := c.List(ctx); err == nil {
		t.Fatalf("expected error from source")
	}

	src.err = nil
	src.books = []book.Book{{ID: 1}}

	books, err := c.List(ctx)

	if err != nil {
		t.Fatalf("recovery fetch: %v", err)
	}

	if len(books) != 1 {
		t.Fatalf("got %d books, want 1", len(books))
	}

	if src.calls != 2 {
		t.Fatalf("source called %d times, want 2", src.calls)
	}
}

func TestCachedListerCounters(t *testing.T) {
	src := &fakeLister{}

	hits, misses := 0, 0

	c := NewCachedLister(src, time.Hour).
		WithCacheCounters(func() { hits++ }, func() { misses++ })

	ctx := context.Background()

	c.List(ctx)
	c.List(ctx)

	if hits != 1 || misses != 1 {
		t.Fatalf("hits=%d misses=%d, want 1/1", hits, misses)
	}
}
