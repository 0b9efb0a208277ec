package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rmoreas/library-admin/internal/domain/book"
)

type Lister interface {
	List(ctx context.Context) ([]book.Book, error)
}

// CachedLister memoizes one List call for a fixed TTL. Refresh is lazy: the
// first read after expiry blocks on a fresh fetch, there is no background
// refresh. A failed fetch is not cached.
type CachedLister struct {
	mu     sync.Mutex
	src    Lister
	ttl    time.Duration
	now    func() time.Time
	hitFn  func()
	missFn func()

	books     []book.Book
	lastFetch time.Time
	valid     bool
}

func NewCachedLister(src Lister, ttl time.Duration) *CachedLister {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}

	return &CachedLister{
		src: src,
		ttl: ttl,
		now: time.Now,
	}
}

// WithCacheCounters installs hit/miss callbacks (used for metrics).
func (c *CachedLister) WithCacheCounters(hit, miss func()) *CachedLister {
	c.hitFn = hit
	c.missFn = miss
	return c
}

func (c *CachedLister) List(ctx context.Context) ([]book.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.lastFetch) < c.ttl {
		if c.hitFn != nil {
			c.hitFn()
		}

		return c.books, nil
	}

	if c.missFn != nil {
		c.missFn()
	}

	books, err := c.src.List(ctx)

	if err != nil {
		return nil, err
	}

	c.books = books
	c.lastFetch = c.now()
	c.valid = true

	return books, nil
}

// Invalidate drops the cached list; the next read fetches fresh. Mutations
// call this so the dashboard never shows a deleted book for a full TTL.
func (c *CachedLister) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.books = nil
	c.mu.Unlock()
}
