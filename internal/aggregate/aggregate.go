package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/rmoreas/library-admin/internal/domain/book"
)

// Filter narrows the list view. Empty/zero fields mean "no constraint";
// set fields combine conjunctively.
type Filter struct {
	Search     string
	Genres     []book.Genre
	Categories []book.Category
}

func (f Filter) matches(b book.Book) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)

		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) {
			return false
		}
	}

	if len(f.Genres) > 0 && !containsGenre(f.Genres, b.Genre) {
		return false
	}

	if len(f.Categories) > 0 && !containsCategory(f.Categories, b.Category) {
		return false
	}

	return true
}

type DistributionRow struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type AuthorRow struct {
	Author  string  `json:"author"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// AuthorBucket partitions distinct authors by how many books they have.
// The three counts are mutually exclusive and cover every distinct author.
type AuthorBucket struct {
	Single int `json:"single"` // exactly 1 book
	Small  int `json:"small"`  // 2-5 books
	Large  int `json:"large"`  // more than 5 books
}

// View is recomputed per request; nothing here is persisted.
type View struct {
	Filtered         []book.Book       `json:"filtered"`
	TotalCount       int               `json:"totalCount"`
	FilteredCount    int               `json:"filteredCount"`
	PercentFiltered  float64           `json:"percentFiltered"`
	UniqueAuthors    int               `json:"uniqueAuthors"`
	UniqueGenres     int               `json:"uniqueGenres"`
	UniqueCategories int               `json:"uniqueCategories"`
	GenreDist        []DistributionRow `json:"genreDistribution"`
	CategoryDist     []DistributionRow `json:"categoryDistribution"`
	TopAuthors       []AuthorRow       `json:"topAuthors"`
	AuthorBucket     AuthorBucket      `json:"authorBucket"`
}

// ApplyFilter returns the books passing the filter, preserving input order.
func ApplyFilter(books []book.Book, f Filter) []book.Book {
	out := make([]book.Book, 0, len(books))

	for _, b := range books {
		if f.matches(b) {
			out = append(out, b)
		}
	}

	return out
}

// Summarize computes the dashboard view. The distribution tables, author
// ranking and buckets always cover the full input set; only Filtered,
// FilteredCount and PercentFiltered depend on the filter. That split is
// deliberate: the dashboard reflects the whole catalog while the list view
// reflects the filtered slice.
func Summarize(books []book.Book, f Filter) View {
	filtered := ApplyFilter(books, f)

	total := len(books)

	v := View{
		Filtered:      filtered,
		TotalCount:    total,
		FilteredCount: len(filtered),
	}

	if total > 0 {
		v.PercentFiltered = round1(float64(len(filtered)) / float64(total) * 100)
	}

	genreCounts := newCounter()
	categoryCounts := newCounter()
	authorCounts := newCounter()

	for _, b := range books {
		genreCounts.add(string(b.Genre))
		categoryCounts.add(string(b.Category))
		authorCounts.add(b.Author)
	}

	v.UniqueAuthors = len(authorCounts.counts)
	v.UniqueGenres = len(genreCounts.counts)
	v.UniqueCategories = len(categoryCounts.counts)

	v.GenreDist = distribution(genreCounts, total)
	v.CategoryDist = distribution(categoryCounts, total)
	v.TopAuthors = topAuthors(authorCounts, total, 10)
	v.AuthorBucket = bucketAuthors(authorCounts)

	return v
}

// counter tracks counts plus first-appearance order so that ties sort
// deterministically by input order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// sorted returns keys by count descending, ties by first appearance.
func (c *counter) sorted() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)

	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})

	return keys
}

func distribution(c *counter, total int) []DistributionRow {
	keys := c.sorted()
	rows := make([]DistributionRow, 0, len(keys))

	for _, k := range keys {
		rows = append(rows, DistributionRow{
			Value:   k,
			Count:   c.counts[k],
			Percent: percent(c.counts[k], total),
		})
	}

	return rows
}

func topAuthors(c *counter, total, limit int) []AuthorRow {
	keys := c.sorted()

	if len(keys) > limit {
		keys = keys[:limit]
	}

	rows := make([]AuthorRow, 0, len(keys))

	for _, k := range keys {
		rows = append(rows, AuthorRow{
			Author:  k,
			Count:   c.counts[k],
			Percent: percent(c.counts[k], total),
		})
	}

	return rows
}

func bucketAuthors(c *counter) AuthorBucket {
	var b AuthorBucket

	for _, n := range c.counts {
		switch {
		case n == 1:
			b.Single++
		case n <= 5:
			b.Small++
		default:
			b.Large++
		}
	}

	return b
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}

	return round1(float64(count) / float64(total) * 100)
}

// round1 rounds half away from zero to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func containsGenre(gs []book.Genre, g book.Genre) bool {
	for _, v := range gs {
		if v == g {
			return true
		}
	}
	return false
}

func containsCategory(cs []book.Category, c book.Category) bool {
	for _, v := range cs {
		if v == c {
			return true
		}
	}
	return false
}
