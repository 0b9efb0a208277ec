package book

import "errors"

// Book is owned by the external catalog API; this service only reads,
// forwards and aggregates it.
type Book struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Genre    Genre    `json:"genre"`
	Category Category `json:"category"`
}

type Genre string

const (
	GenreRomance   Genre = "Romance"
	GenreSciFi     Genre = "Science Fiction"
	GenreFantasy   Genre = "Fantasy"
	GenreTechnical Genre = "Technical"
	GenreBiography Genre = "Biography"
	GenreHistory   Genre = "History"
	GenreSelfHelp  Genre = "Self-help"
	GenreChildrens Genre = "Children's"
	GenreOther     Genre = "Other"
)

// Genres is the closed set accepted by the UI, in display order.
var Genres = []Genre{
	GenreRomance, GenreSciFi, GenreFantasy, GenreTechnical, GenreBiography,
	GenreHistory, GenreSelfHelp, GenreChildrens, GenreOther,
}

func (g Genre) Valid() bool {
	for _, v := range Genres {
		if g == v {
			return true
		}
	}
	return false
}

type Category string

const (
	CategoryPhysical  Category = "Physical Book"
	CategoryEbook     Category = "E-book"
	CategoryAudiobook Category = "Audiobook"
	CategoryMagazine  Category = "Magazine"
	CategoryArticle   Category = "Article"
	CategoryOther     Category = "Other"
)

var Categories = []Category{
	CategoryPhysical, CategoryEbook, CategoryAudiobook,
	CategoryMagazine, CategoryArticle, CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

var ErrNotFound = errors.New("book not found")

// The genre/category values contain spaces, so they cannot be expressed as
// a validator `oneof` tag; handlers check Valid() after binding.
type CreateBookRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Author   string `json:"author" binding:"required,max=120"`
	Genre    string `json:"genre" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// A full update payload; the catalog API has no partial update.
type UpdateBookRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Author   string `json:"author" binding:"required,max=120"`
	Genre    string `json:"genre" binding:"required"`
	Category string `json:"category" binding:"required"`
}
