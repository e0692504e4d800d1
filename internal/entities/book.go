package entities

import (
	"database/sql/driver"
	"fmt"
)

// OptionalString is a text column that is written as NULL when empty and
// read back as "" when NULL. Installs created by the mobile client store
// absent optional values as NULL, so the mapping has to work both ways.
type OptionalString string

func (s OptionalString) Value() (driver.Value, error) {
	if s == "" {
		return nil, nil
	}
	return string(s), nil
}

func (s *OptionalString) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s = ""
	case string:
		*s = OptionalString(v)
	case []byte:
		*s = OptionalString(v)
	default:
		return fmt.Errorf("cannot scan %T into OptionalString", value)
	}
	return nil
}

func (s OptionalString) String() string {
	return string(s)
}

// UserBook is one category membership of a book. A book shown in several
// categories is stored as several rows with distinct IDs and the same ISBN;
// editing one row never touches the others.
type UserBook struct {
	ID            string         `gorm:"column:id;primaryKey" json:"id"`
	Title         string         `gorm:"column:title" json:"title"`
	Author        string         `gorm:"column:author" json:"author"`
	Excerpt       OptionalString `gorm:"column:excerpt" json:"excerpt"`
	Summary       OptionalString `gorm:"column:summary" json:"summary"`
	Image         OptionalString `gorm:"column:image" json:"image"`
	Rating        *float64       `gorm:"column:rating" json:"rating,omitempty"`
	Genres        OptionalString `gorm:"column:genres" json:"genres"` // comma-joined, no canonical order
	IsFavorite    bool           `gorm:"column:isFavorite;default:false" json:"isFavorite"`
	Category      OptionalString `gorm:"column:category;index" json:"category"`
	Publisher     OptionalString `gorm:"column:publisher" json:"publisher,omitempty"`
	PublishedDate OptionalString `gorm:"column:publishedDate" json:"publishedDate,omitempty"`
	PageCount     *int           `gorm:"column:pageCount" json:"pageCount,omitempty"`
	IsCustomBook  bool           `gorm:"column:isCustomBook;default:false" json:"isCustomBook"`
	Notes         OptionalString `gorm:"column:notes" json:"notes"`
	ISBN          OptionalString `gorm:"column:isbn;index" json:"isbn,omitempty"`
}

func (UserBook) TableName() string {
	return "userBooks"
}

// NullZeroes clears a zero rating or page count so it is stored as NULL.
func (b *UserBook) NullZeroes() {
	b.Rating, b.PageCount = nullZeroRating(b.Rating), nullZeroPages(b.PageCount)
}

// RecommendedBook is a catalog suggestion. Rows are de-duplicated by ISBN,
// not by ID.
type RecommendedBook struct {
	ID            string         `gorm:"column:id;primaryKey" json:"id"`
	Title         string         `gorm:"column:title" json:"title"`
	Author        string         `gorm:"column:author" json:"author"`
	Excerpt       OptionalString `gorm:"column:excerpt" json:"excerpt"`
	Summary       OptionalString `gorm:"column:summary" json:"summary"`
	Image         OptionalString `gorm:"column:image" json:"image"`
	Rating        *float64       `gorm:"column:rating" json:"rating,omitempty"`
	Genres        OptionalString `gorm:"column:genres" json:"genres"`
	AddToLibrary  bool           `gorm:"column:addToLibrary;default:false" json:"addToLibrary"`
	Publisher     OptionalString `gorm:"column:publisher" json:"publisher,omitempty"`
	PublishedDate OptionalString `gorm:"column:publishedDate" json:"publishedDate,omitempty"`
	PageCount     *int           `gorm:"column:pageCount" json:"pageCount,omitempty"`
	Notes         OptionalString `gorm:"column:notes" json:"notes"`
	ISBN          OptionalString `gorm:"column:isbn;index" json:"isbn,omitempty"`
}

func (RecommendedBook) TableName() string {
	return "recommendedBooks"
}

func (b *RecommendedBook) NullZeroes() {
	b.Rating, b.PageCount = nullZeroRating(b.Rating), nullZeroPages(b.PageCount)
}

func nullZeroRating(rating *float64) *float64 {
	if rating == nil || *rating == 0 {
		return nil
	}
	return rating
}

func nullZeroPages(pages *int) *int {
	if pages == nil || *pages == 0 {
		return nil
	}
	return pages
}

// ToUserBook copies the catalog content of a recommendation into a new,
// not yet persisted library row for the given category.
func (r RecommendedBook) ToUserBook(category string) UserBook {
	return UserBook{
		Title:         r.Title,
		Author:        r.Author,
		Excerpt:       r.Excerpt,
		Summary:       r.Summary,
		Image:         r.Image,
		Rating:        r.Rating,
		Genres:        r.Genres,
		Category:      OptionalString(category),
		Publisher:     r.Publisher,
		PublishedDate: r.PublishedDate,
		PageCount:     r.PageCount,
		Notes:         r.Notes,
		ISBN:          r.ISBN,
	}
}

// Category names are the join key stored in UserBook.Category.
type Category struct {
	Name     string `gorm:"column:name;primaryKey" json:"name"`
	IsPinned bool   `gorm:"column:isPinned;default:false" json:"isPinned"`
	Position int    `gorm:"column:position" json:"position"`
}

func (Category) TableName() string {
	return "categories"
}
