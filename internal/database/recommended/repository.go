// Package recommended provides database operations for recommended books.
//
// Recommendations are identified by ISBN for de-duplication purposes: the
// guarded insert refuses a book whose ISBN is already stored, whatever its ID.
//
// # Usage
//
//	repo := recommended.NewRepository(db)
//	book, err := repo.InsertIfAbsentByISBN(candidate)
//	if errors.Is(err, database.ErrAlreadyExists) {
//		// already recommended
//	}
package recommended

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/entities"
)

// Repository handles all recommended book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new recommended books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Filter narrows a Find call. A nil AddToLibrary matches every row.
type Filter struct {
	AddToLibrary *bool
}

func (f Filter) WithAddToLibrary(added bool) Filter {
	f.AddToLibrary = &added
	return f
}

// Insert stores a recommendation under a fresh ID and returns the stored row.
func (r *Repository) Insert(book *entities.RecommendedBook) (*entities.RecommendedBook, error) {
	row := *book
	row.ID = uuid.NewString()
	row.NullZeroes()

	if err := r.db.Create(&row).Error; err != nil {
		return nil, database.Fail("adding recommended book", err)
	}

	return r.GetByID(row.ID)
}

// InsertIfAbsentByISBN inserts the book unless a recommendation with the same
// ISBN exists, in which case nothing is written and database.ErrAlreadyExists
// is returned. Books without an ISBN are always inserted.
func (r *Repository) InsertIfAbsentByISBN(book *entities.RecommendedBook) (*entities.RecommendedBook, error) {
	if book.ISBN != "" {
		var count int64
		err := r.db.Model(&entities.RecommendedBook{}).Where("isbn = ?", book.ISBN.String()).Count(&count).Error
		if err != nil {
			return nil, database.Fail("checking recommended book isbn", err)
		}
		if count > 0 {
			return nil, database.ErrAlreadyExists
		}
	}
	return r.Insert(book)
}

// Update overwrites every column of the recommendation with the book's ID.
func (r *Repository) Update(book *entities.RecommendedBook) error {
	row := *book
	row.NullZeroes()

	result := r.db.Model(&entities.RecommendedBook{ID: book.ID}).
		Select("*").
		Omit("id").
		Updates(&row)
	if result.Error != nil {
		return database.Fail("updating recommended book", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// MarkAddedToLibrary flags each book as imported, one row at a time.
func (r *Repository) MarkAddedToLibrary(books []entities.RecommendedBook) error {
	for i, book := range books {
		result := r.db.Model(&entities.RecommendedBook{}).
			Where("id = ?", book.ID).
			Update("addToLibrary", true)
		if result.Error != nil {
			return database.FailBatch("marking recommended books as added", i, len(books), result.Error)
		}
		if result.RowsAffected == 0 {
			return database.FailBatch("marking recommended books as added", i, len(books), database.ErrNotFound)
		}
	}
	return nil
}

// DeleteAll empties the recommendations collection.
func (r *Repository) DeleteAll() error {
	if err := r.db.Where("1 = 1").Delete(&entities.RecommendedBook{}).Error; err != nil {
		return database.Fail("deleting all recommended books", err)
	}
	return nil
}

func (r *Repository) DeleteByID(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&entities.RecommendedBook{}).Error; err != nil {
		return database.Fail("deleting recommended book", err)
	}
	return nil
}

// DeleteByIDs removes the listed rows; an empty list is a successful no-op.
func (r *Repository) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Where("id IN ?", ids).Delete(&entities.RecommendedBook{}).Error; err != nil {
		return database.Fail("deleting recommended books by ids", err)
	}
	return nil
}

// DeleteByISBNs removes every recommendation carrying one of the ISBNs.
func (r *Repository) DeleteByISBNs(isbns []string) error {
	if len(isbns) == 0 {
		return nil
	}
	if err := r.db.Where("isbn IN ?", isbns).Delete(&entities.RecommendedBook{}).Error; err != nil {
		return database.Fail("deleting recommended books by isbn", err)
	}
	return nil
}

// Find returns the recommendations matching the filter in insertion order.
func (r *Repository) Find(filter Filter) ([]entities.RecommendedBook, error) {
	query := r.db.Model(&entities.RecommendedBook{})
	if filter.AddToLibrary != nil {
		query = query.Where("addToLibrary = ?", *filter.AddToLibrary)
	}

	books := []entities.RecommendedBook{}
	if err := query.Order("rowid ASC").Find(&books).Error; err != nil {
		return nil, database.Fail("retrieving recommended books", err)
	}
	if books == nil {
		books = []entities.RecommendedBook{}
	}
	return books, nil
}

func (r *Repository) All() ([]entities.RecommendedBook, error) {
	return r.Find(Filter{})
}

// GetByID returns the recommendation or database.ErrNotFound.
func (r *Repository) GetByID(id string) (*entities.RecommendedBook, error) {
	var book entities.RecommendedBook
	err := r.db.Where("id = ?", id).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, database.Fail("retrieving recommended book by id", err)
	}
	return &book, nil
}

// ISBNs returns every non-empty ISBN already recommended.
func (r *Repository) ISBNs() ([]string, error) {
	isbns := []string{}
	err := r.db.Model(&entities.RecommendedBook{}).
		Where("isbn IS NOT NULL AND isbn != ''").
		Pluck("isbn", &isbns).Error
	if err != nil {
		return nil, database.Fail("retrieving recommended isbns", err)
	}
	if isbns == nil {
		isbns = []string{}
	}
	return isbns, nil
}
