// Package userbooks provides database operations for library books.
//
// Every row is one membership of a book in exactly one category. Adding a
// book to a second category inserts a second row with a fresh ID; nothing
// here propagates edits between rows that share an ISBN.
//
// # Interface Implementation
//
//	var _ library.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := userbooks.NewRepository(db)
//	books, err := repo.ListByCategory("Fiction")
package userbooks

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/entities"
)

// Repository handles all user book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new user books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// BookFilter narrows a Find call. Nil fields are not constrained.
type BookFilter struct {
	Category     *string
	IsCustomBook *bool
	IsFavorite   *bool
}

func (f BookFilter) WithCategory(name string) BookFilter {
	f.Category = &name
	return f
}

func (f BookFilter) WithCustom(custom bool) BookFilter {
	f.IsCustomBook = &custom
	return f
}

func (f BookFilter) WithFavorite(favorite bool) BookFilter {
	f.IsFavorite = &favorite
	return f
}

// Insert stores a book under a freshly generated ID and returns the row as
// read back from the database. The ID on the argument is ignored.
func (r *Repository) Insert(book *entities.UserBook) (*entities.UserBook, error) {
	row := *book
	row.ID = uuid.NewString()
	row.NullZeroes()

	if err := r.db.Create(&row).Error; err != nil {
		return nil, database.Fail("adding user book", err)
	}

	return r.GetByID(row.ID)
}

// InsertManyWithCategory inserts one new row per book, each with a fresh ID
// and the given category. Rows are written one at a time in list order; a
// failure leaves the earlier rows committed.
func (r *Repository) InsertManyWithCategory(books []entities.UserBook, category string) error {
	for i, book := range books {
		row := book
		row.ID = uuid.NewString()
		row.Category = entities.OptionalString(category)
		row.NullZeroes()

		if err := r.db.Create(&row).Error; err != nil {
			return database.FailBatch("adding user books with category name", i, len(books), err)
		}
	}
	return nil
}

// Update overwrites every column of the row with the book's ID except the
// custom-book flag, then confirms the row still exists.
func (r *Repository) Update(book *entities.UserBook) error {
	row := *book
	row.NullZeroes()

	err := r.db.Model(&entities.UserBook{ID: book.ID}).
		Select("*").
		Omit("id", "isCustomBook").
		Updates(&row).Error
	if err != nil {
		return database.Fail("updating user book", err)
	}

	if _, err := r.GetByID(book.ID); err != nil {
		return err
	}
	return nil
}

// UpdateCategoryForBooks rewrites only the category column of each book, in
// list order. It stops at the first row whose update cannot be confirmed;
// rows updated before that keep the new category.
func (r *Repository) UpdateCategoryForBooks(books []entities.UserBook, category string) error {
	for i, book := range books {
		result := r.db.Model(&entities.UserBook{}).
			Where("id = ?", book.ID).
			Update("category", entities.OptionalString(category))
		if result.Error != nil {
			return database.FailBatch("updating user books category", i, len(books), result.Error)
		}
		if result.RowsAffected == 0 {
			return database.FailBatch("updating user books category", i, len(books), database.ErrNotFound)
		}
	}
	return nil
}

// DeleteByID removes a single row.
func (r *Repository) DeleteByID(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&entities.UserBook{}).Error; err != nil {
		return database.Fail("deleting user book", err)
	}
	return nil
}

// DeleteByIDs removes every listed row. An empty list succeeds without
// touching the database.
func (r *Repository) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Where("id IN ?", ids).Delete(&entities.UserBook{}).Error; err != nil {
		return database.Fail("deleting user books by ids", err)
	}
	return nil
}

// DeleteByCategory removes every row that belongs to the category.
func (r *Repository) DeleteByCategory(category string) error {
	if err := r.db.Where("category = ?", category).Delete(&entities.UserBook{}).Error; err != nil {
		return database.Fail("deleting user books by category", err)
	}
	return nil
}

// Find returns the rows matching the filter in insertion order.
func (r *Repository) Find(filter BookFilter) ([]entities.UserBook, error) {
	query := r.db.Model(&entities.UserBook{})
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.IsCustomBook != nil {
		query = query.Where("isCustomBook = ?", *filter.IsCustomBook)
	}
	if filter.IsFavorite != nil {
		query = query.Where("isFavorite = ?", *filter.IsFavorite)
	}

	books := []entities.UserBook{}
	if err := query.Order("rowid ASC").Find(&books).Error; err != nil {
		return nil, database.Fail("retrieving user books", err)
	}
	if books == nil {
		books = []entities.UserBook{}
	}
	return books, nil
}

// All returns every user book.
func (r *Repository) All() ([]entities.UserBook, error) {
	return r.Find(BookFilter{})
}

// ListByCategory returns every book in the category.
func (r *Repository) ListByCategory(category string) ([]entities.UserBook, error) {
	return r.Find(BookFilter{}.WithCategory(category))
}

// GetByID returns the row with the given ID or database.ErrNotFound.
func (r *Repository) GetByID(id string) (*entities.UserBook, error) {
	var book entities.UserBook
	err := r.db.Where("id = ?", id).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, database.Fail("retrieving user book by id", err)
	}
	return &book, nil
}

// FindByISBN returns every membership row of a catalog book.
func (r *Repository) FindByISBN(isbn string) ([]entities.UserBook, error) {
	books := []entities.UserBook{}
	if err := r.db.Where("isbn = ?", isbn).Order("rowid ASC").Find(&books).Error; err != nil {
		return nil, database.Fail("retrieving user books by isbn", err)
	}
	if books == nil {
		books = []entities.UserBook{}
	}
	return books, nil
}

// CategoryNamesWithISBN returns the distinct categories holding a row with
// the given ISBN.
func (r *Repository) CategoryNamesWithISBN(isbn string) ([]string, error) {
	names := []string{}
	err := r.db.Model(&entities.UserBook{}).
		Where("isbn = ? AND category IS NOT NULL", isbn).
		Distinct().
		Pluck("category", &names).Error
	if err != nil {
		return nil, database.Fail("retrieving category names by isbn", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
