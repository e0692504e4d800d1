package library

import (
	"errors"
	"fmt"

	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/entities"
)

var errBoom = errors.New("boom")

// fakeBookStore is an in-memory BookStore with switchable failures.
type fakeBookStore struct {
	rows   []entities.UserBook
	nextID int

	failGet            bool
	failUpdate         bool
	failInsert         bool
	failDelete         bool
	failUpdateCategory bool
	failInsertInto     map[string]bool

	deleteCalls int
}

func newFakeBookStore(rows ...entities.UserBook) *fakeBookStore {
	return &fakeBookStore{rows: rows, failInsertInto: map[string]bool{}}
}

func (s *fakeBookStore) newID() string {
	s.nextID++
	return fmt.Sprintf("stored-%d", s.nextID)
}

func (s *fakeBookStore) GetByID(id string) (*entities.UserBook, error) {
	if s.failGet {
		return nil, errBoom
	}
	for _, b := range s.rows {
		if b.ID == id {
			book := b
			return &book, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakeBookStore) Insert(book *entities.UserBook) (*entities.UserBook, error) {
	if s.failInsert {
		return nil, errBoom
	}
	row := *book
	row.ID = s.newID()
	s.rows = append(s.rows, row)
	return &row, nil
}

func (s *fakeBookStore) InsertManyWithCategory(books []entities.UserBook, category string) error {
	if s.failInsertInto[category] {
		return database.FailBatch("adding user books with category name", 0, len(books), errBoom)
	}
	for _, b := range books {
		row := b
		row.ID = s.newID()
		row.Category = entities.OptionalString(category)
		s.rows = append(s.rows, row)
	}
	return nil
}

func (s *fakeBookStore) Update(book *entities.UserBook) error {
	if s.failUpdate {
		return errBoom
	}
	for i, b := range s.rows {
		if b.ID == book.ID {
			s.rows[i] = *book
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *fakeBookStore) UpdateCategoryForBooks(books []entities.UserBook, category string) error {
	if s.failUpdateCategory {
		return database.FailBatch("updating user books category", 0, len(books), errBoom)
	}
	for _, book := range books {
		for i := range s.rows {
			if s.rows[i].ID == book.ID {
				s.rows[i].Category = entities.OptionalString(category)
			}
		}
	}
	return nil
}

func (s *fakeBookStore) DeleteByIDs(ids []string) error {
	s.deleteCalls++
	if s.failDelete {
		return errBoom
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.rows[:0]
	for _, b := range s.rows {
		if !drop[b.ID] {
			kept = append(kept, b)
		}
	}
	s.rows = kept
	return nil
}

func (s *fakeBookStore) ListByCategory(category string) ([]entities.UserBook, error) {
	books := []entities.UserBook{}
	for _, b := range s.rows {
		if b.Category.String() == category {
			books = append(books, b)
		}
	}
	return books, nil
}

func (s *fakeBookStore) inCategory(category string) []entities.UserBook {
	books, _ := s.ListByCategory(category)
	return books
}

type fakeCategoryStore struct {
	categories []entities.Category
	err        error
}

func (s *fakeCategoryStore) All() ([]entities.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

func categoriesNamed(names ...string) *fakeCategoryStore {
	store := &fakeCategoryStore{}
	for i, n := range names {
		store.categories = append(store.categories, entities.Category{Name: n, Position: i})
	}
	return store
}

func book(id, title, author, category string) entities.UserBook {
	return entities.UserBook{ID: id, Title: title, Author: author, Category: entities.OptionalString(category)}
}

func fictionShelf() []entities.UserBook {
	hobbit := book("1", "The Hobbit", "J.R.R. Tolkien", "Fiction")
	hobbit.Genres = "Fantasy, Adventure"
	hobbit.ISBN = "9780261102217"

	dune := book("2", "Dune", "Frank Herbert", "Fiction")
	dune.Genres = "Science Fiction"

	emma := book("3", "Emma", "Jane Austen", "Fiction")
	emma.Genres = "Romance,Classics"

	return []entities.UserBook{hobbit, dune, emma}
}

func ids(books []SelectableBook) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Book.ID)
	}
	return out
}

func selectedIDs(books []SelectableBook) []string {
	out := []string{}
	for _, b := range books {
		if b.IsSelected {
			out = append(out, b.Book.ID)
		}
	}
	return out
}
