package recommendations

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/database/recommended"
	"github.com/mrlokans/tabby/internal/database/userbooks"
	"github.com/mrlokans/tabby/internal/entities"
	"github.com/mrlokans/tabby/internal/metadata"
)

type fakeCatalog struct {
	bySubject map[string][]metadata.BookMetadata
	byISBN    map[string]metadata.BookMetadata
	failAll   bool
	subjects  []string
}

func (c *fakeCatalog) SearchBySubject(ctx context.Context, subject string, limit int) ([]metadata.BookMetadata, error) {
	c.subjects = append(c.subjects, subject)
	if c.failAll {
		return nil, errors.New("catalog down")
	}
	found := c.bySubject[strings.ToLower(subject)]
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (c *fakeCatalog) SearchByISBN(ctx context.Context, isbn string) (*metadata.BookMetadata, error) {
	m, ok := c.byISBN[isbn]
	if !ok {
		return nil, metadata.ErrNotFound
	}
	return &m, nil
}

type fixture struct {
	db      *database.Database
	library *userbooks.Repository
	store   *recommended.Repository
	catalog *fakeCatalog
	service *Service
}

func setupService(t *testing.T) (*fixture, func()) {
	t.Helper()
	dbPath := "./test_recommendations_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	f := &fixture{
		db:      db,
		library: userbooks.NewRepository(db.DB),
		store:   recommended.NewRepository(db.DB),
		catalog: &fakeCatalog{bySubject: map[string][]metadata.BookMetadata{}, byISBN: map[string]metadata.BookMetadata{}},
	}
	f.service = NewService(f.library, f.store, f.catalog, Config{PerGenre: 5, MaxGenres: 2})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return f, cleanup
}

func (f *fixture) own(t *testing.T, title, genres, isbn string) {
	t.Helper()
	_, err := f.library.Insert(&entities.UserBook{
		Title:    title,
		Author:   "Someone",
		Genres:   entities.OptionalString(genres),
		ISBN:     entities.OptionalString(isbn),
		Category: "Shelf",
	})
	require.NoError(t, err)
}

func TestTopGenres(t *testing.T) {
	books := []entities.UserBook{
		{Genres: "Fantasy, Adventure"},
		{Genres: "fantasy,Romance"},
		{Genres: "Adventure"},
		{Genres: ""},
		{Genres: " , Horror"},
	}

	assert.Equal(t, []string{"Adventure", "Fantasy", "Horror"}, TopGenres(books, 3))
	assert.Equal(t, []string{"Adventure", "Fantasy", "Horror", "Romance"}, TopGenres(books, 0))
	assert.Empty(t, TopGenres(nil, 3))
}

func TestService_Refresh(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	f.own(t, "Owned", "Fantasy", "9780000000009")
	f.own(t, "Also owned", "Fantasy, Poetry", "")

	f.catalog.bySubject["fantasy"] = []metadata.BookMetadata{
		{Title: "Owned", Author: "Someone", ISBN: "9780000000009"},
		{Title: "New One", Author: "A", ISBN: "9780000000001", Subjects: []string{"Fantasy"}},
	}
	f.catalog.bySubject["poetry"] = []metadata.BookMetadata{
		{Title: "New One again", Author: "A", ISBN: "9780000000001"},
		{Title: "Verse", Author: "B", ISBN: "9780000000002"},
	}

	result, err := f.service.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Fantasy", "Poetry"}, result.Genres)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	isbns, err := f.store.ISBNs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"9780000000001", "9780000000002"}, isbns)

	// A second run finds nothing new.
	result, err = f.service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
}

func TestService_RefreshEmptyLibraryUsesFallback(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	result, err := f.service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fiction"}, result.Genres)
	assert.Equal(t, []string{"fiction"}, f.catalog.subjects)
}

func TestService_RefreshCatalogDown(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	f.own(t, "Owned", "Fantasy", "")
	f.catalog.failAll = true

	_, err := f.service.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrCatalogFailure)
}

func TestService_RefreshCancelled(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.catalog.subjects)
}

func TestService_AddByISBN(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	f.catalog.byISBN["9780000000001"] = metadata.BookMetadata{Title: "Piranesi", Author: "Susanna Clarke", ISBN: "9780000000001", PageCount: 272}

	stored, err := f.service.AddByISBN(context.Background(), "9780000000001")
	require.NoError(t, err)
	assert.Equal(t, "Piranesi", stored.Title)
	require.NotNil(t, stored.PageCount)
	assert.Equal(t, 272, *stored.PageCount)

	_, err = f.service.AddByISBN(context.Background(), "9780000000001")
	assert.ErrorIs(t, err, database.ErrAlreadyExists)

	_, err = f.service.AddByISBN(context.Background(), "9789999999999")
	assert.ErrorIs(t, err, metadata.ErrNotFound)
}

func TestService_Import(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	a, err := f.store.Insert(&entities.RecommendedBook{Title: "A", Author: "X", ISBN: "1111111111", Genres: "Poetry"})
	require.NoError(t, err)
	b, err := f.store.Insert(&entities.RecommendedBook{Title: "B", Author: "Y", ISBN: "2222222222"})
	require.NoError(t, err)

	n, err := f.service.Import(context.Background(), []string{a.ID, b.ID}, "Wishlist")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	wishlist, err := f.library.ListByCategory("Wishlist")
	require.NoError(t, err)
	require.Len(t, wishlist, 2)
	assert.Equal(t, "A", wishlist[0].Title)
	assert.Equal(t, "Poetry", wishlist[0].Genres.String())
	assert.NotEqual(t, a.ID, wishlist[0].ID)
	assert.False(t, wishlist[0].IsCustomBook)

	added, err := f.store.Find(recommended.Filter{}.WithAddToLibrary(true))
	require.NoError(t, err)
	assert.Len(t, added, 2)
}

// failingMarkStore is a recommendation store whose MarkAddedToLibrary fails.
type failingMarkStore struct {
	*recommended.Repository
}

func (failingMarkStore) MarkAddedToLibrary(books []entities.RecommendedBook) error {
	return errors.New("disk full")
}

func TestService_ImportMarkFailureReportsImported(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	a, err := f.store.Insert(&entities.RecommendedBook{Title: "A", Author: "X"})
	require.NoError(t, err)

	service := NewService(f.library, failingMarkStore{f.store}, f.catalog, Config{})
	n, err := service.Import(context.Background(), []string{a.ID}, "Wishlist")
	require.Error(t, err)
	assert.Equal(t, 1, n)

	wishlist, err := f.library.ListByCategory("Wishlist")
	require.NoError(t, err)
	assert.Len(t, wishlist, 1)
}

func TestService_ImportPartialInsertReportsCommitted(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	a, err := f.store.Insert(&entities.RecommendedBook{Title: "A", Author: "X"})
	require.NoError(t, err)
	b, err := f.store.Insert(&entities.RecommendedBook{Title: "B", Author: "Y"})
	require.NoError(t, err)

	err = f.db.DB.Callback().Create().Before("gorm:create").Register("test:fail_title_b", func(tx *gorm.DB) {
		if book, ok := tx.Statement.Dest.(*entities.UserBook); ok && book.Title == "B" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	n, err := f.service.Import(context.Background(), []string{a.ID, b.ID}, "Wishlist")
	require.Error(t, err)
	assert.True(t, database.IsPartial(err))
	assert.Equal(t, 1, n)

	wishlist, err := f.library.ListByCategory("Wishlist")
	require.NoError(t, err)
	require.Len(t, wishlist, 1)
	assert.Equal(t, "A", wishlist[0].Title)

	added, err := f.store.Find(recommended.Filter{}.WithAddToLibrary(true))
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestService_ImportErrors(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	_, err := f.service.Import(context.Background(), []string{"x"}, "  ")
	assert.ErrorIs(t, err, ErrNoCategory)

	_, err = f.service.Import(context.Background(), nil, "Wishlist")
	assert.ErrorIs(t, err, ErrNothingToDo)

	_, err = f.service.Import(context.Background(), []string{"missing"}, "Wishlist")
	assert.ErrorIs(t, err, database.ErrNotFound)

	books, err := f.library.All()
	require.NoError(t, err)
	assert.Empty(t, books)
}
