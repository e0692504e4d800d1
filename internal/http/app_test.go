package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/database/categories"
	"github.com/mrlokans/tabby/internal/database/recommended"
	"github.com/mrlokans/tabby/internal/database/userbooks"
	"github.com/mrlokans/tabby/internal/entities"
	"github.com/mrlokans/tabby/internal/library"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRecommendationService struct {
	added       *entities.RecommendedBook
	addErr      error
	imported    int
	importErr   error
	importedIDs []string
	category    string
}

func (s *fakeRecommendationService) AddByISBN(ctx context.Context, isbn string) (*entities.RecommendedBook, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	book := *s.added
	book.ISBN = entities.OptionalString(isbn)
	return &book, nil
}

func (s *fakeRecommendationService) Import(ctx context.Context, ids []string, category string) (int, error) {
	s.importedIDs = ids
	s.category = category
	return s.imported, s.importErr
}

type testApp struct {
	db          *database.Database
	books       *userbooks.Repository
	categories  *categories.Repository
	recommended *recommended.Repository
	screens     *library.Registry
	service     *fakeRecommendationService
	router      *gin.Engine
}

func setupTestApp(t *testing.T) (*testApp, func()) {
	t.Helper()

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	app := &testApp{
		db:          db,
		books:       userbooks.NewRepository(db.DB),
		categories:  categories.NewRepository(db.DB),
		recommended: recommended.NewRepository(db.DB),
		service:     &fakeRecommendationService{},
	}
	app.screens = library.NewRegistry(app.books, app.categories)
	app.router = NewRouter(RouterConfig{
		Database:              db,
		Categories:            app.categories,
		Books:                 app.books,
		Screens:               app.screens,
		Recommendations:       app.recommended,
		RecommendationService: app.service,
		Version:               "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return app, cleanup
}

func (a *testApp) category(t *testing.T, name string) {
	t.Helper()
	next, err := a.categories.NextPosition()
	require.NoError(t, err)
	_, err = a.categories.Create(&entities.Category{Name: name, Position: next})
	require.NoError(t, err)
}

func (a *testApp) book(t *testing.T, title, category string) *entities.UserBook {
	t.Helper()
	stored, err := a.books.Insert(&entities.UserBook{
		Title:    title,
		Author:   "Author of " + title,
		Category: entities.OptionalString(category),
	})
	require.NoError(t, err)
	return stored
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, a.router, method, path, body)
}

func serve(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
