package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/entities"
	"github.com/mrlokans/tabby/internal/metadata"
	"github.com/mrlokans/tabby/internal/recommendations"
)

type recommendationsResponse struct {
	Recommendations []entities.RecommendedBook `json:"recommendations"`
	Count           int                        `json:"count"`
}

func TestRecommendationsController_List(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	_, err := app.recommended.Insert(&entities.RecommendedBook{Title: "Piranesi", Author: "Susanna Clarke"})
	require.NoError(t, err)
	added, err := app.recommended.Insert(&entities.RecommendedBook{Title: "Circe", Author: "Madeline Miller"})
	require.NoError(t, err)
	require.NoError(t, app.recommended.MarkAddedToLibrary([]entities.RecommendedBook{*added}))

	all := decode[recommendationsResponse](t, app.do(t, "GET", "/api/recommendations", nil))
	assert.Equal(t, 2, all.Count)

	pending := decode[recommendationsResponse](t, app.do(t, "GET", "/api/recommendations?added=false", nil))
	require.Len(t, pending.Recommendations, 1)
	assert.Equal(t, "Piranesi", pending.Recommendations[0].Title)
}

func TestRecommendationsController_Create(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	app.service.added = &entities.RecommendedBook{ID: "rec-1", Title: "Piranesi", Author: "Susanna Clarke"}
	w := app.do(t, "POST", "/api/recommendations", map[string]any{"isbn": "9781635575637"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "9781635575637", decode[entities.RecommendedBook](t, w).ISBN.String())

	tests := []struct {
		err    error
		status int
	}{
		{database.ErrAlreadyExists, http.StatusConflict},
		{fmt.Errorf("ISBN x: %w", metadata.ErrNotFound), http.StatusNotFound},
		{errors.New("catalog timeout"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		app.service.addErr = tt.err
		w := app.do(t, "POST", "/api/recommendations", map[string]any{"isbn": "9781635575637"})
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}

	w = app.do(t, "POST", "/api/recommendations", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendationsController_Import(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()
	app.category(t, "Wishlist")
	require.NoError(t, app.screens.Screen("Wishlist").View.Load())

	app.service.imported = 2
	w := app.do(t, "POST", "/api/recommendations/import", map[string]any{"ids": []string{"a", "b"}, "category": " Wishlist "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, []string{"a", "b"}, app.service.importedIDs)
	assert.Equal(t, "Wishlist", app.service.category)
	assert.False(t, app.screens.Screen("Wishlist").View.Snapshot().Loaded)

	w = app.do(t, "POST", "/api/recommendations/import", map[string]any{"ids": []string{}, "category": "Wishlist"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	app.service.imported = 0
	app.service.importErr = fmt.Errorf("recommendation a: %w", database.ErrNotFound)
	w = app.do(t, "POST", "/api/recommendations/import", map[string]any{"ids": []string{"a"}, "category": "Wishlist"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	app.service.importErr = recommendations.ErrNoCategory
	w = app.do(t, "POST", "/api/recommendations/import", map[string]any{"ids": []string{"a"}, "category": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// a batch that stopped part way still changed the category
	require.NoError(t, app.screens.Screen("Wishlist").View.Load())
	app.service.imported = 1
	app.service.importErr = &database.PartialBatchError{Op: "adding user books", Completed: 1, Total: 2, Err: errors.New("disk full")}
	w = app.do(t, "POST", "/api/recommendations/import", map[string]any{"ids": []string{"a", "b"}, "category": "Wishlist"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, app.screens.Screen("Wishlist").View.Snapshot().Loaded)
}

func TestRecommendationsController_Delete(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	first, err := app.recommended.Insert(&entities.RecommendedBook{Title: "Piranesi", Author: "Susanna Clarke"})
	require.NoError(t, err)
	_, err = app.recommended.Insert(&entities.RecommendedBook{Title: "Circe", Author: "Madeline Miller"})
	require.NoError(t, err)

	w := app.do(t, "DELETE", "/api/recommendations/"+first.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	remaining, err := app.recommended.All()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Circe", remaining[0].Title)

	w = app.do(t, "DELETE", "/api/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	remaining, err = app.recommended.All()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
