package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/tabby/internal/recommendations"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) (*recommendations.RefreshResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &recommendations.RefreshResult{Genres: []string{"fantasy"}, Added: 3}, nil
}

type fakeImporter struct {
	ids       []string
	category  string
	err       error
	committed int // books reported as imported alongside err
}

func (f *fakeImporter) Import(ctx context.Context, ids []string, category string) (int, error) {
	if f.err != nil {
		return f.committed, f.err
	}
	f.ids = ids
	f.category = category
	return len(ids), nil
}

func TestRefreshRecommendationsProcessor(t *testing.T) {
	refresher := &fakeRefresher{}
	process := RefreshRecommendationsProcessor(refresher)

	require.NoError(t, process(context.Background(), RefreshRecommendationsTask{}))
	assert.Equal(t, 1, refresher.calls)

	refresher.err = errors.New("catalog down")
	assert.ErrorIs(t, process(context.Background(), RefreshRecommendationsTask{}), refresher.err)
}

func TestImportRecommendationsProcessor(t *testing.T) {
	importer := &fakeImporter{}
	var imported []string
	process := ImportRecommendationsProcessor(importer, func(category string) {
		imported = append(imported, category)
	})

	err := process(context.Background(), ImportRecommendationsTask{IDs: []string{"a", "b"}, Category: "Wishlist"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, importer.ids)
	assert.Equal(t, []string{"Wishlist"}, imported)

	importer.err = errors.New("disk full")
	err = process(context.Background(), ImportRecommendationsTask{IDs: []string{"c"}, Category: "Gifts"})
	assert.ErrorIs(t, err, importer.err)
	assert.Equal(t, []string{"Wishlist"}, imported)

	// rows were written before the failure
	importer.committed = 1
	err = process(context.Background(), ImportRecommendationsTask{IDs: []string{"d", "e"}, Category: "Gifts"})
	assert.ErrorIs(t, err, importer.err)
	assert.Equal(t, []string{"Wishlist", "Gifts"}, imported)
}
