package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/tabby/internal/recommendations"
)

// Refresher fills the recommendations collection from the catalog.
type Refresher interface {
	Refresh(ctx context.Context) (*recommendations.RefreshResult, error)
}

// Importer copies recommendations into a library category.
type Importer interface {
	Import(ctx context.Context, ids []string, category string) (int, error)
}

// RefreshRecommendationsTask runs one recommendations refresh.
type RefreshRecommendationsTask struct{}

func (t RefreshRecommendationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_recommendations",
		MaxAttempts: 2,
		Backoff:     5 * time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func RefreshRecommendationsProcessor(refresher Refresher) backlite.QueueProcessor[RefreshRecommendationsTask] {
	return func(ctx context.Context, task RefreshRecommendationsTask) error {
		result, err := refresher.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("refresh recommendations: %w", err)
		}
		log.Printf("[TASK] Refreshed recommendations for %d genres: %d added", len(result.Genres), result.Added)
		return nil
	}
}

func NewRefreshRecommendationsQueue(refresher Refresher) backlite.Queue {
	return backlite.NewQueue(RefreshRecommendationsProcessor(refresher))
}

// ImportRecommendationsTask adds recommendations to a library category.
type ImportRecommendationsTask struct {
	IDs      []string `json:"ids"`
	Category string   `json:"category"`
}

func (t ImportRecommendationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_recommendations",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportRecommendationsProcessor imports the task's recommendations. Whenever
// any book reached the category, even on error, onImported (if set) is called
// with the category so cached views can be reset.
func ImportRecommendationsProcessor(importer Importer, onImported func(category string)) backlite.QueueProcessor[ImportRecommendationsTask] {
	return func(ctx context.Context, task ImportRecommendationsTask) error {
		n, err := importer.Import(ctx, task.IDs, task.Category)
		if n > 0 && onImported != nil {
			onImported(task.Category)
		}
		if err != nil {
			return fmt.Errorf("import recommendations into %q: %w", task.Category, err)
		}
		log.Printf("[TASK] Imported %d recommendations into %q", n, task.Category)
		return nil
	}
}

func NewImportRecommendationsQueue(importer Importer, onImported func(category string)) backlite.Queue {
	return backlite.NewQueue(ImportRecommendationsProcessor(importer, onImported))
}

// TaskType describes a task that can be started on demand.
type TaskType struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// TaskTypes lists the tasks exposed for manual runs.
func TaskTypes() []TaskType {
	return []TaskType{
		{
			Type:        "refresh_recommendations",
			Description: "Search OpenLibrary for books in the library's top genres",
			Queue:       RefreshRecommendationsTask{}.Config().Name,
		},
		{
			Type:        "import_recommendations",
			Description: "Add recommended books to a category",
			Queue:       ImportRecommendationsTask{}.Config().Name,
		},
	}
}
