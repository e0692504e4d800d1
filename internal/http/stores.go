package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/tabby/internal/database/categories"
	"github.com/mrlokans/tabby/internal/database/recommended"
	"github.com/mrlokans/tabby/internal/database/userbooks"
	"github.com/mrlokans/tabby/internal/entities"
)

// This file consolidates the store interfaces used by the HTTP controllers.
// The SQLite repositories satisfy them; tests may substitute fakes.

// CategoryStore manages the category rows.
type CategoryStore interface {
	Find(filter categories.Filter) ([]entities.Category, error)
	GetByName(name string) (*entities.Category, error)
	Create(category *entities.Category) (*entities.Category, error)
	Update(oldName string, category *entities.Category) error
	Rename(oldName string, category *entities.Category) error
	Delete(name string) error
	NextPosition() (int, error)
}

// BookStore manages library book rows outside of a category screen.
type BookStore interface {
	Find(filter userbooks.BookFilter) ([]entities.UserBook, error)
	GetByID(id string) (*entities.UserBook, error)
	Update(book *entities.UserBook) error
	DeleteByID(id string) error
	DeleteByCategory(category string) error
	CategoryNamesWithISBN(isbn string) ([]string, error)
}

// RecommendationStore reads and clears stored recommendations.
type RecommendationStore interface {
	Find(filter recommended.Filter) ([]entities.RecommendedBook, error)
	DeleteAll() error
	DeleteByID(id string) error
}

// RecommendationService looks recommendations up and imports them.
type RecommendationService interface {
	AddByISBN(ctx context.Context, isbn string) (*entities.RecommendedBook, error)
	Import(ctx context.Context, ids []string, category string) (int, error)
}

// TaskQueue enqueues background tasks and reports on them.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// ScreenCache drops cached category screens whose rows changed outside of
// the screen itself.
type ScreenCache interface {
	Forget(categories ...string)
	Reset()
}

var (
	_ CategoryStore       = (*categories.Repository)(nil)
	_ BookStore           = (*userbooks.Repository)(nil)
	_ RecommendationStore = (*recommended.Repository)(nil)
)
