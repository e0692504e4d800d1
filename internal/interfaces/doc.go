// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - library.BookStore: user book rows behind a category screen (internal/library/store.go)
//   - library.CategoryStore: category names for move and add targets (internal/library/store.go)
//   - http.BookStore / http.CategoryStore: row access outside of a screen (internal/http/stores.go)
//   - http.RecommendationStore: stored recommendations (internal/http/stores.go)
//   - recommendations.Library / recommendations.Store: what the recommendation
//     service reads and writes (internal/recommendations/service.go)
//
// ## Screen Interfaces
//
//   - library.Notifier: user-facing outcome messages (internal/library/notify.go)
//   - http.ScreenProvider / http.ScreenCache: cached category screens (internal/http/library.go)
//
// ## External Service Interfaces
//
//   - recommendations.Catalog: book lookups by ISBN and subject (internal/recommendations/service.go)
//
// ## Background Work Interfaces
//
//   - scheduler.Refresher / tasks.Refresher: a recommendations refresh
//   - tasks.Importer: importing recommendations into a category
//   - http.TaskQueue / http.RefreshScheduler: what the API needs from the queue and the scheduler
//
// # Adding a New Catalog
//
// To recommend books from another catalog (e.g., Google Books):
//
//  1. Implement recommendations.Catalog in internal/metadata/
//
//     type GoogleBooksClient struct {
//         apiKey     string
//         httpClient *http.Client
//     }
//
//     func (c *GoogleBooksClient) SearchByISBN(ctx context.Context, isbn string) (*BookMetadata, error)
//     func (c *GoogleBooksClient) SearchBySubject(ctx context.Context, subject string, limit int) ([]BookMetadata, error)
//
//  2. Add a check to checks.go and pass the client to recommendations.NewService in entrypoint.go
//
// # Adding a New Background Task
//
//  1. Define the task and its processor in internal/tasks/, implementing
//     backlite.Task with a queue name unique to the task
//  2. Register the queue in entrypoint.go
//  3. Add it to tasks.TaskTypes and to TasksController.RunTask
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
