package interfaces

// Compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/tabby/internal/database/categories"
	"github.com/mrlokans/tabby/internal/database/recommended"
	"github.com/mrlokans/tabby/internal/database/userbooks"
	"github.com/mrlokans/tabby/internal/http"
	"github.com/mrlokans/tabby/internal/library"
	"github.com/mrlokans/tabby/internal/metadata"
	"github.com/mrlokans/tabby/internal/recommendations"
	"github.com/mrlokans/tabby/internal/scheduler"
	"github.com/mrlokans/tabby/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ library.BookStore = (*userbooks.Repository)(nil)
var _ library.CategoryStore = (*categories.Repository)(nil)

var _ http.BookStore = (*userbooks.Repository)(nil)
var _ http.CategoryStore = (*categories.Repository)(nil)
var _ http.RecommendationStore = (*recommended.Repository)(nil)

var _ recommendations.Library = (*userbooks.Repository)(nil)
var _ recommendations.Store = (*recommended.Repository)(nil)

// =============================================================================
// Category Screens
// =============================================================================

var _ http.ScreenProvider = (*library.Registry)(nil)
var _ http.ScreenCache = (*library.Registry)(nil)
var _ library.Notifier = (*library.RecordingNotifier)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ recommendations.Catalog = (*metadata.OpenLibraryClient)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.RecommendationService = (*recommendations.Service)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ http.RefreshScheduler = (*scheduler.RecommendationsScheduler)(nil)
var _ scheduler.Refresher = (*recommendations.Service)(nil)
var _ tasks.Refresher = (*recommendations.Service)(nil)
var _ tasks.Importer = (*recommendations.Service)(nil)
