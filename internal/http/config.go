package http

import (
	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/library"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	Categories CategoryStore
	Books      BookStore

	// Category screens, one per category
	Screens *library.Registry

	// Recommendations
	Recommendations       RecommendationStore
	RecommendationService RecommendationService

	// Optional: periodic refresh; status routes are skipped when nil
	RefreshScheduler RefreshScheduler
	RefreshSchedule  string

	// Optional: task routes are skipped when nil
	TaskQueue TaskQueue

	// Application info
	Version string
}
