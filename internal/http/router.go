package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version)
	categoriesController := NewCategoriesController(cfg.Categories, cfg.Books, cfg.Screens)
	booksController := NewBooksController(cfg.Books, cfg.Screens)
	libraryController := NewLibraryController(cfg.Screens)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Categories
	router.GET("/api/categories", categoriesController.List)
	router.POST("/api/categories", categoriesController.Create)
	router.PATCH("/api/categories/:name", categoriesController.Update)
	router.DELETE("/api/categories/:name", categoriesController.Delete)

	// Books API endpoints
	router.GET("/api/books", booksController.List)
	router.GET("/api/books/isbn/:isbn/categories", booksController.CategoriesForISBN)
	router.GET("/api/books/:id", booksController.Get)
	router.PUT("/api/books/:id", booksController.Update)
	router.DELETE("/api/books/:id", booksController.Delete)

	// Category screens
	screen := router.Group("/api/library/:category")
	screen.GET("", libraryController.Get)
	screen.POST("/load", libraryController.Load)
	screen.POST("/search", libraryController.Search)
	screen.POST("/books/:id/select", libraryController.ToggleSelect)
	screen.POST("/books/:id/favorite", libraryController.ToggleFavorite)
	screen.POST("/select-all", libraryController.SelectAll)
	screen.POST("/deselect-all", libraryController.DeselectAll)
	screen.POST("/modal", libraryController.Modal)
	screen.DELETE("/selected", libraryController.DeleteSelected)
	screen.POST("/selected/add", libraryController.AddSelected)
	screen.POST("/selected/move", libraryController.MoveSelected)
	screen.POST("/custom-books", libraryController.AddCustomBook)

	// Recommendations
	if cfg.Recommendations != nil && cfg.RecommendationService != nil {
		recommendationsController := NewRecommendationsController(cfg.Recommendations, cfg.RecommendationService, cfg.Screens)
		router.GET("/api/recommendations", recommendationsController.List)
		router.POST("/api/recommendations", recommendationsController.Create)
		router.POST("/api/recommendations/import", recommendationsController.Import)
		router.DELETE("/api/recommendations", recommendationsController.DeleteAll)
		router.DELETE("/api/recommendations/:id", recommendationsController.Delete)
	}

	if cfg.RefreshScheduler != nil {
		refreshController := NewRefreshController(cfg.RefreshScheduler, cfg.RefreshSchedule)
		router.GET("/api/recommendations/refresh", refreshController.Status)
		router.POST("/api/recommendations/refresh", refreshController.RunNow)
	}

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
