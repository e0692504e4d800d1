package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/tabby/internal/config"
	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/database/categories"
	"github.com/mrlokans/tabby/internal/database/recommended"
	"github.com/mrlokans/tabby/internal/database/userbooks"
	http_controllers "github.com/mrlokans/tabby/internal/http"
	"github.com/mrlokans/tabby/internal/library"
	"github.com/mrlokans/tabby/internal/metadata"
	"github.com/mrlokans/tabby/internal/recommendations"
	"github.com/mrlokans/tabby/internal/scheduler"
	"github.com/mrlokans/tabby/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT; SIGKILL cannot be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// stop background work before the listener
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Library bundles the repositories and services built on one database.
type Library struct {
	DB              *database.Database
	Books           *userbooks.Repository
	Categories      *categories.Repository
	Recommended     *recommended.Repository
	Recommendations *recommendations.Service
}

// OpenLibrary opens the database and builds the repositories and the
// recommendations service from the configuration.
func OpenLibrary(cfg *config.Config) (*Library, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	lib := &Library{
		DB:          db,
		Books:       userbooks.NewRepository(db.DB),
		Categories:  categories.NewRepository(db.DB),
		Recommended: recommended.NewRepository(db.DB),
	}

	catalog := metadata.NewOpenLibraryClient(cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.RequestsPerSecond)
	lib.Recommendations = recommendations.NewService(lib.Books, lib.Recommended, catalog, recommendations.Config{
		PerGenre:  cfg.Recommendations.PerGenre,
		MaxGenres: cfg.Recommendations.MaxGenres,
	})

	return lib, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Tabby v%s", version)

	lib, err := OpenLibrary(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := lib.DB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	screens := library.NewRegistry(lib.Books, lib.Categories)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRefreshRecommendationsQueue(lib.Recommendations),
			tasks.NewImportRecommendationsQueue(lib.Recommendations, func(category string) {
				screens.Forget(category)
			}),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	refreshScheduler := scheduler.NewRecommendationsScheduler(lib.Recommendations, scheduler.Config{
		Enabled:  cfg.Recommendations.SyncEnabled,
		Schedule: cfg.Recommendations.SyncSchedule,
		Timeout:  cfg.Recommendations.SyncTimeout,
	})
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	if err := refreshScheduler.Start(schedulerCtx); err != nil {
		log.Printf("WARNING: Recommendations scheduler not started: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:              lib.DB,
		Categories:            lib.Categories,
		Books:                 lib.Books,
		Screens:               screens,
		Recommendations:       lib.Recommended,
		RecommendationService: lib.Recommendations,
		RefreshScheduler:      refreshScheduler,
		RefreshSchedule:       cfg.Recommendations.SyncSchedule,
		Version:               version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		refreshScheduler.Stop()
		schedulerCancel()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
