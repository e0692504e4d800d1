package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Recommendations
		OpenLibrary
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Recommendations struct {
		SyncEnabled  bool
		SyncSchedule string // Cron format: "0 3 * * *" = daily at 03:00
		SyncTimeout  time.Duration
		PerGenre     int // Catalog results requested per genre
		MaxGenres    int // How many of the library's top genres are searched
	}
	OpenLibrary struct {
		BaseURL           string
		RequestsPerSecond float64
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Recommendations defaults
	v.SetDefault("recommendations_sync_enabled", false)
	v.SetDefault("recommendations_sync_schedule", DefaultRecommendationsSchedule)
	v.SetDefault("recommendations_sync_timeout", "10m")
	v.SetDefault("recommendations_per_genre", 10)
	v.SetDefault("recommendations_max_genres", 5)

	v.SetDefault("openlibrary_base_url", "https://openlibrary.org")
	v.SetDefault("openlibrary_requests_per_second", 1.0)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Recommendations: Recommendations{
			SyncEnabled:  v.GetBool("RECOMMENDATIONS_SYNC_ENABLED"),
			SyncSchedule: v.GetString("RECOMMENDATIONS_SYNC_SCHEDULE"),
			SyncTimeout:  v.GetDuration("RECOMMENDATIONS_SYNC_TIMEOUT"),
			PerGenre:     v.GetInt("RECOMMENDATIONS_PER_GENRE"),
			MaxGenres:    v.GetInt("RECOMMENDATIONS_MAX_GENRES"),
		},
		OpenLibrary: OpenLibrary{
			BaseURL:           v.GetString("OPENLIBRARY_BASE_URL"),
			RequestsPerSecond: v.GetFloat64("OPENLIBRARY_REQUESTS_PER_SECOND"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
