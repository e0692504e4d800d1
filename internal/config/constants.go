package config

const (
	// DefaultDatabasePath is the default path for the library database
	DefaultDatabasePath = "./tabby.db"

	// DefaultRecommendationsSchedule refreshes recommendations daily at 03:00
	DefaultRecommendationsSchedule = "0 3 * * *"
)
