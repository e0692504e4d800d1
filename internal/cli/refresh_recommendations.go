package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mrlokans/tabby/internal/config"
	"github.com/mrlokans/tabby/internal/entrypoint"
	"github.com/mrlokans/tabby/internal/recommendations"
)

// RefreshRecommendationsCommand runs one recommendations refresh against the
// library database and exits.
type RefreshRecommendationsCommand struct {
	DatabasePath string
	PerGenre     int
	MaxGenres    int
	Timeout      time.Duration
	Clear        bool
}

func NewRefreshRecommendationsCommand() *RefreshRecommendationsCommand {
	return &RefreshRecommendationsCommand{}
}

func (cmd *RefreshRecommendationsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("refresh-recommendations", flag.ContinueOnError)

	defaults := recommendations.DefaultConfig()
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database")
	fs.IntVar(&cmd.PerGenre, "per-genre", defaults.PerGenre, "Catalog results requested per genre")
	fs.IntVar(&cmd.MaxGenres, "max-genres", defaults.MaxGenres, "Number of top library genres to search")
	fs.DurationVar(&cmd.Timeout, "timeout", 10*time.Minute, "Give up after this long")
	fs.BoolVar(&cmd.Clear, "clear", false, "Delete stored recommendations before refreshing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s refresh-recommendations [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search OpenLibrary for books in the library's most common genres.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s refresh-recommendations -db ./tabby.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s refresh-recommendations -clear -per-genre 20\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.PerGenre <= 0 || cmd.MaxGenres <= 0 {
		return fmt.Errorf("per-genre and max-genres must be positive")
	}
	if cmd.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

func (cmd *RefreshRecommendationsCommand) Run() error {
	cfg := config.NewConfig()
	cfg.Database.Path = cmd.DatabasePath
	cfg.Recommendations.PerGenre = cmd.PerGenre
	cfg.Recommendations.MaxGenres = cmd.MaxGenres

	lib, err := entrypoint.OpenLibrary(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer lib.DB.Close()

	if cmd.Clear {
		if err := lib.Recommended.DeleteAll(); err != nil {
			return fmt.Errorf("failed to clear recommendations: %w", err)
		}
		log.Printf("Cleared stored recommendations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	result, err := lib.Recommendations.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	fmt.Printf("Searched genres: %v\n", result.Genres)
	fmt.Printf("Added: %d, skipped: %d, failed: %d\n", result.Added, result.Skipped, result.Failed)
	return nil
}
