// Package recommendations keeps the recommended books collection filled with
// catalog books that match the genres already in the library, and imports
// chosen recommendations into a category.
package recommendations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/entities"
	"github.com/mrlokans/tabby/internal/metadata"
)

// Library is the part of the user book store recommendations read from and
// import into.
type Library interface {
	All() ([]entities.UserBook, error)
	InsertManyWithCategory(books []entities.UserBook, category string) error
}

// Store persists recommendations.
type Store interface {
	InsertIfAbsentByISBN(book *entities.RecommendedBook) (*entities.RecommendedBook, error)
	GetByID(id string) (*entities.RecommendedBook, error)
	MarkAddedToLibrary(books []entities.RecommendedBook) error
}

// Catalog looks books up in an external catalog.
type Catalog interface {
	SearchByISBN(ctx context.Context, isbn string) (*metadata.BookMetadata, error)
	SearchBySubject(ctx context.Context, subject string, limit int) ([]metadata.BookMetadata, error)
}

var (
	ErrNoCategory     = errors.New("category is required")
	ErrNothingToDo    = errors.New("no recommendations given")
	ErrCatalogFailure = errors.New("every catalog search failed")
)

type Config struct {
	// PerGenre is how many catalog books are requested per genre.
	PerGenre int
	// MaxGenres limits how many of the library's genres are searched.
	MaxGenres int
	// FallbackGenres are searched when the library has no genres yet.
	FallbackGenres []string
}

func DefaultConfig() Config {
	return Config{
		PerGenre:       10,
		MaxGenres:      5,
		FallbackGenres: []string{"fiction"},
	}
}

type Service struct {
	library Library
	store   Store
	catalog Catalog
	config  Config
}

func NewService(library Library, store Store, catalog Catalog, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.PerGenre <= 0 {
		cfg.PerGenre = defaults.PerGenre
	}
	if cfg.MaxGenres <= 0 {
		cfg.MaxGenres = defaults.MaxGenres
	}
	if len(cfg.FallbackGenres) == 0 {
		cfg.FallbackGenres = defaults.FallbackGenres
	}
	return &Service{library: library, store: store, catalog: catalog, config: cfg}
}

// RefreshResult summarizes one Refresh run.
type RefreshResult struct {
	Genres  []string `json:"genres"`
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
}

// Refresh searches the catalog for the library's most common genres and
// stores every result not already owned or recommended.
func (s *Service) Refresh(ctx context.Context) (*RefreshResult, error) {
	books, err := s.library.All()
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}

	owned := make(map[string]struct{}, len(books))
	for _, b := range books {
		if b.ISBN != "" {
			owned[b.ISBN.String()] = struct{}{}
		}
	}

	genres := TopGenres(books, s.config.MaxGenres)
	if len(genres) == 0 {
		genres = s.config.FallbackGenres
	}

	result := &RefreshResult{Genres: genres}
	searchFailures := 0

	for _, genre := range genres {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		found, err := s.catalog.SearchBySubject(ctx, genre, s.config.PerGenre)
		if err != nil {
			log.Printf("Failed to search recommendations for genre %q: %v", genre, err)
			searchFailures++
			continue
		}

		for _, m := range found {
			if _, ok := owned[m.ISBN]; ok {
				result.Skipped++
				continue
			}

			candidate := m.ToRecommendedBook()
			if _, err := s.store.InsertIfAbsentByISBN(&candidate); err != nil {
				if errors.Is(err, database.ErrAlreadyExists) {
					result.Skipped++
					continue
				}
				result.Failed++
				continue
			}
			result.Added++
		}
	}

	if searchFailures == len(genres) {
		return result, ErrCatalogFailure
	}

	log.Printf("Recommendations refreshed: %d added, %d skipped, %d failed across %d genres",
		result.Added, result.Skipped, result.Failed, len(genres))
	return result, nil
}

// AddByISBN looks the ISBN up in the catalog and stores it as a
// recommendation. Returns database.ErrAlreadyExists when it is already
// recommended.
func (s *Service) AddByISBN(ctx context.Context, isbn string) (*entities.RecommendedBook, error) {
	found, err := s.catalog.SearchByISBN(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("failed to look up ISBN %s: %w", isbn, err)
	}

	candidate := found.ToRecommendedBook()
	stored, err := s.store.InsertIfAbsentByISBN(&candidate)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Import copies the recommendations into the category as new library books
// and flags them as added. It returns how many books reached the category,
// which can be non-zero alongside an error when a batch stopped part way.
func (s *Service) Import(ctx context.Context, ids []string, category string) (int, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return 0, ErrNoCategory
	}
	if len(ids) == 0 {
		return 0, ErrNothingToDo
	}

	recommended := make([]entities.RecommendedBook, 0, len(ids))
	books := make([]entities.UserBook, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		rec, err := s.store.GetByID(id)
		if err != nil {
			return 0, fmt.Errorf("recommendation %s: %w", id, err)
		}
		recommended = append(recommended, *rec)
		books = append(books, rec.ToUserBook(category))
	}

	if err := s.library.InsertManyWithCategory(books, category); err != nil {
		var partial *database.PartialBatchError
		if errors.As(err, &partial) {
			return partial.Completed, fmt.Errorf("failed to add recommendations to %q: %w", category, err)
		}
		return 0, fmt.Errorf("failed to add recommendations to %q: %w", category, err)
	}

	if err := s.store.MarkAddedToLibrary(recommended); err != nil {
		return len(books), fmt.Errorf("failed to mark recommendations as added: %w", err)
	}

	log.Printf("Imported %d recommendations into %q", len(books), category)
	return len(books), nil
}

// TopGenres counts genre tokens across the books and returns the most common
// ones, ties broken alphabetically. Tokens are compared case-insensitively
// and reported in the spelling seen first.
func TopGenres(books []entities.UserBook, limit int) []string {
	type tally struct {
		name  string
		count int
	}
	counts := map[string]*tally{}

	for _, b := range books {
		for _, token := range strings.Split(b.Genres.String(), ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			key := strings.ToLower(token)
			if t, ok := counts[key]; ok {
				t.count++
			} else {
				counts[key] = &tally{name: token, count: 1}
			}
		}
	}

	ranked := make([]*tally, 0, len(counts))
	for _, t := range counts {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return strings.ToLower(ranked[i].name) < strings.ToLower(ranked[j].name)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	genres := make([]string, len(ranked))
	for i, t := range ranked {
		genres[i] = t.name
	}
	return genres
}
