// Package metadata looks up catalog records for books on OpenLibrary.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrlokans/tabby/internal/entities"
)

const (
	DefaultBaseURL           = "https://openlibrary.org"
	DefaultRequestsPerSecond = 1.0

	userAgent = "Tabby/1.0 (https://github.com/mrlokans/tabby)"

	// maxGenres caps how many subjects end up in a book's genre list.
	maxGenres = 3
)

var ErrNotFound = errors.New("not found on OpenLibrary")

// BookMetadata is a catalog record as returned by OpenLibrary.
type BookMetadata struct {
	Title          string   `json:"title,omitempty"`
	Author         string   `json:"author,omitempty"`
	ISBN           string   `json:"isbn,omitempty"`
	CoverURL       string   `json:"cover_url,omitempty"`
	Publisher      string   `json:"publisher,omitempty"`
	PublishedDate  string   `json:"published_date,omitempty"`
	Description    string   `json:"description,omitempty"`
	Subjects       []string `json:"subjects,omitempty"`
	PageCount      int      `json:"page_count,omitempty"`
	OpenLibraryKey string   `json:"open_library_key,omitempty"`
}

// ToRecommendedBook converts the record into a recommendation that has not
// been added to the library yet.
func (m *BookMetadata) ToRecommendedBook() entities.RecommendedBook {
	book := entities.RecommendedBook{
		Title:         m.Title,
		Author:        m.Author,
		Summary:       entities.OptionalString(m.Description),
		Image:         entities.OptionalString(m.CoverURL),
		Publisher:     entities.OptionalString(m.Publisher),
		PublishedDate: entities.OptionalString(m.PublishedDate),
		ISBN:          entities.OptionalString(m.ISBN),
	}

	genres := m.Subjects
	if len(genres) > maxGenres {
		genres = genres[:maxGenres]
	}
	book.Genres = entities.OptionalString(strings.Join(genres, ","))

	if m.PageCount > 0 {
		pages := m.PageCount
		book.PageCount = &pages
	}
	return book
}

// OpenLibraryClient fetches book metadata from the OpenLibrary API.
type OpenLibraryClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewOpenLibraryClient creates a client that sends at most
// requestsPerSecond requests. Empty or non-positive arguments fall back to
// the public API and one request per second.
func NewOpenLibraryClient(baseURL string, requestsPerSecond float64) *OpenLibraryClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	return &OpenLibraryClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

func (c *OpenLibraryClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SearchByISBN looks up a book by its ISBN and returns metadata.
func (c *OpenLibraryClient) SearchByISBN(ctx context.Context, isbn string) (*BookMetadata, error) {
	isbn = NormalizeISBN(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("invalid ISBN")
	}

	var bookData openLibraryBook
	if err := c.getJSON(ctx, "/isbn/"+isbn+".json", nil, &bookData); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("ISBN %s: %w", isbn, ErrNotFound)
		}
		return nil, err
	}

	metadata := convertBook(&bookData, isbn)

	if len(bookData.Authors) > 0 {
		authorName, err := c.fetchAuthorName(ctx, bookData.Authors[0].Key)
		if err == nil {
			metadata.Author = authorName
		}
	}

	return metadata, nil
}

// SearchBySubject returns up to limit books filed under the subject. Books
// without an ISBN are skipped since recommendations are keyed by it.
func (c *OpenLibraryClient) SearchBySubject(ctx context.Context, subject string, limit int) ([]BookMetadata, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("subject", strings.ToLower(subject))
	query.Set("limit", strconv.Itoa(limit))

	var result openLibrarySearchResult
	if err := c.getJSON(ctx, "/search.json", query, &result); err != nil {
		return nil, fmt.Errorf("search subject %q: %w", subject, err)
	}

	books := make([]BookMetadata, 0, len(result.Docs))
	for i := range result.Docs {
		metadata := convertSearchDoc(&result.Docs[i])
		if metadata.ISBN == "" {
			continue
		}
		books = append(books, *metadata)
	}
	return books, nil
}

func (c *OpenLibraryClient) fetchAuthorName(ctx context.Context, authorKey string) (string, error) {
	if authorKey == "" {
		return "", fmt.Errorf("empty author key")
	}

	var authorData struct {
		Name string `json:"name"`
	}
	if err := c.getJSON(ctx, authorKey+".json", nil, &authorData); err != nil {
		return "", err
	}
	return authorData.Name, nil
}

func coverURL(isbn string) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", isbn)
}

func convertBook(book *openLibraryBook, isbn string) *BookMetadata {
	metadata := &BookMetadata{
		Title:          book.Title,
		ISBN:           isbn,
		CoverURL:       coverURL(isbn),
		PublishedDate:  strings.TrimSpace(book.PublishDate),
		PageCount:      book.NumberOfPages,
		OpenLibraryKey: book.Key,
		Subjects:       book.Subjects,
	}

	if len(book.Publishers) > 0 {
		metadata.Publisher = book.Publishers[0]
	}

	// description is either a string or {type, value}
	switch v := book.Description.(type) {
	case string:
		metadata.Description = v
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			metadata.Description = val
		}
	}

	return metadata
}

func convertSearchDoc(doc *openLibrarySearchDoc) *BookMetadata {
	metadata := &BookMetadata{
		Title:          doc.Title,
		PageCount:      doc.NumberOfPagesMedian,
		OpenLibraryKey: doc.Key,
	}

	if len(doc.AuthorName) > 0 {
		metadata.Author = doc.AuthorName[0]
	}
	if len(doc.Publisher) > 0 {
		metadata.Publisher = doc.Publisher[0]
	}
	if doc.FirstPublishYear != 0 {
		metadata.PublishedDate = strconv.Itoa(doc.FirstPublishYear)
	}

	for _, candidate := range doc.ISBN {
		if isbn := NormalizeISBN(candidate); isbn != "" {
			metadata.ISBN = isbn
			break
		}
	}

	switch {
	case metadata.ISBN != "":
		metadata.CoverURL = coverURL(metadata.ISBN)
	case doc.CoverI != 0:
		metadata.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", doc.CoverI)
	}

	if len(doc.Subject) > 0 {
		metadata.Subjects = doc.Subject
		if len(metadata.Subjects) > 10 {
			metadata.Subjects = metadata.Subjects[:10]
		}
	}

	return metadata
}

// NormalizeISBN strips hyphens and spaces and returns "" unless what is
// left is 10 or 13 characters long.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	isbn = strings.TrimSpace(isbn)

	if len(isbn) != 10 && len(isbn) != 13 {
		return ""
	}

	return isbn
}

// OpenLibrary API response types (internal)

type openLibraryBook struct {
	Key           string      `json:"key"`
	Title         string      `json:"title"`
	Authors       []authorRef `json:"authors"`
	Publishers    []string    `json:"publishers"`
	PublishDate   string      `json:"publish_date"`
	NumberOfPages int         `json:"number_of_pages"`
	Description   any         `json:"description"`
	Subjects      []string    `json:"subjects"`
}

type authorRef struct {
	Key string `json:"key"`
}

type openLibrarySearchResult struct {
	NumFound int                    `json:"numFound"`
	Docs     []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    int      `json:"first_publish_year"`
	Publisher           []string `json:"publisher"`
	ISBN                []string `json:"isbn"`
	CoverI              int      `json:"cover_i"`
	Subject             []string `json:"subject"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
}
