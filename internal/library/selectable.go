package library

import (
	"strings"
	"unicode"

	"github.com/mrlokans/tabby/internal/entities"
)

// SelectableBook pairs a book with its on-screen selection flag.
type SelectableBook struct {
	Book       entities.UserBook `json:"book"`
	IsSelected bool              `json:"isSelected"`
}

func wrapUnselected(books []entities.UserBook) []SelectableBook {
	wrapped := make([]SelectableBook, len(books))
	for i, book := range books {
		wrapped[i] = SelectableBook{Book: book}
	}
	return wrapped
}

func cloneSelectable(books []SelectableBook) []SelectableBook {
	out := make([]SelectableBook, len(books))
	copy(out, books)
	return out
}

func setSelected(books []SelectableBook, selected bool) {
	for i := range books {
		books[i].IsSelected = selected
	}
}

func indexOf(books []SelectableBook, id string) int {
	for i := range books {
		if books[i].Book.ID == id {
			return i
		}
	}
	return -1
}

func withoutIDs(books []SelectableBook, ids map[string]struct{}) []SelectableBook {
	kept := make([]SelectableBook, 0, len(books))
	for _, b := range books {
		if _, drop := ids[b.Book.ID]; !drop {
			kept = append(kept, b)
		}
	}
	return kept
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchesQuery reports whether the book is shown for a search query. The
// query matches case-insensitively on title, author or a single genre
// token, or exactly on the ISBN once non-digits are stripped from it.
func matchesQuery(book entities.UserBook, query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}

	if strings.Contains(strings.ToLower(book.Title), needle) ||
		strings.Contains(strings.ToLower(book.Author), needle) {
		return true
	}

	for _, genre := range strings.Split(book.Genres.String(), ",") {
		if strings.Contains(strings.ToLower(strings.TrimSpace(genre)), needle) {
			return true
		}
	}

	digits := digitsOnly(query)
	return digits != "" && book.ISBN.String() == digits
}
