package library

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/tabby/internal/entities"
)

// Modal is the confirmation surface currently open on the screen.
type Modal string

const (
	ModalNone       Modal = "none"
	ModalDelete     Modal = "delete"
	ModalAddOrMove  Modal = "addOrMove"
	ModalCustomBook Modal = "customBook"
)

// ParseModal maps a modal name to a Modal.
func ParseModal(name string) (Modal, error) {
	switch m := Modal(name); m {
	case ModalNone, ModalDelete, ModalAddOrMove, ModalCustomBook:
		return m, nil
	}
	return ModalNone, fmt.Errorf("%w: %q", ErrUnknownModal, name)
}

// CategoryView holds the books of one category twice: every book (full) and
// the books matching the current search (filtered). An element present in
// both always carries the same book and the same selection flag.
//
// All methods are safe for concurrent use; they run one at a time.
type CategoryView struct {
	mu sync.Mutex

	category   string
	books      BookStore
	categories CategoryStore
	notifier   Notifier
	validate   *validator.Validate

	loaded   bool
	full     []SelectableBook
	filtered []SelectableBook
	others   []string
	search   string
	modal    Modal
	draft    CustomBookForm
}

// NewCategoryView creates an unloaded view of the category.
func NewCategoryView(category string, books BookStore, categories CategoryStore, notifier Notifier) *CategoryView {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &CategoryView{
		category:   category,
		books:      books,
		categories: categories,
		notifier:   notifier,
		validate:   validator.New(),
		modal:      ModalNone,
		full:       []SelectableBook{},
		filtered:   []SelectableBook{},
		others:     []string{},
	}
}

func (v *CategoryView) Category() string {
	return v.category
}

// Load reads the category's books and the names of every other category.
// Both book sequences start out unselected and the search is cleared.
func (v *CategoryView) Load() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	books, err := v.books.ListByCategory(v.category)
	if err != nil {
		log.Printf("Failed to load books for category %q: %v", v.category, err)
		return fmt.Errorf("failed to load books: %w", err)
	}

	all, err := v.categories.All()
	if err != nil {
		log.Printf("Failed to load categories: %v", err)
		return fmt.Errorf("failed to load categories: %w", err)
	}

	others := make([]string, 0, len(all))
	for _, c := range all {
		if c.Name != v.category {
			others = append(others, c.Name)
		}
	}

	v.full = wrapUnselected(books)
	v.filtered = wrapUnselected(books)
	v.others = others
	v.search = ""
	v.modal = ModalNone
	v.draft = CustomBookForm{}
	v.loaded = true
	return nil
}

// Filter recomputes the filtered sequence from the full one. Every book in
// both sequences ends up unselected.
func (v *CategoryView) Filter(query string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return ErrNotLoaded
	}

	setSelected(v.full, false)
	setSelected(v.filtered, false)

	filtered := make([]SelectableBook, 0, len(v.full))
	for _, b := range v.full {
		if matchesQuery(b.Book, query) {
			filtered = append(filtered, b)
		}
	}

	v.filtered = filtered
	v.search = query
	return nil
}

// ToggleSelect flips the selection flag of one book in both sequences.
func (v *CategoryView) ToggleSelect(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return ErrNotLoaded
	}

	i := indexOf(v.full, id)
	if i < 0 {
		return ErrUnknownBook
	}

	selected := !v.full[i].IsSelected
	v.full[i].IsSelected = selected
	if j := indexOf(v.filtered, id); j >= 0 {
		v.filtered[j].IsSelected = selected
	}
	return nil
}

// SelectAllFiltered selects every filtered book and the matching elements of
// the full sequence. Books outside the filter keep their flag.
func (v *CategoryView) SelectAllFiltered() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return ErrNotLoaded
	}

	setSelected(v.filtered, true)
	for _, b := range v.filtered {
		if i := indexOf(v.full, b.Book.ID); i >= 0 {
			v.full[i].IsSelected = true
		}
	}
	return nil
}

func (v *CategoryView) DeselectAll() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return ErrNotLoaded
	}

	setSelected(v.full, false)
	setSelected(v.filtered, false)
	return nil
}

// ToggleFavorite flips the stored favorite flag of a book and then puts the
// updated book, unselected, in place in both sequences. Only books of this
// category can be toggled. Nothing changes locally when the read or the
// write fails.
func (v *CategoryView) ToggleFavorite(id string) (*entities.UserBook, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return nil, ErrNotLoaded
	}
	if indexOf(v.full, id) < 0 {
		return nil, ErrUnknownBook
	}

	book, err := v.books.GetByID(id)
	if err != nil {
		log.Printf("Failed to get user book %s: %v", id, err)
		return nil, fmt.Errorf("failed to get user book: %w", err)
	}

	book.IsFavorite = !book.IsFavorite
	if err := v.books.Update(book); err != nil {
		log.Printf("Failed to update user book %s: %v", id, err)
		return nil, fmt.Errorf("failed to update user book: %w", err)
	}

	if i := indexOf(v.full, id); i >= 0 {
		v.full[i] = SelectableBook{Book: *book}
	}
	if i := indexOf(v.filtered, id); i >= 0 {
		v.filtered[i] = SelectableBook{Book: *book}
	}
	return book, nil
}

// OpenModal shows a confirmation surface. The add-or-move modal refuses to
// open when there is no other category to target.
func (v *CategoryView) OpenModal(modal Modal) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return ErrNotLoaded
	}

	switch modal {
	case ModalNone, ModalDelete, ModalCustomBook:
	case ModalAddOrMove:
		if len(v.others) == 0 {
			v.notifier.Notify(info(msgNoOtherCategories))
			return ErrNoOtherCategories
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownModal, modal)
	}

	v.modal = modal
	return nil
}

func (v *CategoryView) CloseModal() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.modal = ModalNone
}

// Books returns a copy of the full sequence.
func (v *CategoryView) Books() []SelectableBook {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneSelectable(v.full)
}

// Filtered returns a copy of the filtered sequence.
func (v *CategoryView) Filtered() []SelectableBook {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneSelectable(v.filtered)
}

// Selected returns the selected books of the filtered sequence.
func (v *CategoryView) Selected() []entities.UserBook {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectedLocked()
}

func (v *CategoryView) selectedLocked() []entities.UserBook {
	selected := []entities.UserBook{}
	for _, b := range v.filtered {
		if b.IsSelected {
			selected = append(selected, b.Book)
		}
	}
	return selected
}

func (v *CategoryView) SearchText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.search
}

// OtherCategories returns the names of every category but this one.
func (v *CategoryView) OtherCategories() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string{}, v.others...)
}

func (v *CategoryView) Modal() Modal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.modal
}

func (v *CategoryView) Draft() CustomBookForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// Snapshot is a consistent copy of the whole view state.
type Snapshot struct {
	Category        string           `json:"category"`
	Loaded          bool             `json:"loaded"`
	Books           []SelectableBook `json:"books"`
	Filtered        []SelectableBook `json:"filtered"`
	SearchText      string           `json:"searchText"`
	OtherCategories []string         `json:"otherCategories"`
	Modal           Modal            `json:"modal"`
	Draft           CustomBookForm   `json:"draft"`
}

func (v *CategoryView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return Snapshot{
		Category:        v.category,
		Loaded:          v.loaded,
		Books:           cloneSelectable(v.full),
		Filtered:        cloneSelectable(v.filtered),
		SearchText:      v.search,
		OtherCategories: append([]string{}, v.others...),
		Modal:           v.modal,
		Draft:           v.draft,
	}
}
