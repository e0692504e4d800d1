package library

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mrlokans/tabby/internal/entities"
)

// CustomBookForm holds the fields typed in for a book that has no catalog
// record.
type CustomBookForm struct {
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	Summary   string `json:"summary"`
	Excerpt   string `json:"excerpt"`
	PageCount *int   `json:"pageCount" validate:"omitempty,min=0"`
	Notes     string `json:"notes"`
}

func (f CustomBookForm) toUserBook(placeholderID, category string) entities.UserBook {
	book := entities.UserBook{
		ID:           placeholderID,
		Title:        f.Title,
		Author:       f.Author,
		Summary:      entities.OptionalString(f.Summary),
		Excerpt:      entities.OptionalString(f.Excerpt),
		Notes:        entities.OptionalString(f.Notes),
		Category:     entities.OptionalString(category),
		IsCustomBook: true,
	}
	if f.PageCount != nil && *f.PageCount > 0 {
		pages := *f.PageCount
		book.PageCount = &pages
	}
	return book
}

func idSet(books []entities.UserBook) (map[string]struct{}, []string) {
	set := make(map[string]struct{}, len(books))
	ids := make([]string, 0, len(books))
	for _, b := range books {
		set[b.ID] = struct{}{}
		ids = append(ids, b.ID)
	}
	return set, ids
}

func (v *CategoryView) checkTargets(targets []string) error {
	if len(targets) == 0 {
		return ErrNoTargetCategories
	}
	for _, target := range targets {
		if target == v.category {
			return fmt.Errorf("%w: %q", ErrInvalidTarget, target)
		}
	}
	return nil
}

// dropLocked removes books that left the category and shows every remaining
// book with the search cleared.
func (v *CategoryView) dropLocked(ids map[string]struct{}) {
	v.full = withoutIDs(v.full, ids)
	v.filtered = cloneSelectable(v.full)
	v.search = ""
	v.modal = ModalNone
}

// insertIntoEach copies the books into every target, continuing past
// failures so every category gets its attempt.
func (v *CategoryView) insertIntoEach(books []entities.UserBook, targets []string) error {
	var errs []error
	for _, target := range targets {
		if err := v.books.InsertManyWithCategory(books, target); err != nil {
			log.Printf("Failed to add books to category %q: %v", target, err)
			errs = append(errs, fmt.Errorf("category %q: %w", target, err))
		}
	}
	return errors.Join(errs...)
}

// DeleteSelected removes the selected books from the store and, once that
// succeeded, from the view.
func (v *CategoryView) DeleteSelected() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return ErrNotLoaded
	}

	selected := v.selectedLocked()
	if len(selected) == 0 {
		return ErrNoSelection
	}

	set, ids := idSet(selected)
	if err := v.books.DeleteByIDs(ids); err != nil {
		log.Printf("%s: %v", msgDeleteFailedLogged, err)
		return fmt.Errorf("failed to delete selected books: %w", err)
	}

	v.dropLocked(set)
	v.notifier.Notify(info(msgDeleted))
	return nil
}

// AddSelectedToCategories inserts a fresh copy of every selected book into
// each target category. Categories written before a failure keep their
// rows. The view itself does not change beyond closing the modal.
func (v *CategoryView) AddSelectedToCategories(targets []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return ErrNotLoaded
	}
	if err := v.checkTargets(targets); err != nil {
		return err
	}

	selected := v.selectedLocked()
	if len(selected) == 0 {
		return ErrNoSelection
	}

	if err := v.insertIntoEach(selected, targets); err != nil {
		v.notifier.Notify(failure(msgAddFailed))
		return fmt.Errorf("failed to add selected books to all categories: %w", err)
	}

	v.modal = ModalNone
	v.notifier.Notify(info(msgAdded))
	return nil
}

// MoveSelectedToCategories moves the selected books out of this category.
//
// With a single target the rows are re-filed in place and keep their IDs.
// With several targets each one receives fresh copies and the originals are
// deleted afterwards; the delete is skipped when any copy failed, so the
// originals stay where they were.
func (v *CategoryView) MoveSelectedToCategories(targets []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return ErrNotLoaded
	}
	if err := v.checkTargets(targets); err != nil {
		return err
	}

	selected := v.selectedLocked()
	if len(selected) == 0 {
		return ErrNoSelection
	}
	set, ids := idSet(selected)

	if len(targets) == 1 {
		if err := v.books.UpdateCategoryForBooks(selected, targets[0]); err != nil {
			log.Printf("Failed to update user books to have category %q: %v", targets[0], err)
			v.notifier.Notify(failure(msgAddFailed))
			return fmt.Errorf("failed to move selected books: %w", err)
		}
	} else {
		if err := v.insertIntoEach(selected, targets); err != nil {
			v.notifier.Notify(failure(msgAddFailed))
			return fmt.Errorf("failed to add selected books to all categories: %w", err)
		}
		if err := v.books.DeleteByIDs(ids); err != nil {
			log.Printf("Failed to delete moved books from %q: %v", v.category, err)
			v.notifier.Notify(failure(msgDeleteOrigFailed))
			return fmt.Errorf("failed to delete moved books: %w", err)
		}
	}

	v.dropLocked(set)
	v.notifier.Notify(info(msgMoved))
	return nil
}

// AddCustomBook validates the form and stores it as a custom book of this
// category. The stored book goes to the front of both sequences. On failure
// the form is kept as the draft and the modal stays as it was.
func (v *CategoryView) AddCustomBook(form CustomBookForm) (*entities.UserBook, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return nil, ErrNotLoaded
	}

	form.Title = strings.TrimSpace(form.Title)
	form.Author = strings.TrimSpace(form.Author)
	v.draft = form

	if err := v.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCustomBook, err)
	}

	// The store assigns the real ID; this one only has to be non-empty.
	book := form.toUserBook(fmt.Sprintf("%d%s", len(v.full)+1, form.Title), v.category)

	stored, err := v.books.Insert(&book)
	if err != nil {
		log.Printf("%s: %v", msgCustomBookFailed, err)
		v.notifier.Notify(failure(msgCustomBookFailed))
		return nil, fmt.Errorf("failed to add custom book: %w", err)
	}

	entry := SelectableBook{Book: *stored}
	v.full = append([]SelectableBook{entry}, v.full...)
	v.filtered = append([]SelectableBook{entry}, v.filtered...)
	v.draft = CustomBookForm{}
	v.modal = ModalNone
	v.notifier.Notify(info(msgCustomBookAdded))
	return stored, nil
}
