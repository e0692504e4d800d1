// Package library drives the per-category book screen: the selection and
// search state of one category's books and the bulk operations that move
// selected books between categories.
//
// State lives in memory and is only changed after the store confirms a
// write, so a failed operation never leaves the view out of sync with the
// database.
//
// # Usage
//
//	view := library.NewCategoryView("Fiction", bookRepo, categoryRepo, library.LogNotifier{})
//	if err := view.Load(); err != nil {
//		return err
//	}
//	view.Filter("tolkien")
//	view.SelectAllFiltered()
//	err := view.MoveSelectedToCategories([]string{"Fantasy"})
package library

import (
	"errors"

	"github.com/mrlokans/tabby/internal/entities"
)

// BookStore is the subset of the user book repository the view needs.
type BookStore interface {
	GetByID(id string) (*entities.UserBook, error)
	Insert(book *entities.UserBook) (*entities.UserBook, error)
	InsertManyWithCategory(books []entities.UserBook, category string) error
	Update(book *entities.UserBook) error
	UpdateCategoryForBooks(books []entities.UserBook, category string) error
	DeleteByIDs(ids []string) error
	ListByCategory(category string) ([]entities.UserBook, error)
}

// CategoryStore lists the categories books can be added or moved to.
type CategoryStore interface {
	All() ([]entities.Category, error)
}

var (
	ErrNotLoaded          = errors.New("category view has not been loaded")
	ErrUnknownBook        = errors.New("book is not part of this category view")
	ErrNoSelection        = errors.New("no books selected")
	ErrNoOtherCategories  = errors.New("no other categories to move or add books to")
	ErrNoTargetCategories = errors.New("no target categories given")
	ErrInvalidTarget      = errors.New("target category is the current category")
	ErrUnknownModal       = errors.New("unknown modal")
	ErrInvalidCustomBook  = errors.New("invalid custom book")
)
