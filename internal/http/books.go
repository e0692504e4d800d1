package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/tabby/internal/database/userbooks"
	"github.com/mrlokans/tabby/internal/entities"
)

type BooksController struct {
	store   BookStore
	screens ScreenCache
}

func NewBooksController(store BookStore, screens ScreenCache) *BooksController {
	return &BooksController{store: store, screens: screens}
}

// UpdateBookRequest replaces the editable columns of one library row.
type UpdateBookRequest struct {
	Title         string   `json:"title" binding:"required"`
	Author        string   `json:"author" binding:"required"`
	Excerpt       string   `json:"excerpt"`
	Summary       string   `json:"summary"`
	Image         string   `json:"image"`
	Rating        *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	Genres        string   `json:"genres"`
	IsFavorite    bool     `json:"isFavorite"`
	Category      string   `json:"category"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	PageCount     *int     `json:"pageCount" binding:"omitempty,min=0"`
	Notes         string   `json:"notes"`
	ISBN          string   `json:"isbn"`
}

func (r UpdateBookRequest) apply(book *entities.UserBook) {
	book.Title = strings.TrimSpace(r.Title)
	book.Author = strings.TrimSpace(r.Author)
	book.Excerpt = entities.OptionalString(r.Excerpt)
	book.Summary = entities.OptionalString(r.Summary)
	book.Image = entities.OptionalString(r.Image)
	book.Rating = r.Rating
	book.Genres = entities.OptionalString(r.Genres)
	book.IsFavorite = r.IsFavorite
	book.Category = entities.OptionalString(strings.TrimSpace(r.Category))
	book.Publisher = entities.OptionalString(r.Publisher)
	book.PublishedDate = entities.OptionalString(r.PublishedDate)
	book.PageCount = r.PageCount
	book.Notes = entities.OptionalString(r.Notes)
	book.ISBN = entities.OptionalString(r.ISBN)
}

// List handles GET /api/books
func (bc *BooksController) List(c *gin.Context) {
	filter := userbooks.BookFilter{}
	if category := c.Query("category"); category != "" {
		filter = filter.WithCategory(category)
	}

	custom, ok := parseOptionalBool(c, "custom")
	if !ok {
		return
	}
	if custom != nil {
		filter = filter.WithCustom(*custom)
	}

	favorite, ok := parseOptionalBool(c, "favorite")
	if !ok {
		return
	}
	if favorite != nil {
		filter = filter.WithFavorite(*favorite)
	}

	books, err := bc.store.Find(filter)
	if err != nil {
		respondInternalError(c, err, "listing books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// Get handles GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseStringParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		respondDomainError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Update handles PUT /api/books/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseStringParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	current, err := bc.store.GetByID(id)
	if err != nil {
		respondDomainError(c, err, "book")
		return
	}
	previousCategory := current.Category.String()

	updated := *current
	req.apply(&updated)
	if err := bc.store.Update(&updated); err != nil {
		respondDomainError(c, err, "book")
		return
	}

	bc.screens.Forget(previousCategory, updated.Category.String())

	stored, err := bc.store.GetByID(id)
	if err != nil {
		respondDomainError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, stored)
}

// Delete handles DELETE /api/books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseStringParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		respondDomainError(c, err, "book")
		return
	}

	if err := bc.store.DeleteByID(id); err != nil {
		respondInternalError(c, err, "deleting book")
		return
	}

	bc.screens.Forget(book.Category.String())
	respondSuccess(c, "book deleted")
}

// CategoriesForISBN handles GET /api/books/isbn/:isbn/categories
func (bc *BooksController) CategoriesForISBN(c *gin.Context) {
	isbn, ok := parseStringParam(c, "isbn")
	if !ok {
		return
	}

	names, err := bc.store.CategoryNamesWithISBN(isbn)
	if err != nil {
		respondInternalError(c, err, "listing categories by isbn")
		return
	}
	c.JSON(http.StatusOK, gin.H{"isbn": isbn, "categories": names})
}
