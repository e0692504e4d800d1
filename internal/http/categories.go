package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/tabby/internal/database/categories"
	"github.com/mrlokans/tabby/internal/entities"
)

type CategoriesController struct {
	store   CategoryStore
	books   BookStore
	screens ScreenCache
}

func NewCategoriesController(store CategoryStore, books BookStore, screens ScreenCache) *CategoriesController {
	return &CategoriesController{store: store, books: books, screens: screens}
}

type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	IsPinned bool   `json:"isPinned"`
	Position *int   `json:"position"`
}

// UpdateCategoryRequest changes only the fields that are set.
type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	IsPinned *bool   `json:"isPinned"`
	Position *int    `json:"position"`
}

// List handles GET /api/categories
func (cc *CategoriesController) List(c *gin.Context) {
	pinned, ok := parseOptionalBool(c, "pinned")
	if !ok {
		return
	}

	filter := categories.Filter{}
	if pinned != nil {
		filter = filter.WithPinned(*pinned)
	}

	found, err := cc.store.Find(filter)
	if err != nil {
		respondInternalError(c, err, "listing categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": found, "count": len(found)})
}

// Create handles POST /api/categories
// Categories without a position are appended after the last one.
func (cc *CategoriesController) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	category := &entities.Category{Name: name, IsPinned: req.IsPinned}
	if req.Position != nil {
		category.Position = *req.Position
	} else {
		next, err := cc.store.NextPosition()
		if err != nil {
			respondInternalError(c, err, "computing category position")
			return
		}
		category.Position = next
	}

	created, err := cc.store.Create(category)
	if err != nil {
		respondDomainError(c, err, "category")
		return
	}

	// every screen lists the other categories
	cc.screens.Reset()
	respondCreated(c, created)
}

// Update handles PATCH /api/categories/:name
// A new name is carried over to the category's books.
func (cc *CategoriesController) Update(c *gin.Context) {
	oldName, ok := parseStringParam(c, "name")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	current, err := cc.store.GetByName(oldName)
	if err != nil {
		respondDomainError(c, err, "category")
		return
	}

	updated := *current
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
		if updated.Name == "" {
			respondBadRequest(c, "name must not be blank")
			return
		}
	}
	if req.IsPinned != nil {
		updated.IsPinned = *req.IsPinned
	}
	if req.Position != nil {
		updated.Position = *req.Position
	}

	if updated.Name != oldName {
		err = cc.store.Rename(oldName, &updated)
	} else {
		err = cc.store.Update(oldName, &updated)
	}
	if err != nil {
		respondDomainError(c, err, "category")
		return
	}

	if updated.Name != oldName {
		cc.screens.Reset()
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/categories/:name
// The books filed under the category are deleted with it.
func (cc *CategoriesController) Delete(c *gin.Context) {
	name, ok := parseStringParam(c, "name")
	if !ok {
		return
	}

	if err := cc.store.Delete(name); err != nil {
		respondDomainError(c, err, "category")
		return
	}
	if err := cc.books.DeleteByCategory(name); err != nil {
		respondInternalError(c, err, "deleting category books")
		return
	}

	cc.screens.Reset()
	respondSuccess(c, "category deleted")
}
