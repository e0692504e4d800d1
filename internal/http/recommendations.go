package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/tabby/internal/database/recommended"
)

type RecommendationsController struct {
	store   RecommendationStore
	service RecommendationService
	screens ScreenCache
}

func NewRecommendationsController(store RecommendationStore, service RecommendationService, screens ScreenCache) *RecommendationsController {
	return &RecommendationsController{store: store, service: service, screens: screens}
}

type AddRecommendationRequest struct {
	ISBN string `json:"isbn" binding:"required"`
}

type ImportRecommendationsRequest struct {
	IDs      []string `json:"ids" binding:"required,min=1"`
	Category string   `json:"category" binding:"required"`
}

// List handles GET /api/recommendations
func (rc *RecommendationsController) List(c *gin.Context) {
	added, ok := parseOptionalBool(c, "added")
	if !ok {
		return
	}

	filter := recommended.Filter{}
	if added != nil {
		filter = filter.WithAddToLibrary(*added)
	}

	books, err := rc.store.Find(filter)
	if err != nil {
		respondInternalError(c, err, "listing recommendations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": books, "count": len(books)})
}

// Create handles POST /api/recommendations
// The ISBN is looked up on OpenLibrary and stored unless already recommended.
func (rc *RecommendationsController) Create(c *gin.Context) {
	var req AddRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	book, err := rc.service.AddByISBN(ctx, req.ISBN)
	if err != nil {
		respondDomainError(c, err, "recommendation")
		return
	}
	respondCreated(c, book)
}

// Import handles POST /api/recommendations/import
func (rc *RecommendationsController) Import(c *gin.Context) {
	var req ImportRecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	category := strings.TrimSpace(req.Category)

	n, err := rc.service.Import(c.Request.Context(), req.IDs, category)
	if n > 0 {
		rc.screens.Forget(category)
	}
	if err != nil {
		respondDomainError(c, err, "recommendation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": n, "category": category})
}

// DeleteAll handles DELETE /api/recommendations
func (rc *RecommendationsController) DeleteAll(c *gin.Context) {
	if err := rc.store.DeleteAll(); err != nil {
		respondInternalError(c, err, "clearing recommendations")
		return
	}
	respondSuccess(c, "recommendations cleared")
}

// Delete handles DELETE /api/recommendations/:id
func (rc *RecommendationsController) Delete(c *gin.Context) {
	id, ok := parseStringParam(c, "id")
	if !ok {
		return
	}
	if err := rc.store.DeleteByID(id); err != nil {
		respondInternalError(c, err, "deleting recommendation")
		return
	}
	respondSuccess(c, "recommendation deleted")
}
