package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubeseek/search-service-go/internal/models"
)

// CategoryService is the category cache boundary consumed by the HTTP layer.
type CategoryService interface {
	CategoryVideos(ctx context.Context, category models.Category) ([]models.SearchResult, error)
}

// CategoryHandler handles category page requests.
type CategoryHandler struct {
	categoryService CategoryService
}

// NewCategoryHandler creates a new CategoryHandler instance.
func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// HandleCategoryVideos serves one of the fixed category pages.
func (h *CategoryHandler) HandleCategoryVideos(c *gin.Context) {
	category := models.Category(c.Param("category"))
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, models.SearchResponseDTO{
			Error: "Unknown category: " + string(category),
		})
		return
	}

	results, err := h.categoryService.CategoryVideos(c.Request.Context(), category)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	if results == nil {
		results = []models.SearchResult{}
	}
	c.JSON(http.StatusOK, models.SearchResponseDTO{Data: results})
}
