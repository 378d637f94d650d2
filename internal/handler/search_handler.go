// Package handler provides HTTP request handlers for the application.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/internal/service"
	"github.com/tubeseek/search-service-go/internal/service/search"
	"github.com/tubeseek/search-service-go/pkg/logger"
)

// SearchService is the dispatcher boundary consumed by the HTTP layer.
type SearchService interface {
	Search(ctx context.Context, query string, filters models.FilterOptions, opts search.Options) ([]models.SearchResult, error)
}

// SearchHandler handles direct user search requests.
type SearchHandler struct {
	searchService SearchService
}

// NewSearchHandler creates a new SearchHandler instance.
func NewSearchHandler(searchService SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// HandleSearch processes a search request. An empty-but-successful result is
// returned as {"data": []} so callers can render "no matches found"; failures
// carry only an error message.
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req models.SearchRequestDTO

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Invalid search request payload",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusBadRequest, models.SearchResponseDTO{
			Error: "Invalid request payload: " + err.Error(),
		})
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), req.Query, req.Filters, search.Options{
		UserID: req.UserID,
	})
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	if results == nil {
		results = []models.SearchResult{}
	}
	c.JSON(http.StatusOK, models.SearchResponseDTO{Data: results})
}

// respondPipelineError maps a pipeline error to an HTTP status and the single
// human-readable message surfaced to the caller.
func respondPipelineError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUpstreamUnavailable),
		errors.Is(err, service.ErrInvalidResponseShape),
		errors.Is(err, service.ErrRefinementFailed):
		status = http.StatusBadGateway
	}

	logger.Log.Error("Search request failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(status, models.SearchResponseDTO{Error: service.UserMessage(err)})
}
