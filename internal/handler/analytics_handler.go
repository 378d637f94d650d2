package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/pkg/logger"
)

const (
	defaultAnalyticsDays  = 30
	maxAnalyticsDays      = 365
	defaultTopQueries     = 10
	maxTopQueries         = 100
	defaultHistoryEntries = 50
	maxHistoryEntries     = 500
)

// AnalyticsRepository is the history aggregation boundary.
type AnalyticsRepository interface {
	SearchCountsByDay(ctx context.Context, days int) ([]models.DailySearchCount, error)
	TopQueries(ctx context.Context, limit int) ([]models.QueryCount, error)
	UserHistory(ctx context.Context, userID string, limit int) ([]models.SearchEvent, error)
}

// AnalyticsHandler serves the admin usage dashboards.
type AnalyticsHandler struct {
	repo AnalyticsRepository
}

// NewAnalyticsHandler creates a new AnalyticsHandler instance.
func NewAnalyticsHandler(repo AnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo}
}

// HandleSearchCounts returns per-day search counts for the last N days.
func (h *AnalyticsHandler) HandleSearchCounts(c *gin.Context) {
	days := boundedQueryInt(c, "days", defaultAnalyticsDays, maxAnalyticsDays)

	counts, err := h.repo.SearchCountsByDay(c.Request.Context(), days)
	if err != nil {
		h.respondError(c, err, "failed to aggregate search counts")
		return
	}

	if counts == nil {
		counts = []models.DailySearchCount{}
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "counts": counts})
}

// HandleTopQueries returns the most frequent search queries.
func (h *AnalyticsHandler) HandleTopQueries(c *gin.Context) {
	limit := boundedQueryInt(c, "limit", defaultTopQueries, maxTopQueries)

	queries, err := h.repo.TopQueries(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err, "failed to aggregate top queries")
		return
	}

	if queries == nil {
		queries = []models.QueryCount{}
	}
	c.JSON(http.StatusOK, gin.H{"limit": limit, "queries": queries})
}

// HandleUserHistory returns the most recent searches of one user.
func (h *AnalyticsHandler) HandleUserHistory(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:    http.StatusBadRequest,
			Error:     "Bad Request",
			Message:   "userId path parameter is required",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}
	limit := boundedQueryInt(c, "limit", defaultHistoryEntries, maxHistoryEntries)

	events, err := h.repo.UserHistory(c.Request.Context(), userID, limit)
	if err != nil {
		h.respondError(c, err, "failed to load user history")
		return
	}

	if events == nil {
		events = []models.SearchEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "history": events})
}

func (h *AnalyticsHandler) respondError(c *gin.Context, err error, message string) {
	logger.Log.Error("Analytics query failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Status:    http.StatusInternalServerError,
		Error:     "Internal Server Error",
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

// boundedQueryInt parses a positive integer query parameter, clamped to max,
// falling back to def on absence or garbage.
func boundedQueryInt(c *gin.Context, name string, def, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
