package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports connectivity of one external dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BrokerHealth reports broker connection liveness.
type BrokerHealth interface {
	IsHealthy() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db        Pinger
	cache     Pinger
	publisher BrokerHealth
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(db, cache Pinger, publisher BrokerHealth) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cache,
		publisher: publisher,
	}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks if the application is ready to serve traffic. The
// category cache store is intentionally excluded from readiness: the category
// service falls back to direct fetches when the store is down, so a Redis
// outage does not make the service unready.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"database": "unhealthy",
			"error":    err.Error(),
			"time":     time.Now(),
		})
		return
	}

	if !h.publisher.IsHealthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"rabbitmq": "unhealthy",
			"time":     time.Now(),
		})
		return
	}

	cacheStatus := "healthy"
	if err := h.cache.Ping(ctx); err != nil {
		cacheStatus = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "UP",
		"database": "healthy",
		"rabbitmq": "healthy",
		"cache":    cacheStatus,
		"time":     time.Now(),
	})
}
