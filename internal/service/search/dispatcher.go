// Package search implements the query dispatcher: the single entry point of
// the retrieval pipeline used by both direct user search and category
// refresh.
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tubeseek/search-service-go/internal/metrics"
	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/internal/service"
	"github.com/tubeseek/search-service-go/pkg/logger"
)

// VideoFinder is the video platform boundary: keyword search for candidates
// and batch hydration of full metadata.
type VideoFinder interface {
	Search(ctx context.Context, query string, filters models.FilterOptions) ([]models.Candidate, error)
	FetchDetails(ctx context.Context, videoIDs []string) ([]models.SearchResult, error)
}

// Refiner judges which hydrated results are relevant to the query. The
// returned list is always a subset of the input, in model order.
type Refiner interface {
	Refine(ctx context.Context, query string, results []models.SearchResult) ([]models.SearchResult, error)
}

// EventPublisher records personalized searches for history and analytics.
type EventPublisher interface {
	PublishSearchEvent(ctx context.Context, event *models.SearchEvent) error
}

// Options control per-call dispatcher behavior.
type Options struct {
	// UserID identifies the searching user for history logging. Empty for
	// anonymous searches.
	UserID string

	// BypassPersonalization suppresses history logging. Category refreshes
	// set it so shared, non-personalized fetches never show up in any user's
	// history.
	BypassPersonalization bool
}

// Dispatcher orchestrates the search pipeline: search for candidates,
// hydrate them, refine for relevance. It owns no persistent state.
type Dispatcher struct {
	videos    VideoFinder
	refiner   Refiner
	publisher EventPublisher
	now       func() time.Time
}

// New creates a new Dispatcher. The publisher may be nil, in which case
// history logging is disabled.
func New(videos VideoFinder, refiner Refiner, publisher EventPublisher) *Dispatcher {
	return &Dispatcher{
		videos:    videos,
		refiner:   refiner,
		publisher: publisher,
		now:       time.Now,
	}
}

// Search runs the pipeline for one query. An empty or blank query returns an
// empty result set without any network call. Zero candidates from the
// platform is a legitimate "no matches" success. Any step failure aborts the
// pipeline; partial results are never returned.
func (d *Dispatcher) Search(ctx context.Context, query string, filters models.FilterOptions, opts Options) ([]models.SearchResult, error) {
	start := d.now()

	query = strings.TrimSpace(query)
	if query == "" {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return []models.SearchResult{}, nil
	}

	candidates, err := d.videos.Search(ctx, query, filters)
	if err != nil {
		d.recordFailure("search", query, err)
		return nil, err
	}

	if len(candidates) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return []models.SearchResult{}, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.VideoID)
	}

	hydrated, err := d.videos.FetchDetails(ctx, ids)
	if err != nil {
		d.recordFailure("details", query, err)
		return nil, err
	}

	if len(hydrated) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return []models.SearchResult{}, nil
	}

	refined, err := d.refiner.Refine(ctx, query, hydrated)
	if err != nil {
		d.recordFailure("refine", query, err)
		return nil, err
	}

	d.recordHistory(ctx, query, filters, len(refined), opts)

	metrics.SearchesTotal.WithLabelValues("success").Inc()
	metrics.SearchDuration.Observe(d.now().Sub(start).Seconds())

	return refined, nil
}

// recordHistory publishes a search event for personalized searches. History
// is best-effort: a publish failure is logged and never fails the search.
func (d *Dispatcher) recordHistory(ctx context.Context, query string, filters models.FilterOptions, resultCount int, opts Options) {
	if d.publisher == nil || opts.BypassPersonalization || opts.UserID == "" {
		return
	}

	event := &models.SearchEvent{
		ID:          uuid.New(),
		UserID:      opts.UserID,
		Query:       query,
		Order:       string(filters.Order),
		Duration:    string(filters.VideoDuration),
		ResultCount: resultCount,
		SearchedAt:  d.now(),
	}

	if err := d.publisher.PublishSearchEvent(ctx, event); err != nil {
		logger.Log.Warn("Failed to publish search event",
			zap.Error(err),
			zap.String("userId", opts.UserID),
			zap.String("query", query),
		)
	}
}

func (d *Dispatcher) recordFailure(step, query string, err error) {
	metrics.SearchesTotal.WithLabelValues("error").Inc()
	metrics.UpstreamErrors.WithLabelValues(upstreamTarget(err, step)).Inc()

	logger.Log.Error("Search pipeline step failed",
		zap.Error(err),
		zap.String("step", step),
		zap.String("query", query),
	)
}

func upstreamTarget(err error, step string) string {
	if errors.Is(err, service.ErrRefinementFailed) {
		return "refiner"
	}
	if step == "details" {
		return "platform_details"
	}
	return "platform_search"
}
