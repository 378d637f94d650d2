// Package categories serves the fixed category pages (Music, Trending, News,
// Kids) from a shared, day-granularity cache in front of the search
// dispatcher.
package categories

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tubeseek/search-service-go/internal/metrics"
	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/internal/service/search"
	"github.com/tubeseek/search-service-go/pkg/logger"
)

const dayLayout = "2006-01-02"

// Store is the category cache store boundary. Get returns (nil, nil) on a
// clean miss.
type Store interface {
	Get(ctx context.Context, category models.Category) (*models.CachedCategoryEntry, error)
	Set(ctx context.Context, category models.Category, entry *models.CachedCategoryEntry) error
}

// Searcher is the dispatcher boundary.
type Searcher interface {
	Search(ctx context.Context, query string, filters models.FilterOptions, opts search.Options) ([]models.SearchResult, error)
}

// Service serves category videos, preferring the same-day cached snapshot and
// refreshing it through the dispatcher on a miss. Store failures never block
// serving fresh results.
type Service struct {
	store      Store
	dispatcher Searcher
	now        func() time.Time
}

// New creates a new category Service.
func New(store Store, dispatcher Searcher) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// CategoryVideos returns the videos for one category. Concurrent refreshes of
// the same category on the same day may race; the last writer wins, which is
// acceptable because both fetched near-identical shared content.
func (s *Service) CategoryVideos(ctx context.Context, category models.Category) ([]models.SearchResult, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("unsupported category %q", category)
	}

	today := s.now().Format(dayLayout)

	if videos, ok := s.tryCached(ctx, category, today); ok {
		metrics.CategoryCacheHits.WithLabelValues(string(category)).Inc()
		return videos, nil
	}

	metrics.CategoryCacheMisses.WithLabelValues(string(category)).Inc()
	return s.fetchDirect(ctx, category, today)
}

// tryCached reads the stored entry and reports whether it can be served. An
// entry is valid only when its date is today and its video list is non-empty.
// Store errors are swallowed here; the caller falls through to fetchDirect.
func (s *Service) tryCached(ctx context.Context, category models.Category, today string) ([]models.SearchResult, bool) {
	entry, err := s.store.Get(ctx, category)
	if err != nil {
		metrics.CacheStoreErrors.Inc()
		logger.Log.Warn("Category cache read failed, falling back to direct fetch",
			zap.Error(err),
			zap.String("category", string(category)),
		)
		return nil, false
	}

	if entry == nil || entry.Date != today || len(entry.Videos) == 0 {
		return nil, false
	}

	return entry.Videos, true
}

// fetchDirect refreshes the category through the dispatcher and stores the
// snapshot. Dispatcher errors propagate to the caller; store write errors are
// swallowed so a cache-store outage never blocks fresh results.
func (s *Service) fetchDirect(ctx context.Context, category models.Category, today string) ([]models.SearchResult, error) {
	query, filters := s.categoryParams(category)

	results, err := s.dispatcher.Search(ctx, query, filters, search.Options{
		BypassPersonalization: true,
	})
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		entry := &models.CachedCategoryEntry{Date: today, Videos: results}
		if err := s.store.Set(ctx, category, entry); err != nil {
			metrics.CacheStoreErrors.Inc()
			logger.Log.Warn("Category cache write failed",
				zap.Error(err),
				zap.String("category", string(category)),
			)
		}
	}

	return results, nil
}

// categoryParams derives the query and filters for one category refresh.
func (s *Service) categoryParams(category models.Category) (string, models.FilterOptions) {
	switch category {
	case models.CategoryMusic:
		after := s.now().AddDate(0, 0, -30)
		return "latest music videos", models.FilterOptions{
			Order:          models.OrderViewCount,
			PublishedAfter: &after,
		}
	case models.CategoryTrending:
		after := s.now().AddDate(0, 0, -7)
		return "trending videos", models.FilterOptions{
			Order:          models.OrderViewCount,
			PublishedAfter: &after,
		}
	case models.CategoryNews:
		return "latest news", models.FilterOptions{
			Order: models.OrderDate,
		}
	case models.CategoryKids:
		return "kid friendly cartoons and nursery rhymes", models.FilterOptions{
			Order: models.OrderRelevance,
		}
	default:
		return string(category), models.FilterOptions{}
	}
}
