package categories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/internal/service"
	"github.com/tubeseek/search-service-go/internal/service/search"
	"github.com/tubeseek/search-service-go/pkg/logger"
)

func init() {
	_ = logger.Init("error", "")
}

type fakeStore struct {
	entries map[models.Category]*models.CachedCategoryEntry

	getErr error
	setErr error

	getCalls int
	setCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[models.Category]*models.CachedCategoryEntry)}
}

func (f *fakeStore) Get(_ context.Context, category models.Category) (*models.CachedCategoryEntry, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[category], nil
}

func (f *fakeStore) Set(_ context.Context, category models.Category, entry *models.CachedCategoryEntry) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[category] = entry
	return nil
}

type fakeSearcher struct {
	calls int
	err   error

	lastQuery   string
	lastFilters models.FilterOptions
	lastOpts    search.Options

	results []models.SearchResult
}

func (f *fakeSearcher) Search(_ context.Context, query string, filters models.FilterOptions, opts search.Options) ([]models.SearchResult, error) {
	f.calls++
	f.lastQuery = query
	f.lastFilters = filters
	f.lastOpts = opts
	return f.results, f.err
}

var fixedNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

func newService(store Store, searcher Searcher) *Service {
	s := New(store, searcher)
	s.now = func() time.Time { return fixedNow }
	return s
}

func videoFixture(id string) models.SearchResult {
	return models.SearchResult{VideoID: id, Title: "title " + id}
}

func TestCategoryVideos_RejectsUnknownCategory(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := newService(newFakeStore(), searcher)

	_, err := svc.CategoryVideos(context.Background(), models.Category("gaming"))
	if err == nil {
		t.Fatal("CategoryVideos() with unknown category succeeded, want error")
	}
	if searcher.calls != 0 {
		t.Error("dispatcher was called for an unknown category")
	}
}

func TestCategoryVideos_SameDayHitSkipsDispatcher(t *testing.T) {
	store := newFakeStore()
	store.entries[models.CategoryMusic] = &models.CachedCategoryEntry{
		Date:   "2026-04-02",
		Videos: []models.SearchResult{videoFixture("cached")},
	}
	searcher := &fakeSearcher{}
	svc := newService(store, searcher)

	videos, err := svc.CategoryVideos(context.Background(), models.CategoryMusic)
	if err != nil {
		t.Fatalf("CategoryVideos() error = %v", err)
	}
	if len(videos) != 1 || videos[0].VideoID != "cached" {
		t.Errorf("videos = %v, want the cached entry", videos)
	}
	if searcher.calls != 0 {
		t.Error("dispatcher was called despite a same-day cache hit")
	}
}

func TestCategoryVideos_StaleEntryRefreshes(t *testing.T) {
	store := newFakeStore()
	store.entries[models.CategoryMusic] = &models.CachedCategoryEntry{
		Date:   "2026-04-01",
		Videos: []models.SearchResult{videoFixture("stale")},
	}
	searcher := &fakeSearcher{results: []models.SearchResult{videoFixture("fresh")}}
	svc := newService(store, searcher)

	videos, err := svc.CategoryVideos(context.Background(), models.CategoryMusic)
	if err != nil {
		t.Fatalf("CategoryVideos() error = %v", err)
	}
	if len(videos) != 1 || videos[0].VideoID != "fresh" {
		t.Errorf("videos = %v, want the fresh results", videos)
	}

	stored := store.entries[models.CategoryMusic]
	if stored.Date != "2026-04-02" {
		t.Errorf("stored date = %q, want %q", stored.Date, "2026-04-02")
	}
	if len(stored.Videos) != 1 || stored.Videos[0].VideoID != "fresh" {
		t.Errorf("stored videos = %v, want the fresh results", stored.Videos)
	}
}

func TestCategoryVideos_EmptyCachedListRefreshes(t *testing.T) {
	store := newFakeStore()
	store.entries[models.CategoryNews] = &models.CachedCategoryEntry{Date: "2026-04-02"}
	searcher := &fakeSearcher{results: []models.SearchResult{videoFixture("fresh")}}
	svc := newService(store, searcher)

	videos, err := svc.CategoryVideos(context.Background(), models.CategoryNews)
	if err != nil {
		t.Fatalf("CategoryVideos() error = %v", err)
	}
	if len(videos) != 1 || videos[0].VideoID != "fresh" {
		t.Errorf("videos = %v, want the fresh results", videos)
	}
}

func TestCategoryVideos_StoreReadErrorFallsBack(t *testing.T) {
	store := newFakeStore()
	store.getErr = service.ErrCacheStore
	searcher := &fakeSearcher{results: []models.SearchResult{videoFixture("fresh")}}
	svc := newService(store, searcher)

	videos, err := svc.CategoryVideos(context.Background(), models.CategoryTrending)
	if err != nil {
		t.Fatalf("CategoryVideos() error = %v, want nil despite store failure", err)
	}
	if len(videos) != 1 {
		t.Errorf("videos = %v, want the fresh results", videos)
	}
}

func TestCategoryVideos_StoreWriteErrorDoesNotFail(t *testing.T) {
	store := newFakeStore()
	store.setErr = service.ErrCacheStore
	searcher := &fakeSearcher{results: []models.SearchResult{videoFixture("fresh")}}
	svc := newService(store, searcher)

	videos, err := svc.CategoryVideos(context.Background(), models.CategoryKids)
	if err != nil {
		t.Fatalf("CategoryVideos() error = %v, want nil despite store failure", err)
	}
	if len(videos) != 1 {
		t.Errorf("videos = %v, want the fresh results", videos)
	}
}

func TestCategoryVideos_EmptyResultsAreNotCached(t *testing.T) {
	store := newFakeStore()
	searcher := &fakeSearcher{results: []models.SearchResult{}}
	svc := newService(store, searcher)

	_, err := svc.CategoryVideos(context.Background(), models.CategoryMusic)
	if err != nil {
		t.Fatalf("CategoryVideos() error = %v", err)
	}
	if store.setCalls != 0 {
		t.Error("empty results were written to the cache")
	}
}

func TestCategoryVideos_DispatcherErrorPropagates(t *testing.T) {
	store := newFakeStore()
	searcher := &fakeSearcher{err: service.ErrUpstreamUnavailable}
	svc := newService(store, searcher)

	_, err := svc.CategoryVideos(context.Background(), models.CategoryMusic)
	if !errors.Is(err, service.ErrUpstreamUnavailable) {
		t.Errorf("CategoryVideos() error = %v, want ErrUpstreamUnavailable", err)
	}
	if store.setCalls != 0 {
		t.Error("a failed refresh was written to the cache")
	}
}

func TestCategoryVideos_RefreshBypassesPersonalization(t *testing.T) {
	searcher := &fakeSearcher{results: []models.SearchResult{videoFixture("fresh")}}
	svc := newService(newFakeStore(), searcher)

	_, err := svc.CategoryVideos(context.Background(), models.CategoryMusic)
	if err != nil {
		t.Fatalf("CategoryVideos() error = %v", err)
	}
	if !searcher.lastOpts.BypassPersonalization {
		t.Error("category refresh did not bypass personalization")
	}
	if searcher.lastOpts.UserID != "" {
		t.Errorf("category refresh carried a user id: %q", searcher.lastOpts.UserID)
	}
}

func TestCategoryParams(t *testing.T) {
	svc := newService(newFakeStore(), &fakeSearcher{})

	tests := []struct {
		category  models.Category
		wantQuery string
		wantOrder models.SearchOrder
		wantAfter *time.Time
	}{
		{models.CategoryMusic, "latest music videos", models.OrderViewCount, timePtr(fixedNow.AddDate(0, 0, -30))},
		{models.CategoryTrending, "trending videos", models.OrderViewCount, timePtr(fixedNow.AddDate(0, 0, -7))},
		{models.CategoryNews, "latest news", models.OrderDate, nil},
		{models.CategoryKids, "kid friendly cartoons and nursery rhymes", models.OrderRelevance, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			query, filters := svc.categoryParams(tt.category)
			if query != tt.wantQuery {
				t.Errorf("query = %q, want %q", query, tt.wantQuery)
			}
			if filters.Order != tt.wantOrder {
				t.Errorf("order = %q, want %q", filters.Order, tt.wantOrder)
			}
			if tt.wantAfter == nil {
				if filters.PublishedAfter != nil {
					t.Errorf("publishedAfter = %v, want nil", filters.PublishedAfter)
				}
			} else if filters.PublishedAfter == nil || !filters.PublishedAfter.Equal(*tt.wantAfter) {
				t.Errorf("publishedAfter = %v, want %v", filters.PublishedAfter, tt.wantAfter)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
