// Package models contains the data models and DTOs for the TubeSeek search service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchOrder controls how the video platform orders search results.
type SearchOrder string

// SearchOrder constants map directly to the upstream "order" parameter.
const (
	OrderRelevance SearchOrder = "relevance"
	OrderDate      SearchOrder = "date"
	OrderViewCount SearchOrder = "viewCount"
)

// VideoDuration restricts search results by video length.
type VideoDuration string

// VideoDuration constants map directly to the upstream "videoDuration" parameter.
const (
	DurationAny    VideoDuration = "any"
	DurationShort  VideoDuration = "short"
	DurationMedium VideoDuration = "medium"
	DurationLong   VideoDuration = "long"
)

// Category identifies one of the fixed, non-personalized content groupings
// served from the shared day-cache.
type Category string

// Category constants define the supported category pages.
const (
	CategoryMusic    Category = "Music"
	CategoryTrending Category = "Trending"
	CategoryNews     Category = "News"
	CategoryKids     Category = "Kids"
)

// Categories lists all supported categories.
var Categories = []Category{CategoryMusic, CategoryTrending, CategoryNews, CategoryKids}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMusic, CategoryTrending, CategoryNews, CategoryKids:
		return true
	}
	return false
}

// FilterOptions are the caller-supplied search filters.
type FilterOptions struct {
	Order          SearchOrder   `json:"order,omitempty"`
	VideoDuration  VideoDuration `json:"videoDuration,omitempty"`
	PublishedAfter *time.Time    `json:"publishedAfter,omitempty"`
}

// Candidate is a video identifier returned by the search step together with
// the minimal snippet data the search endpoint provides. It is not yet
// hydrated with duration or statistics.
type Candidate struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// SearchResult is one fully hydrated video as seen by the refiner and by
// callers. ViewCount and LikeCount are decimal strings because the upstream
// API exposes them as strings and both the UI and the refiner prompt format
// them as text; "0" is substituted when the upstream payload omits them.
type SearchResult struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	Duration     string `json:"duration"`
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

// CachedCategoryEntry is the stored per-category snapshot. It is valid only
// when Date equals the current server-local calendar day and Videos is
// non-empty; anything else is a cache miss.
type CachedCategoryEntry struct {
	Date   string         `json:"date"`
	Videos []SearchResult `json:"videos"`
}

// SearchEvent records one personalized search for history and analytics.
// Events are published to the broker by the API server and persisted by the
// history worker.
type SearchEvent struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Query       string    `json:"query"`
	Order       string    `json:"order"`
	Duration    string    `json:"duration"`
	ResultCount int       `json:"result_count"`
	SearchedAt  time.Time `json:"searched_at"`
}

// DailySearchCount is one row of the per-day search aggregation.
type DailySearchCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// QueryCount is one row of the top-queries aggregation.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// SearchRequestDTO represents the search request body.
type SearchRequestDTO struct {
	Query   string        `json:"query"`
	Filters FilterOptions `json:"filters"`
	UserID  string        `json:"userId"`
}

// SearchResponseDTO represents the search and category response. On success
// Data is always a non-nil list, even when empty, and Error is absent; on
// failure Data is null and Error carries the human-readable message. An empty
// Data therefore always means "no matches", never a failure.
type SearchResponseDTO struct {
	Data  []SearchResult `json:"data"`
	Error string         `json:"error,omitempty"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}
