// Package youtube adapts the YouTube Data API v3 to the search pipeline:
// keyword search for candidates and batch hydration of video metadata.
package youtube

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/internal/service"
)

// MaxResults bounds both the candidate list returned by Search and the batch
// size accepted by FetchDetails.
const MaxResults = 20

// DefaultTimeout bounds each platform call when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// Client wraps the YouTube Data API v3 client.
type Client struct {
	service *youtubeapi.Service
	timeout time.Duration
}

// NewClient creates a new YouTube API client. Each call gets a bounded
// timeout; a timeout surfaces as ErrUpstreamUnavailable like any other
// transport failure. Extra options are appended after the API key, which
// lets tests point the client at a local server.
func NewClient(ctx context.Context, apiKey string, timeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtubeapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: svc, timeout: timeout}, nil
}

// Search issues a keyword search and returns up to MaxResults candidates in
// the order the platform chose for the requested order value. An empty list
// is a legitimate "no matches" outcome, not an error.
func (c *Client) Search(ctx context.Context, query string, filters models.FilterOptions) ([]models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		MaxResults(MaxResults).
		Context(ctx)

	if filters.Order != "" {
		call = call.Order(string(filters.Order))
	}
	if filters.VideoDuration != "" && filters.VideoDuration != models.DurationAny {
		call = call.VideoDuration(string(filters.VideoDuration))
	}
	if filters.PublishedAfter != nil {
		call = call.PublishedAfter(filters.PublishedAfter.UTC().Format(time.RFC3339))
	}

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("%w: search request failed: %v", service.ErrUpstreamUnavailable, err)
	}

	candidates := make([]models.Candidate, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			return nil, fmt.Errorf("%w: search item missing id or snippet", service.ErrInvalidResponseShape)
		}
		candidates = append(candidates, models.Candidate{
			VideoID:     item.Id.VideoId,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Thumbnail:   thumbnailURL(item.Snippet.Thumbnails),
		})
	}

	return candidates, nil
}

// FetchDetails resolves a batch of candidate identifiers to fully hydrated
// results. Identifiers the platform does not return are simply absent from
// the output. Callers must short-circuit on an empty candidate list before
// calling this method; an empty batch here is a caller bug.
func (c *Client) FetchDetails(ctx context.Context, videoIDs []string) ([]models.SearchResult, error) {
	if len(videoIDs) == 0 {
		return nil, fmt.Errorf("no video IDs provided")
	}
	if len(videoIDs) > MaxResults {
		return nil, fmt.Errorf("too many video IDs (max %d, got %d)", MaxResults, len(videoIDs))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoIDs...).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("%w: details request failed: %v", service.ErrUpstreamUnavailable, err)
	}

	results := make([]models.SearchResult, 0, len(response.Items))
	for _, item := range response.Items {
		result, err := mapVideoToResult(item)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// mapVideoToResult converts one platform video record into a SearchResult,
// applying the "0" default for absent statistics at the boundary.
func mapVideoToResult(video *youtubeapi.Video) (models.SearchResult, error) {
	if video.Id == "" || video.Snippet == nil || video.ContentDetails == nil {
		return models.SearchResult{}, fmt.Errorf("%w: video item missing id, snippet, or contentDetails", service.ErrInvalidResponseShape)
	}

	result := models.SearchResult{
		VideoID:      video.Id,
		Title:        video.Snippet.Title,
		Description:  video.Snippet.Description,
		Thumbnail:    thumbnailURL(video.Snippet.Thumbnails),
		Duration:     video.ContentDetails.Duration,
		ViewCount:    "0",
		LikeCount:    "0",
		ChannelID:    video.Snippet.ChannelId,
		ChannelTitle: video.Snippet.ChannelTitle,
		PublishedAt:  video.Snippet.PublishedAt,
	}

	if video.Statistics != nil {
		result.ViewCount = strconv.FormatUint(video.Statistics.ViewCount, 10)
		result.LikeCount = strconv.FormatUint(video.Statistics.LikeCount, 10)
	}

	return result, nil
}

// thumbnailURL prefers the high-resolution thumbnail, falling back to medium
// then default when the platform omits it.
func thumbnailURL(thumbs *youtubeapi.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	if thumbs.High != nil && thumbs.High.Url != "" {
		return thumbs.High.Url
	}
	if thumbs.Medium != nil && thumbs.Medium.Url != "" {
		return thumbs.Medium.Url
	}
	if thumbs.Default != nil && thumbs.Default.Url != "" {
		return thumbs.Default.Url
	}
	return ""
}
