// Package cache provides the Redis-backed store for shared category video
// snapshots.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/internal/service"
)

const categoryKeyPrefix = "cached-categories:"

// Entries are superseded by the next day's write; the TTL only keeps Redis
// from accumulating snapshots for categories that stop being requested.
const categoryEntryTTL = 48 * time.Hour

// RedisCategoryStore stores one CachedCategoryEntry per category in Redis.
type RedisCategoryStore struct {
	client *redis.Client
}

// NewRedisCategoryStore creates a new RedisCategoryStore.
func NewRedisCategoryStore(client *redis.Client) *RedisCategoryStore {
	return &RedisCategoryStore{client: client}
}

// Get retrieves the stored entry for a category. A missing key is a cache
// miss (nil, nil), not an error. Store failures, including a corrupt stored
// payload, are reported as ErrCacheStore.
func (s *RedisCategoryStore) Get(ctx context.Context, category models.Category) (*models.CachedCategoryEntry, error) {
	data, err := s.client.Get(ctx, categoryKey(category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", service.ErrCacheStore, category, err)
	}

	var entry models.CachedCategoryEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", service.ErrCacheStore, category, err)
	}

	return &entry, nil
}

// Set overwrites the stored entry for a category.
func (s *RedisCategoryStore) Set(ctx context.Context, category models.Category, entry *models.CachedCategoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", service.ErrCacheStore, category, err)
	}

	if err := s.client.Set(ctx, categoryKey(category), data, categoryEntryTTL).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", service.ErrCacheStore, category, err)
	}

	return nil
}

// Ping checks store connectivity for readiness probes.
func (s *RedisCategoryStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func categoryKey(category models.Category) string {
	return categoryKeyPrefix + string(category)
}
