package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"eventfinder/internal/domain"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// buildKey normalizes the interest list so that the same zip and
// interests hit the same entry regardless of order or casing.
func buildKey(zipCode string, interests []string) string {
	normalized := make([]string, 0, len(interests))
	for _, interest := range interests {
		if v := strings.ToLower(strings.TrimSpace(interest)); v != "" {
			normalized = append(normalized, v)
		}
	}
	sort.Strings(normalized)
	return fmt.Sprintf("rec:zip:%s:interests:%s", zipCode, strings.Join(normalized, "|"))
}

// Get recommendations from cache
func (c *Cache) Get(ctx context.Context, zipCode string, interests []string) (*domain.RecommendationResult, bool, error) {
	key := buildKey(zipCode, interests)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var result domain.RecommendationResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}

	return &result, true, nil
}

// Store recommendations in cache
func (c *Cache) Set(ctx context.Context, zipCode string, interests []string, result *domain.RecommendationResult) error {
	key := buildKey(zipCode, interests)
	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}

	return nil
}

// ClearZip removes every cached entry for a zip code, used when the
// saved preferences change.
func (c *Cache) ClearZip(ctx context.Context, zipCode string) error {
	pattern := fmt.Sprintf("rec:zip:%s:interests:*", zipCode)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
