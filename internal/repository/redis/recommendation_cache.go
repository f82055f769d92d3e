package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"smartMarket/domain"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecommendationCache keeps finished recommendation lists per user so
// repeated storefront loads within the TTL skip a full scoring pass.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecommendationCache(client *redis.Client, ttl time.Duration) *RecommendationCache {
	return &RecommendationCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *RecommendationCache) key(userID string) string {
	return fmt.Sprintf("reco:user:%s", userID)
}

func (r *RecommendationCache) Store(ctx context.Context, userID string, items []domain.RecommendationItem) error {
	jsonData, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := r.client.Set(ctx, r.key(userID), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store recommendations in Redis: %w", err)
	}

	return nil
}

func (r *RecommendationCache) Fetch(ctx context.Context, userID string) ([]domain.RecommendationItem, bool, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get recommendations from Redis: %w", err)
	}

	var items []domain.RecommendationItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}

	return items, true, nil
}

// Invalidate drops the cached list for a user, typically after new behavior
// events arrive.
func (r *RecommendationCache) Invalidate(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate recommendations: %w", err)
	}

	return nil
}
