package repository

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"supportmatch-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// PoolCacheRepository caches retrieved candidate pools in Redis so repeated
// matching passes over the same open conversation do not hit the search
// index every time. The key is opaque to callers; expiry is fixed per
// repository instance.
type PoolCacheRepository interface {
	Get(ctx context.Context, currentTags []string) ([]model.Candidate, bool, error)
	Set(ctx context.Context, currentTags []string, pool []model.Candidate) error
}

type redisPoolCacheRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewPoolCacheRepository creates a new PoolCacheRepository instance.
func NewPoolCacheRepository(redisClient *redis.Client, ttl time.Duration) PoolCacheRepository {
	return &redisPoolCacheRepository{redisClient: redisClient, ttl: ttl}
}

// poolKey derives a stable cache key from the current tag set. Order must
// not matter, so tags are sorted before hashing.
func poolKey(currentTags []string) string {
	sorted := make([]string, len(currentTags))
	copy(sorted, currentTags)
	sort.Strings(sorted)
	sum := sha1.Sum([]byte(strings.Join(sorted, "|")))
	return fmt.Sprintf("match:pool:%x", sum)
}

// Get returns the cached pool for the tag set, reporting whether it was
// present.
func (r *redisPoolCacheRepository) Get(ctx context.Context, currentTags []string) ([]model.Candidate, bool, error) {
	jsonData, err := r.redisClient.Get(ctx, poolKey(currentTags)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached pool: %w", err)
	}
	var pool []model.Candidate
	if err := json.Unmarshal([]byte(jsonData), &pool); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached pool: %w", err)
	}
	return pool, true, nil
}

// Set stores the pool under the tag set's key with the configured expiry.
func (r *redisPoolCacheRepository) Set(ctx context.Context, currentTags []string, pool []model.Candidate) error {
	jsonData, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("failed to marshal pool: %w", err)
	}
	if err := r.redisClient.Set(ctx, poolKey(currentTags), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached pool: %w", err)
	}
	return nil
}
