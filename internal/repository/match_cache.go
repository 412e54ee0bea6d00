package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"scholarship-workers/internal/models"
)

const matchCachePrefix = "scholarship:matches:"

func MatchCacheKey(studentID string) string {
	return matchCachePrefix + studentID
}

type RedisMatchCache struct {
	redis redis.Cmdable
	ttl   time.Duration
}

func NewRedisMatchCache(rdb redis.Cmdable, ttl time.Duration) *RedisMatchCache {
	return &RedisMatchCache{redis: rdb, ttl: ttl}
}

// Get returns nil, nil on a miss.
func (c *RedisMatchCache) Get(ctx context.Context, studentID string) (*models.MatchOutput, error) {
	val, err := c.redis.Get(ctx, MatchCacheKey(studentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached matches: %w", err)
	}

	var out models.MatchOutput
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, fmt.Errorf("decode cached matches: %w", err)
	}
	return &out, nil
}

func (c *RedisMatchCache) Set(ctx context.Context, out *models.MatchOutput) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}
	if err := c.redis.Set(ctx, MatchCacheKey(out.StudentID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cached matches: %w", err)
	}
	return nil
}
