package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
)

const profileCachePrefix = "student:profile:"

func ProfileCacheKey(studentID string) string {
	return profileCachePrefix + studentID
}

// CachedProfileRepository reads through redis. Cache failures are logged
// and never fail a lookup.
type CachedProfileRepository struct {
	next   ProfileRepository
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedProfileRepository(next ProfileRepository, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedProfileRepository {
	return &CachedProfileRepository{next: next, redis: rdb, ttl: ttl, logger: log}
}

func (r *CachedProfileRepository) GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	key := ProfileCacheKey(studentID)

	val, err := r.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var profile models.StudentProfile
		if jsonErr := json.Unmarshal([]byte(val), &profile); jsonErr == nil {
			return &profile, nil
		}
		r.logger.Warn("discarding unreadable cached profile", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("profile cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	profile, err := r.next.GetProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(profile); err == nil {
		if err := r.redis.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.Warn("profile cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return profile, nil
}

// Invalidate drops the cached copy after a profile edit.
func (r *CachedProfileRepository) Invalidate(ctx context.Context, studentID string) error {
	return r.redis.Del(ctx, ProfileCacheKey(studentID)).Err()
}
