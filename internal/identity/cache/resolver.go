package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"domus/internal/identity/repository"
	"domus/pkg/logger"
	"domus/pkg/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "identity:user:"

// Resolver answers "who is this user" lookups for feed projection.
type Resolver interface {
	Resolve(ctx context.Context, userID string) (*model.User, error)
}

// cachedResolver fronts the user store with Redis. A miss or any cache
// failure falls through to Mongo; cache writes are best effort.
type cachedResolver struct {
	repo  repository.UserRepository
	redis *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedResolver(repo repository.UserRepository, rdb *redis.Client, ttl time.Duration, log *logger.Logger) Resolver {
	return &cachedResolver{
		repo:  repo,
		redis: rdb,
		ttl:   ttl,
		log:   log,
	}
}

func (r *cachedResolver) Resolve(ctx context.Context, userID string) (*model.User, error) {
	if u, ok := r.fromCache(ctx, userID); ok {
		return u, nil
	}

	u, err := r.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.toCache(ctx, u)
	return u, nil
}

func (r *cachedResolver) fromCache(ctx context.Context, userID string) (*model.User, bool) {
	if r.redis == nil {
		return nil, false
	}

	raw, err := r.redis.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("Identity cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		r.log.Warn("Identity cache entry is corrupt, dropping it", "user_id", userID, "error", err)
		r.redis.Del(ctx, keyPrefix+userID)
		return nil, false
	}
	return &u, true
}

func (r *cachedResolver) toCache(ctx context.Context, u *model.User) {
	if r.redis == nil {
		return
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, keyPrefix+u.ID, raw, r.ttl).Err(); err != nil {
		r.log.Warn("Identity cache write failed", "user_id", u.ID, "error", err)
	}
}
