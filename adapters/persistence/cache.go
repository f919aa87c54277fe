package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/logger"
)

const cacheKeyPrefix = "portfolio:"

// cachedPortfolioRepo is a read-through Redis cache in front of the real
// store. Every successful upsert invalidates the handle's key, so readers
// never see a record older than the latest aggregation. Cache failures
// degrade to the database.
type cachedPortfolioRepo struct {
	inner  portfolio.Repository
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedPortfolioRepo(inner portfolio.Repository, rdb *redis.Client, ttl time.Duration, log logger.Logger) portfolio.Repository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &cachedPortfolioRepo{inner: inner, rdb: rdb, ttl: ttl, logger: log}
}

func (r *cachedPortfolioRepo) Upsert(ctx context.Context, rec *portfolio.Record) error {
	if err := r.inner.Upsert(ctx, rec); err != nil {
		return err
	}
	if err := r.rdb.Del(ctx, cacheKeyPrefix+rec.Handle).Err(); err != nil {
		r.logger.Warn("cache invalidation failed", zap.String("handle", rec.Handle), zap.Error(err))
	}
	return nil
}

func (r *cachedPortfolioRepo) GetByHandle(ctx context.Context, handle string) (*portfolio.Record, error) {
	key := cacheKeyPrefix + handle

	cached, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		rec := &portfolio.Record{}
		if unmarshalErr := json.Unmarshal(cached, rec); unmarshalErr == nil {
			return rec, nil
		}
		r.logger.Warn("cached portfolio not decodable, falling through", zap.String("handle", handle))
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("cache read failed, falling through", zap.String("handle", handle), zap.Error(err))
	}

	rec, err := r.inner.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	if data, marshalErr := json.Marshal(rec); marshalErr == nil {
		if setErr := r.rdb.Set(ctx, key, data, r.ttl).Err(); setErr != nil {
			r.logger.Warn("cache write failed", zap.String("handle", handle), zap.Error(setErr))
		}
	}
	return rec, nil
}
