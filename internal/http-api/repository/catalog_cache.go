package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"petclinic/internal/http-api/models"

	"github.com/redis/go-redis/v9"
)

// CachedServiceRepository wraps a ServiceRepository with a Redis read-through
// cache keyed by service name. Cache failures fall back to the database; a
// lookup never fails because Redis is down.
type CachedServiceRepository struct {
	inner  ServiceRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedServiceRepository(inner ServiceRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedServiceRepository {
	return &CachedServiceRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func serviceCacheKey(name string) string {
	return fmt.Sprintf("service:name:%s", name)
}

func (r *CachedServiceRepository) GetAll(ctx context.Context) ([]models.Service, error) {
	return r.inner.GetAll(ctx)
}

func (r *CachedServiceRepository) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedServiceRepository) GetByName(ctx context.Context, name string) (*models.Service, error) {
	if r.client != nil {
		raw, err := r.client.Get(ctx, serviceCacheKey(name)).Result()
		if err == nil {
			var service models.Service
			if jsonErr := json.Unmarshal([]byte(raw), &service); jsonErr == nil {
				return &service, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			r.logger.Warn("service cache read failed", "service", name, "error", err)
		}
	}

	service, err := r.inner.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if r.client != nil {
		if raw, jsonErr := json.Marshal(service); jsonErr == nil {
			if err := r.client.Set(ctx, serviceCacheKey(name), raw, r.ttl).Err(); err != nil {
				r.logger.Warn("service cache write failed", "service", name, "error", err)
			}
		}
	}

	return service, nil
}

var _ ServiceRepository = (*CachedServiceRepository)(nil)
