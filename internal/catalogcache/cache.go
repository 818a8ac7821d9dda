// Package catalogcache keeps banner and service listings in redis.
//
// The cache fails open: when redis is not configured or returns an error the listing is
// read from the underlying source.
package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache keys.
const (
	BannersKey  = "catalog:banners"
	ServicesKey = "catalog:services"
)

// Source provides the listings on a cache miss.
type Source interface {
	ListBanners(ctx context.Context) ([]domain.Banner, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
}

// Cache is a read-through Source.
type Cache struct {
	source Source
	client *redis.Client
	ttl    time.Duration
}

// New returns Cache over source. A nil client disables caching.
func New(source Source, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		source: source,
		client: client,
		ttl:    ttl,
	}
}

// ListBanners returns the banners.
func (c *Cache) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	return readThrough(ctx, c, BannersKey, c.source.ListBanners)
}

// ListServices returns the payable services.
func (c *Cache) ListServices(ctx context.Context) ([]domain.Service, error) {
	return readThrough(ctx, c, ServicesKey, c.source.ListServices)
}

func readThrough[T any](ctx context.Context, c *Cache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if c.client == nil {
		return load(ctx)
	}

	l := zerolog.Ctx(ctx)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []T

		uerr := json.Unmarshal(data, &items)
		if uerr == nil {
			return items, nil
		}

		l.Warn().Err(uerr).Str("key", key).Msg("discarding malformed cache entry")
	case errors.Is(err, redis.Nil):
	default:
		l.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(items)
	if err != nil {
		l.Warn().Err(err).Str("key", key).Send()
		return items, nil
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		l.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}

	return items, nil
}
