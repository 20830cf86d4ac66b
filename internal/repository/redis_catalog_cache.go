package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/redis"
	"github.com/NTAravind/Eustress/internal/telemetry"
)

const (
	catalogCacheKey = "catalog:open"
	catalogCacheTTL = 60 * time.Second
)

// RedisCatalogCache caches the open-workshop catalog in Redis. The
// catalog is the hot read path, so it is served from a short-TTL JSON
// blob that admin writes invalidate.
type RedisCatalogCache struct {
	client *redis.Client
}

// NewRedisCatalogCache creates a new RedisCatalogCache
func NewRedisCatalogCache(client *redis.Client) *RedisCatalogCache {
	return &RedisCatalogCache{client: client}
}

// Get returns the cached catalog, or (nil, false) on a miss
func (c *RedisCatalogCache) Get(ctx context.Context) ([]*domain.Workshop, bool) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.catalog.get")
	defer span.End()

	payload, err := c.client.Get(ctx, catalogCacheKey).Result()
	if err != nil || payload == "" {
		span.SetAttributes(attribute.Bool("cache_hit", false))
		span.SetStatus(codes.Ok, "")
		return nil, false
	}

	var workshops []*domain.Workshop
	if err := json.Unmarshal([]byte(payload), &workshops); err != nil {
		// A corrupt entry is treated as a miss and dropped
		span.RecordError(err)
		_ = c.client.Del(ctx, catalogCacheKey).Err()
		return nil, false
	}

	span.SetAttributes(
		attribute.Bool("cache_hit", true),
		attribute.Int("count", len(workshops)),
	)
	span.SetStatus(codes.Ok, "")
	return workshops, true
}

// Set stores the catalog with the cache TTL
func (c *RedisCatalogCache) Set(ctx context.Context, workshops []*domain.Workshop) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.catalog.set")
	defer span.End()

	payload, err := json.Marshal(workshops)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := c.client.Set(ctx, catalogCacheKey, string(payload), catalogCacheTTL).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to cache catalog: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(workshops)))
	span.SetStatus(codes.Ok, "")
	return nil
}

// Invalidate drops the cached catalog after a workshop or seat change
func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.catalog.invalidate")
	defer span.End()

	if err := c.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
