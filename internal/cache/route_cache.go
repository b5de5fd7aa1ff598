package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

const routeKeyPrefix = "route:"

// RouteCache keeps resolved locations and routed distances in Redis.
// Keys:
//
//	route:loc:{province}:{city}:{district}:{ward}
//	route:dist:{originLat},{originLng}:{destLat},{destLng}
//
// Coordinates in distance keys are rounded to 5 decimals (about 1 m).
type RouteCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewRouteCache creates a new RouteCache.
func NewRouteCache(redis *RedisClient, ttl time.Duration) *RouteCache {
	return &RouteCache{
		redis: redis,
		ttl:   ttl,
	}
}

func (c *RouteCache) keyLocation(addressKey string) string {
	return fmt.Sprintf("%sloc:%s", routeKeyPrefix, addressKey)
}

func (c *RouteCache) keyDistance(origin, dest models.Coordinate) string {
	return fmt.Sprintf("%sdist:%.5f,%.5f:%.5f,%.5f", routeKeyPrefix, origin.Lat, origin.Lng, dest.Lat, dest.Lng)
}

// GetLocation returns the cached location of an address key.
func (c *RouteCache) GetLocation(ctx context.Context, addressKey string) (*models.ResolvedLocation, bool, error) {
	var loc models.ResolvedLocation
	ok, err := c.getJSON(ctx, c.keyLocation(addressKey), &loc)
	if !ok {
		return nil, false, err
	}
	return &loc, true, nil
}

// SetLocation caches a resolved location.
func (c *RouteCache) SetLocation(ctx context.Context, addressKey string, loc models.ResolvedLocation) error {
	return c.setJSON(ctx, c.keyLocation(addressKey), loc)
}

// GetDistance returns the cached distance between two coordinates.
func (c *RouteCache) GetDistance(ctx context.Context, origin, dest models.Coordinate) (*models.DistanceResult, bool, error) {
	var res models.DistanceResult
	ok, err := c.getJSON(ctx, c.keyDistance(origin, dest), &res)
	if !ok {
		return nil, false, err
	}
	return &res, true, nil
}

// SetDistance caches a distance.
func (c *RouteCache) SetDistance(ctx context.Context, origin, dest models.Coordinate, res models.DistanceResult) error {
	return c.setJSON(ctx, c.keyDistance(origin, dest), res)
}

// Flush removes every route cache entry.
func (c *RouteCache) Flush(ctx context.Context) (int64, error) {
	return c.redis.DeleteByPattern(ctx, routeKeyPrefix+"*")
}

// Ping reports whether Redis is reachable.
func (c *RouteCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx)
}

func (c *RouteCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.redis.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		// a corrupt entry is a miss; it is overwritten on the next set
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *RouteCache) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.redis.Set(ctx, key, string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
