package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/GTDGit/gtd_ongkir/internal/config"
	"github.com/GTDGit/gtd_ongkir/internal/models"
)

func newTestRouteCache(t *testing.T) (*RouteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(&config.RedisConfig{Host: mr.Host(), Port: mr.Port()})
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRouteCache(client, time.Hour), mr
}

var (
	origin = models.Coordinate{Lat: -6.2088, Lng: 106.8456}
	dest   = models.Coordinate{Lat: -6.2297, Lng: 106.8295}
)

func TestRouteCacheLocation(t *testing.T) {
	c, mr := newTestRouteCache(t)
	ctx := context.Background()

	if _, ok, err := c.GetLocation(ctx, "31:3174:317402:3174021001"); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	loc := models.ResolvedLocation{Coordinate: dest, Source: models.SourceGeocoded, Confidence: models.ConfidenceMedium}
	if err := c.SetLocation(ctx, "31:3174:317402:3174021001", loc); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	got, ok, err := c.GetLocation(ctx, "31:3174:317402:3174021001")
	if err != nil || !ok || *got != loc {
		t.Fatalf("GetLocation = %+v, %v, %v", got, ok, err)
	}

	if ttl := mr.TTL("route:loc:31:3174:317402:3174021001"); ttl != time.Hour {
		t.Fatalf("ttl = %s", ttl)
	}
}

func TestRouteCacheDistanceKeyRounding(t *testing.T) {
	c, _ := newTestRouteCache(t)
	ctx := context.Background()

	res := models.DistanceResult{Km: 3.42, Method: models.MethodMotorcycleRoute, DurationSeconds: 600}
	if err := c.SetDistance(ctx, origin, dest, res); err != nil {
		t.Fatalf("SetDistance: %v", err)
	}

	nearby := models.Coordinate{Lat: dest.Lat + 1e-7, Lng: dest.Lng}
	got, ok, err := c.GetDistance(ctx, origin, nearby)
	if err != nil || !ok {
		t.Fatalf("GetDistance: ok=%v err=%v", ok, err)
	}
	if got.Km != 3.42 || got.Method != models.MethodMotorcycleRoute || got.DurationSeconds != 600 {
		t.Fatalf("distance = %+v", got)
	}

	if _, ok, _ := c.GetDistance(ctx, dest, origin); ok {
		t.Fatal("reverse direction must be a separate entry")
	}
}

func TestRouteCacheCorruptEntry(t *testing.T) {
	c, mr := newTestRouteCache(t)
	mr.Set("route:loc:bad", "{not json")

	if _, ok, err := c.GetLocation(context.Background(), "bad"); ok || err == nil {
		t.Fatalf("corrupt entry: ok=%v err=%v", ok, err)
	}
}

func TestRouteCacheFlush(t *testing.T) {
	c, mr := newTestRouteCache(t)
	ctx := context.Background()
	mr.Set("unrelated", "keep")

	_ = c.SetLocation(ctx, "a", models.ResolvedLocation{Source: models.SourceGeocoded})
	_ = c.SetDistance(ctx, origin, dest, models.DistanceResult{Km: 1, Method: models.MethodCarRoute})

	n, err := c.Flush(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Flush = %d, %v", n, err)
	}
	if !mr.Exists("unrelated") {
		t.Fatal("flush removed a foreign key")
	}
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
