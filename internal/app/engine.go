// Package app assembles the quoting engine from configuration. The HTTP API
// and the operator CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_ongkir/internal/cache"
	"github.com/GTDGit/gtd_ongkir/internal/config"
	"github.com/GTDGit/gtd_ongkir/internal/database"
	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/internal/repository"
	"github.com/GTDGit/gtd_ongkir/internal/service"
	"github.com/GTDGit/gtd_ongkir/pkg/googlemaps"
	"github.com/GTDGit/gtd_ongkir/pkg/ors"
)

// Engine holds the wired components. RouteCache, Redis, Geocoder and S3 are
// nil when not configured.
type Engine struct {
	DB           *sqlx.DB
	Index        *service.TerritoryIndex
	Table        *service.GeocodeTable
	Geocoder     service.Geocoder
	GeocodeStore *repository.GeocodeCacheRepository
	Distances    *service.DistanceResolver
	Quotes       *service.QuoteService
	Redis        *cache.RedisClient
	RouteCache   *cache.RouteCache
	S3           *service.S3Service
}

// Options selects optional parts of the engine.
type Options struct {
	// Migrate applies database migrations from MigrationsDir before loading.
	Migrate       bool
	MigrationsDir string
	// SkipWardTable starts with an empty coordinate table; the batch job
	// uses it since it produces the table.
	SkipWardTable bool
}

// NewEngine connects to the database and builds the engine. Close releases
// its connections.
func NewEngine(ctx context.Context, cfg *config.Config, opts Options) (*Engine, error) {
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		return nil, err
	}
	e := &Engine{DB: db}

	if opts.Migrate {
		dir := opts.MigrationsDir
		if dir == "" {
			dir = "migrations"
		}
		if err := database.Migrate(db.DB, dir); err != nil {
			e.Close()
			return nil, err
		}
		log.Info().Msg("migrations completed successfully")
	}

	if err := e.build(ctx, cfg, opts); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) build(ctx context.Context, cfg *config.Config, opts Options) error {
	start := time.Now()
	index, err := service.LoadTerritoryIndex(ctx, repository.NewTerritoryRepository(e.DB))
	if err != nil {
		return err
	}
	e.Index = index
	counts := index.Counts()
	log.Info().
		Int("provinces", counts["provinces"]).
		Int("cities", counts["cities"]).
		Int("districts", counts["districts"]).
		Int("wards", counts["wards"]).
		Dur("took", time.Since(start)).
		Msg("territory index loaded")

	if e.S3, err = service.NewS3Service(ctx, &cfg.S3); err != nil {
		if cfg.Reference.Source == "s3" {
			return err
		}
		log.Warn().Err(err).Msg("S3 service initialization failed - reference upload disabled")
	}

	table := service.WardTable{}
	if !opts.SkipWardTable {
		if table, err = e.loadWardTable(ctx, &cfg.Reference); err != nil {
			return err
		}
	}
	centroids, err := loadCentroids(cfg.Reference.DistrictCentroidsPath)
	if err != nil {
		return err
	}
	e.Table = service.NewGeocodeTable(index, table, centroids)
	stats := e.Table.Stats()
	log.Info().Int("wards", stats["wards"]).Int("centroids", stats["centroids"]).Msg("ward coordinate table loaded")

	profiles, err := config.LoadServices(cfg.Reference.ServicesPath)
	if err != nil {
		return err
	}

	google := googlemaps.NewClient(googlemaps.Config{
		APIKey:     cfg.Google.APIKey,
		GeocodeURL: cfg.Google.GeocodeURL,
		RoutesURL:  cfg.Google.RoutesURL,
		Region:     cfg.Google.GeocodeRegion,
	})
	carRouter := ors.NewClient(cfg.ORS.BaseURL, cfg.ORS.APIKey, nil)

	e.GeocodeStore = repository.NewGeocodeCacheRepository(e.DB)
	var geocoder service.Geocoder
	if google.Configured() {
		geocoder = service.NewGoogleGeocoder(google)
		e.Geocoder = geocoder
	} else {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set - geocoding and motorcycle routing disabled")
	}
	resolver := service.NewCoordinateResolver(index, e.Table, geocoder, e.GeocodeStore, cfg.Routing.GeocodeTimeout)

	e.Distances = service.NewDistanceResolver(cfg.Routing.RoadFactor, cfg.Routing.RoadFactorMaxKm)
	if google.Configured() {
		e.Distances.AddStage(service.NewMotorcycleRouteStage(google), cfg.Routing.MotorcycleTimeout)
	}
	if carRouter.Configured() {
		e.Distances.AddStage(service.NewCarRouteStage(carRouter), cfg.Routing.CarTimeout)
	} else {
		log.Warn().Msg("ORS_API_KEY not set - car routing disabled")
	}

	e.Quotes = service.NewQuoteService(resolver, e.Distances, service.NewTariffEngine(cfg.Tariff), profiles, cfg.Origin, cfg.Routing.EstimateTimeout)

	if cfg.Redis.Host != "" {
		e.Redis, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed - route cache disabled")
		} else {
			e.RouteCache = cache.NewRouteCache(e.Redis, cfg.Redis.RouteTTL)
			e.Quotes.SetRouteCache(e.RouteCache)
			log.Info().Dur("ttl", cfg.Redis.RouteTTL).Msg("route cache enabled")
		}
	}

	log.Info().
		Int("services", len(profiles)).
		Interface("methods", e.Distances.Methods()).
		Float64("origin_lat", cfg.Origin.Lat).
		Float64("origin_lng", cfg.Origin.Lng).
		Msg("quote engine ready")
	return nil
}

func (e *Engine) loadWardTable(ctx context.Context, ref *config.ReferenceConfig) (service.WardTable, error) {
	var (
		raw []byte
		err error
	)
	if ref.Source == "s3" {
		raw, err = e.S3.Download(ctx, ref.WardCoordinatesKey)
	} else {
		raw, err = os.ReadFile(ref.WardCoordinatesPath)
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", ref.WardCoordinatesPath).Msg("ward coordinate table not found - every address will be geocoded")
			return service.WardTable{}, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load ward table: %w", err)
	}
	return service.ParseWardTable(raw)
}

func loadCentroids(path string) (map[string]models.Coordinate, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load district centroids: %w", err)
	}
	return service.ParseDistrictCentroids(raw)
}

// Close releases database and Redis connections.
func (e *Engine) Close() {
	if e.Redis != nil {
		_ = e.Redis.Close()
	}
	if e.DB != nil {
		_ = e.DB.Close()
	}
}
