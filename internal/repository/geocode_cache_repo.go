package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/internal/service"
)

// GeocodeCacheRepository persists geocoder answers keyed by the exact query
// string, so a query is paid for once.
type GeocodeCacheRepository struct {
	db *sqlx.DB
}

func NewGeocodeCacheRepository(db *sqlx.DB) *GeocodeCacheRepository {
	return &GeocodeCacheRepository{db: db}
}

type geocodeRow struct {
	Query string  `db:"query"`
	Lat   float64 `db:"lat"`
	Lng   float64 `db:"lng"`
}

// Get returns the cached coordinate of query.
func (r *GeocodeCacheRepository) Get(ctx context.Context, query string) (models.Coordinate, bool, error) {
	var row geocodeRow
	err := r.db.GetContext(ctx, &row, `SELECT query, lat, lng FROM geocode_cache WHERE query = $1`, query)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Coordinate{}, false, nil
	}
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("get geocode cache: %w", err)
	}
	return models.Coordinate{Lat: row.Lat, Lng: row.Lng}, true, nil
}

// GetMany returns cached coordinates for every known query in queries.
func (r *GeocodeCacheRepository) GetMany(ctx context.Context, queries []string) (map[string]models.Coordinate, error) {
	seen := make(map[string]struct{}, len(queries))
	uniq := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		uniq = append(uniq, q)
	}
	if len(uniq) == 0 {
		return map[string]models.Coordinate{}, nil
	}

	var rows []geocodeRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT query, lat, lng FROM geocode_cache WHERE query = ANY($1::text[])
	`, pq.Array(uniq))
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}

	out := make(map[string]models.Coordinate, len(rows))
	for _, row := range rows {
		out[row.Query] = models.Coordinate{Lat: row.Lat, Lng: row.Lng}
	}
	return out, nil
}

// Put stores or refreshes the answer for query.
func (r *GeocodeCacheRepository) Put(ctx context.Context, query string, match service.GeocodeMatch) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("insert geocode cache: empty query")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (query, lat, lng, formatted_address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (query) DO UPDATE
		SET lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			formatted_address = EXCLUDED.formatted_address,
			updated_at = NOW()
	`, query, match.Coordinate.Lat, match.Coordinate.Lng, match.FormattedAddress)
	if err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
	}
	return nil
}

// Count returns the number of cached queries.
func (r *GeocodeCacheRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM geocode_cache`)
	return count, err
}
