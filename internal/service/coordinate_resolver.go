package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

var errGeocoderDisabled = errors.New("geocoder not configured")

// GeocodeMatch is the best candidate returned by a geocoder.
type GeocodeMatch struct {
	Coordinate       models.Coordinate
	FormattedAddress string
}

// Geocoder turns a free-form query into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (GeocodeMatch, error)
}

// GeocodeStore persists geocoder answers by query string.
type GeocodeStore interface {
	Get(ctx context.Context, query string) (models.Coordinate, bool, error)
	Put(ctx context.Context, query string, match GeocodeMatch) error
}

// CoordinateResolver places an administrative address on the map. Tiers run
// in order and the first success wins: table lookup, geocoding, district
// centroid.
type CoordinateResolver struct {
	index    *TerritoryIndex
	table    *GeocodeTable
	geocoder Geocoder
	store    GeocodeStore
	timeout  time.Duration
}

// NewCoordinateResolver creates a resolver. geocoder and store may be nil.
func NewCoordinateResolver(index *TerritoryIndex, table *GeocodeTable, geocoder Geocoder, store GeocodeStore, timeout time.Duration) *CoordinateResolver {
	return &CoordinateResolver{
		index:    index,
		table:    table,
		geocoder: geocoder,
		store:    store,
		timeout:  timeout,
	}
}

// Lookup answers from the ward table alone. It never touches the network.
func (r *CoordinateResolver) Lookup(addr models.AdministrativeAddress) (models.ResolvedLocation, bool) {
	wardID := r.index.Complete(addr).WardID
	if wardID == "" {
		return models.ResolvedLocation{}, false
	}
	c, ok := r.table.Lookup(wardID)
	if !ok {
		return models.ResolvedLocation{}, false
	}
	return models.ResolvedLocation{
		Coordinate: c,
		Source:     models.SourceExactLookup,
		Confidence: models.ConfidenceHigh,
	}, true
}

// Resolve returns the best available coordinate for addr or a
// *ResolutionError when every tier fails.
func (r *CoordinateResolver) Resolve(ctx context.Context, addr models.AdministrativeAddress) (models.ResolvedLocation, error) {
	if loc, ok := r.Lookup(addr); ok {
		return loc, nil
	}
	full := r.index.Complete(addr)

	var lastErr error
	if query := BuildGeocodeQuery(r.index.Names(full)); query != "" {
		c, err := r.geocode(ctx, query)
		if err == nil {
			return models.ResolvedLocation{
				Coordinate: c,
				Source:     models.SourceGeocoded,
				Confidence: models.ConfidenceMedium,
				Query:      query,
			}, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("query", query).Str("address", full.Key()).Msg("geocoding failed, trying district centroid")
	}

	if full.DistrictID != "" {
		if c, ok := r.table.DistrictCentroid(full.DistrictID); ok {
			return models.ResolvedLocation{
				Coordinate: c,
				Source:     models.SourceDistrictCentroid,
				Confidence: models.ConfidenceLow,
			}, nil
		}
	}

	return models.ResolvedLocation{}, &ResolutionError{Kind: AddressUnresolvable, Address: addr, Err: lastErr}
}

func (r *CoordinateResolver) geocode(ctx context.Context, query string) (models.Coordinate, error) {
	if r.store != nil {
		c, ok, err := r.store.Get(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("geocode cache read failed")
		} else if ok {
			return c, nil
		}
	}

	if r.geocoder == nil {
		return models.Coordinate{}, errGeocoderDisabled
	}

	stageCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	match, err := r.geocoder.Geocode(stageCtx, query)
	if err != nil {
		return models.Coordinate{}, err
	}
	if err := match.Coordinate.Validate(); err != nil {
		return models.Coordinate{}, fmt.Errorf("geocoder returned %w", err)
	}
	log.Debug().Str("query", query).Dur("latency", time.Since(start)).Msg("address geocoded")

	if r.store != nil {
		if err := r.store.Put(ctx, query, match); err != nil {
			log.Warn().Err(err).Str("query", query).Msg("geocode cache write failed")
		}
	}
	return match.Coordinate, nil
}
