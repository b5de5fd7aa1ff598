package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

// LocationResolver places an address on the map. Lookup is the local table
// tier; Resolve runs every tier.
type LocationResolver interface {
	Lookup(addr models.AdministrativeAddress) (models.ResolvedLocation, bool)
	Resolve(ctx context.Context, addr models.AdministrativeAddress) (models.ResolvedLocation, error)
}

// DistanceSource measures travel distance. It never fails.
type DistanceSource interface {
	Distance(ctx context.Context, origin, destination models.Coordinate) models.DistanceResult
}

// RouteCache stores resolved locations and routed distances between requests.
type RouteCache interface {
	GetLocation(ctx context.Context, addressKey string) (*models.ResolvedLocation, bool, error)
	SetLocation(ctx context.Context, addressKey string, loc models.ResolvedLocation) error
	GetDistance(ctx context.Context, origin, destination models.Coordinate) (*models.DistanceResult, bool, error)
	SetDistance(ctx context.Context, origin, destination models.Coordinate, res models.DistanceResult) error
}

// EstimateRequest asks for quotes of services for one address. An empty
// Services list quotes every configured service.
type EstimateRequest struct {
	Address  models.AdministrativeAddress
	Services []string
}

// QuoteService composes coordinate resolution, distance resolution and
// pricing into delivery quotes from the fixed pickup origin.
type QuoteService struct {
	resolver  LocationResolver
	distances DistanceSource
	tariff    *TariffEngine
	profiles  []models.ServiceProfile
	byName    map[string]models.ServiceProfile
	origin    models.Coordinate
	timeout   time.Duration
	cache     RouteCache
	now       func() time.Time
}

func NewQuoteService(
	resolver LocationResolver,
	distances DistanceSource,
	tariff *TariffEngine,
	profiles []models.ServiceProfile,
	origin models.Coordinate,
	timeout time.Duration,
) *QuoteService {
	byName := make(map[string]models.ServiceProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
	}
	return &QuoteService{
		resolver:  resolver,
		distances: distances,
		tariff:    tariff,
		profiles:  profiles,
		byName:    byName,
		origin:    origin,
		timeout:   timeout,
		now:       time.Now,
	}
}

// SetRouteCache enables caching of locations and routed distances.
func (s *QuoteService) SetRouteCache(c RouteCache) {
	s.cache = c
}

// SetClock replaces the wall clock used for surge pricing.
func (s *QuoteService) SetClock(now func() time.Time) {
	s.now = now
}

// Services returns the configured catalogue in configuration order.
func (s *QuoteService) Services() []models.ServiceProfile {
	return s.profiles
}

// Origin returns the pickup coordinate.
func (s *QuoteService) Origin() models.Coordinate {
	return s.origin
}

// Estimate resolves the address and the distance once, then prices every
// requested service from that same distance. An unresolvable address is the
// only domain error; cancellation of ctx is returned as is.
func (s *QuoteService) Estimate(ctx context.Context, req EstimateRequest) (*models.Estimate, error) {
	if req.Address.IsEmpty() {
		return nil, utils.ErrInvalidAddress
	}

	parent := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	loc, err := s.resolveLocation(ctx, req.Address)
	if err != nil {
		// a tier cut short by the caller is not an unresolvable address
		if perr := parent.Err(); perr != nil {
			return nil, perr
		}
		return nil, err
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}

	dist := s.resolveDistance(ctx, loc.Coordinate)
	if err := parent.Err(); err != nil {
		return nil, err
	}

	quotedAt := s.now()
	surge := models.SurgeContextAt(quotedAt)

	names := s.serviceNames(req.Services)
	quotes := make([]models.Quote, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		go func() {
			defer wg.Done()
			quotes[i] = s.price(name, dist, surge)
		}()
	}
	wg.Wait()

	est := &models.Estimate{
		Address:  req.Address,
		Location: loc,
		Distance: dist,
		Quotes:   quotes,
		Cheapest: Cheapest(quotes),
		Surge:    surge,
		QuotedAt: quotedAt,
	}

	log.Info().
		Str("address", req.Address.Key()).
		Str("source", string(loc.Source)).
		Str("method", string(dist.Method)).
		Float64("km", utils.RoundTo(dist.Km, 2)).
		Int("services", len(quotes)).
		Dur("latency", time.Since(start)).
		Msg("estimate computed")

	return est, nil
}

// Cheapest returns the available quote with the lowest cost. Ties go to the
// quote that appears first, so callers control tie-breaking through order.
func Cheapest(quotes []models.Quote) *models.Quote {
	var best *models.Quote
	for i := range quotes {
		q := &quotes[i]
		if !q.Available {
			continue
		}
		if best == nil || q.Cost < best.Cost {
			best = q
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

func (s *QuoteService) price(name string, dist models.DistanceResult, surge models.SurgeContext) models.Quote {
	p, ok := s.byName[name]
	if !ok {
		return models.Quote{
			Service:    name,
			DistanceKm: utils.RoundTo(dist.Km, 2),
			Currency:   models.CurrencyIDR,
			MinorUnit:  models.MinorUnitIDR,
			Reason:     models.ReasonUnknownService,
		}
	}
	q := s.tariff.Price(dist.Km, p, surge)
	q.DistanceMethod = dist.Method
	return q
}

func (s *QuoteService) serviceNames(requested []string) []string {
	names := make([]string, 0, len(requested))
	for _, n := range requested {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) > 0 {
		return names
	}
	for _, p := range s.profiles {
		names = append(names, p.Name)
	}
	return names
}

func (s *QuoteService) resolveLocation(ctx context.Context, addr models.AdministrativeAddress) (models.ResolvedLocation, error) {
	if loc, ok := s.resolver.Lookup(addr); ok {
		return loc, nil
	}

	key := addr.Key()
	if s.cache != nil {
		loc, ok, err := s.cache.GetLocation(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("address", key).Msg("route cache read failed")
		} else if ok {
			return *loc, nil
		}
	}

	loc, err := s.resolver.Resolve(ctx, addr)
	if err != nil {
		return models.ResolvedLocation{}, err
	}

	if s.cache != nil && loc.Cacheable() {
		if err := s.cache.SetLocation(ctx, key, loc); err != nil {
			log.Warn().Err(err).Str("address", key).Msg("route cache write failed")
		}
	}
	return loc, nil
}

func (s *QuoteService) resolveDistance(ctx context.Context, dest models.Coordinate) models.DistanceResult {
	if s.cache != nil {
		res, ok, err := s.cache.GetDistance(ctx, s.origin, dest)
		if err != nil {
			log.Warn().Err(err).Msg("route cache read failed")
		} else if ok {
			return *res
		}
	}

	res := s.distances.Distance(ctx, s.origin, dest)

	// only routed distances are cached; fallbacks are recomputed next time
	if s.cache != nil && res.Method.IsRouted() {
		if err := s.cache.SetDistance(ctx, s.origin, dest, res); err != nil {
			log.Warn().Err(err).Msg("route cache write failed")
		}
	}
	return res
}
