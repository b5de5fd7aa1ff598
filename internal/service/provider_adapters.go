package service

import (
	"context"
	"time"

	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/pkg/googlemaps"
	"github.com/GTDGit/gtd_ongkir/pkg/ors"
)

type googleGeocodeAPI interface {
	Geocode(ctx context.Context, address string) (*googlemaps.GeocodeResult, error)
}

// GoogleGeocoder adapts the Google Geocoding client to Geocoder.
type GoogleGeocoder struct {
	client googleGeocodeAPI
}

func NewGoogleGeocoder(client googleGeocodeAPI) *GoogleGeocoder {
	return &GoogleGeocoder{client: client}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (GeocodeMatch, error) {
	res, err := g.client.Geocode(ctx, query)
	if err != nil {
		return GeocodeMatch{}, err
	}
	return GeocodeMatch{
		Coordinate:       models.Coordinate{Lat: res.Location.Lat, Lng: res.Location.Lng},
		FormattedAddress: res.FormattedAddress,
	}, nil
}

type twoWheelerRouter interface {
	ComputeTwoWheelerRoute(ctx context.Context, origin, destination googlemaps.LatLng) (*googlemaps.Route, error)
}

// MotorcycleRouteStage routes with Google's TWO_WHEELER mode, avoiding tolls.
type MotorcycleRouteStage struct {
	client twoWheelerRouter
}

func NewMotorcycleRouteStage(client twoWheelerRouter) *MotorcycleRouteStage {
	return &MotorcycleRouteStage{client: client}
}

func (s *MotorcycleRouteStage) Method() models.DistanceMethod {
	return models.MethodMotorcycleRoute
}

func (s *MotorcycleRouteStage) Route(ctx context.Context, origin, destination models.Coordinate) (models.DistanceResult, error) {
	route, err := s.client.ComputeTwoWheelerRoute(ctx,
		googlemaps.LatLng{Lat: origin.Lat, Lng: origin.Lng},
		googlemaps.LatLng{Lat: destination.Lat, Lng: destination.Lng},
	)
	if err != nil {
		return models.DistanceResult{}, err
	}
	return models.DistanceResult{
		Km:              float64(route.DistanceMeters) / 1000,
		DurationSeconds: int(route.Duration / time.Second),
		Raw:             route.Raw,
	}, nil
}

type carDirections interface {
	Directions(ctx context.Context, profile string, fromLat, fromLng, toLat, toLng float64) (*ors.Summary, error)
}

// CarRouteStage routes with the ORS driving-car profile. Toll roads are
// allowed, so the distance may be shorter than a motorcycle could ride.
type CarRouteStage struct {
	client carDirections
}

func NewCarRouteStage(client carDirections) *CarRouteStage {
	return &CarRouteStage{client: client}
}

func (s *CarRouteStage) Method() models.DistanceMethod {
	return models.MethodCarRoute
}

func (s *CarRouteStage) Route(ctx context.Context, origin, destination models.Coordinate) (models.DistanceResult, error) {
	sum, err := s.client.Directions(ctx, ors.ProfileDrivingCar, origin.Lat, origin.Lng, destination.Lat, destination.Lng)
	if err != nil {
		return models.DistanceResult{}, err
	}
	return models.DistanceResult{
		Km:              sum.DistanceMeters / 1000,
		DurationSeconds: int(sum.DurationSeconds),
		Raw:             sum.Raw,
	}, nil
}
